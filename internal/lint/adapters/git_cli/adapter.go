// Package gitcli extracts change sets with the git binary.
package gitcli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nathantilsley/kubeconform-pr/internal/lint/domain"
	"github.com/nathantilsley/kubeconform-pr/internal/platform/gitrepo"
)

// Adapter implements ports.ChangeSetPort by shelling out to git.
type Adapter struct {
	repo   *gitrepo.GitRepo
	logger *slog.Logger
}

// New creates a git CLI change-set adapter for the given checkout.
func New(repo *gitrepo.GitRepo, logger *slog.Logger) *Adapter {
	return &Adapter{repo: repo, logger: logger}
}

// ChangedFiles runs `git diff --name-only base...head`.
func (a *Adapter) ChangedFiles(ctx context.Context, revisions domain.RevisionPair) ([]string, error) {
	a.logger.Debug("listing changed files with git", "range", revisions.Range(), "repo", a.repo.Path())

	files, err := a.repo.DiffNameOnly(ctx, revisions.Base, revisions.Head)
	if err != nil {
		return nil, fmt.Errorf("diffing %s: %w", revisions.Range(), err)
	}
	return files, nil
}

// RepositoryRoot returns the top level of the checkout, which may be an
// ancestor of the configured workspace.
func (a *Adapter) RepositoryRoot(ctx context.Context) (string, error) {
	root, err := a.repo.TopLevel(ctx)
	if err != nil {
		return "", fmt.Errorf("resolving repository root of %s: %w", a.repo.Path(), err)
	}
	return root, nil
}
