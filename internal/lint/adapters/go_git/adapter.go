// Package gogit extracts change sets in-process with go-git, for images
// that ship without a git binary.
package gogit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/nathantilsley/kubeconform-pr/internal/lint/domain"
)

// ErrNoMergeBase is returned when base and head share no history.
var ErrNoMergeBase = errors.New("no common ancestor")

// Adapter implements ports.ChangeSetPort on top of go-git.
type Adapter struct {
	repoPath string
	logger   *slog.Logger
}

// New creates a go-git change-set adapter. The repository is opened lazily
// on each call; repoPath may point anywhere inside the working tree.
func New(repoPath string, logger *slog.Logger) *Adapter {
	return &Adapter{repoPath: repoPath, logger: logger}
}

// ChangedFiles diffs the merge-base tree of base and head against the head
// tree. Each change contributes its destination path, or its source path for
// deletions. Paths are returned sorted, as git does.
func (a *Adapter) ChangedFiles(ctx context.Context, revisions domain.RevisionPair) ([]string, error) {
	repo, err := a.open()
	if err != nil {
		return nil, err
	}

	baseCommit, err := resolveCommit(repo, revisions.Base)
	if err != nil {
		return nil, err
	}
	headCommit, err := resolveCommit(repo, revisions.Head)
	if err != nil {
		return nil, err
	}

	bases, err := baseCommit.MergeBase(headCommit)
	if err != nil {
		return nil, fmt.Errorf("computing merge base of %s: %w", revisions.Range(), err)
	}
	if len(bases) == 0 {
		return nil, fmt.Errorf("%s: %w", revisions.Range(), ErrNoMergeBase)
	}
	a.logger.Debug("resolved merge base", "range", revisions.Range(), "mergeBase", bases[0].Hash.String())

	fromTree, err := bases[0].Tree()
	if err != nil {
		return nil, fmt.Errorf("reading merge-base tree: %w", err)
	}
	toTree, err := headCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("reading head tree: %w", err)
	}

	changes, err := object.DiffTreeWithOptions(ctx, fromTree, toTree, object.DefaultDiffTreeOptions)
	if err != nil {
		return nil, fmt.Errorf("diffing trees: %w", err)
	}

	paths := make([]string, 0, len(changes))
	for _, c := range changes {
		name := c.To.Name
		if name == "" {
			name = c.From.Name
		}
		paths = append(paths, name)
	}
	slices.Sort(paths)

	return paths, nil
}

// RepositoryRoot returns the root of the working tree containing repoPath.
func (a *Adapter) RepositoryRoot(_ context.Context) (string, error) {
	repo, err := a.open()
	if err != nil {
		return "", err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("opening worktree of %s: %w", a.repoPath, err)
	}
	return wt.Filesystem.Root(), nil
}

func (a *Adapter) open() (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(a.repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening repository %s: %w", a.repoPath, err)
	}
	return repo, nil
}

func resolveCommit(repo *git.Repository, rev string) (*object.Commit, error) {
	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("resolving revision %q: %w", rev, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("loading commit %s: %w", hash, err)
	}
	return commit, nil
}
