// Package gitrepo runs read-only git commands against a local checkout.
package gitrepo

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// GitRepo wraps the git binary for a single working tree.
type GitRepo struct {
	gitBin    string
	localPath string
	logger    *slog.Logger
}

// New creates a GitRepo for the checkout at localPath. It verifies that the
// git binary is available on PATH.
func New(localPath string, logger *slog.Logger) (*GitRepo, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	gitBin, err := exec.LookPath("git")
	if err != nil {
		return nil, fmt.Errorf("git binary not found: %w", err)
	}
	return &GitRepo{
		gitBin:    gitBin,
		localPath: localPath,
		logger:    logger,
	}, nil
}

// Path returns the local filesystem path of the checkout.
func (r *GitRepo) Path() string {
	return r.localPath
}

// DiffNameOnly returns the paths changed between the merge base of base and
// head, and head (`git diff --name-only base...head`), in git's order. Paths
// are relative to the repository top level.
func (r *GitRepo) DiffNameOnly(ctx context.Context, base, head string) ([]string, error) {
	out, err := r.run(ctx, "diff", "--name-only", "--no-color", "--end-of-options", base+"..."+head, "--")
	if err != nil {
		return nil, err
	}
	return SplitLines(out), nil
}

// TopLevel returns the absolute path of the repository's working tree root,
// which may be an ancestor of Path.
func (r *GitRepo) TopLevel(ctx context.Context) (string, error) {
	out, err := r.run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// run executes a git subcommand in the checkout and returns its stdout.
func (r *GitRepo) run(ctx context.Context, args ...string) (string, error) {
	// core.quotepath=false keeps non-ASCII paths verbatim.
	fullArgs := append([]string{"-C", r.localPath, "-c", "core.quotepath=false"}, args...)
	r.logger.Debug("running git", "args", fullArgs)

	//nolint:gosec // G204: arguments are revisions from CI configuration
	cmd := exec.CommandContext(ctx, r.gitBin, fullArgs...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s failed: %w\nstderr: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// SplitLines splits command output on line boundaries and drops empty lines.
func SplitLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
