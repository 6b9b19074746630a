// Package gitrepotest builds throwaway git repositories for tests.
package gitrepotest

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// Fixture is a repository whose feature branch diverged from main, after
// which main moved on. BaseSHA is the tip of main, HeadSHA the tip of feature.
type Fixture struct {
	Dir     string
	BaseSHA string
	HeadSHA string
}

// WantChanged is the merge-base relative change set of the fixture, in
// git's path order. main-only.yaml, committed to main after the branch
// point, is excluded.
var WantChanged = []string{
	"deploy/app.yaml",
	"deploy/base.yaml",
	"deploy/svc.yml",
	"docs/notes.md",
}

// New creates the fixture in a temp dir, skipping the test when git is
// not on PATH.
func New(t *testing.T) *Fixture {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skipf("git not on PATH: %v", err)
	}

	dir := t.TempDir()
	Run(t, dir, "init", "-q")
	Run(t, dir, "config", "user.email", "test@example.com")
	Run(t, dir, "config", "user.name", "Test")
	Run(t, dir, "config", "commit.gpgsign", "false")

	WriteFile(t, dir, "README.md", "test\n")
	WriteFile(t, dir, "deploy/base.yaml", "kind: ConfigMap\n")
	Commit(t, dir, "init")

	Run(t, dir, "checkout", "-q", "-b", "feature")
	WriteFile(t, dir, "deploy/app.yaml", "kind: Deployment\n")
	WriteFile(t, dir, "deploy/svc.yml", "kind: Service\n")
	WriteFile(t, dir, "deploy/base.yaml", "kind: ConfigMap\ndata: {}\n")
	WriteFile(t, dir, "docs/notes.md", "notes\n")
	Commit(t, dir, "feature work")
	head := Run(t, dir, "rev-parse", "HEAD")

	Run(t, dir, "checkout", "-q", "-")
	WriteFile(t, dir, "main-only.yaml", "kind: Secret\n")
	Commit(t, dir, "main moves on")
	base := Run(t, dir, "rev-parse", "HEAD")

	return &Fixture{Dir: dir, BaseSHA: base, HeadSHA: head}
}

// WriteFile writes content to dir/rel, creating parent directories.
func WriteFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
}

// Commit stages everything and commits it.
func Commit(t *testing.T, dir, msg string) {
	t.Helper()
	Run(t, dir, "add", "-A")
	Run(t, dir, "commit", "-q", "-m", msg)
}

// Run executes git in dir and returns trimmed stdout.
func Run(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.CommandContext(context.Background(), "git", args...)
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		var stderr string
		if ee, ok := err.(*exec.ExitError); ok {
			stderr = string(ee.Stderr)
		}
		t.Fatalf("git %v failed: %v\nstderr: %s", args, err, stderr)
	}
	return strings.TrimSpace(string(output))
}
