package gitrepo

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nathantilsley/kubeconform-pr/internal/platform/gitrepo/gitrepotest"
)

func TestNew(t *testing.T) {
	t.Parallel()

	repo, err := New("/tmp/test", nil)
	if err != nil {
		t.Skipf("git not on PATH: %v", err)
	}
	if repo.Path() != "/tmp/test" {
		t.Errorf("Path() = %q, want %q", repo.Path(), "/tmp/test")
	}
}

func TestDiffNameOnly_MergeBaseRelative(t *testing.T) {
	t.Parallel()

	fx := gitrepotest.New(t)
	repo, err := New(fx.Dir, slog.New(slog.NewTextHandler(os.Stderr, nil)))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	got, err := repo.DiffNameOnly(context.Background(), fx.BaseSHA, fx.HeadSHA)
	if err != nil {
		t.Fatalf("DiffNameOnly failed: %v", err)
	}
	if diff := cmp.Diff(gitrepotest.WantChanged, got); diff != "" {
		t.Errorf("DiffNameOnly mismatch (-want +got):\n%s", diff)
	}
}

func TestDiffNameOnly_NoChanges(t *testing.T) {
	t.Parallel()

	fx := gitrepotest.New(t)
	repo, err := New(fx.Dir, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	got, err := repo.DiffNameOnly(context.Background(), fx.HeadSHA, fx.HeadSHA)
	if err != nil {
		t.Fatalf("DiffNameOnly failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no changes, got %v", got)
	}
}

func TestDiffNameOnly_UnknownRevision(t *testing.T) {
	t.Parallel()

	fx := gitrepotest.New(t)
	repo, err := New(fx.Dir, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = repo.DiffNameOnly(context.Background(), "does-not-exist", fx.HeadSHA)
	if err == nil {
		t.Fatal("expected error for unknown revision, got nil")
	}
	if !strings.Contains(err.Error(), "git diff failed") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDiffNameOnly_OptionLikeRevision(t *testing.T) {
	t.Parallel()

	fx := gitrepotest.New(t)
	repo, err := New(fx.Dir, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	out := filepath.Join(t.TempDir(), "diff.txt")
	got, err := repo.DiffNameOnly(context.Background(), "--output="+out, fx.HeadSHA)
	if err == nil {
		t.Fatalf("expected error for option-like revision, got files %v", got)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Errorf("revision was interpreted as an option: %s exists", out)
	}
}

func TestTopLevel(t *testing.T) {
	t.Parallel()

	fx := gitrepotest.New(t)
	want, err := filepath.EvalSymlinks(fx.Dir)
	if err != nil {
		t.Fatalf("resolving fixture dir: %v", err)
	}

	for _, dir := range []string{fx.Dir, filepath.Join(fx.Dir, "deploy")} {
		repo, err := New(dir, nil)
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		got, err := repo.TopLevel(context.Background())
		if err != nil {
			t.Fatalf("TopLevel(%s) failed: %v", dir, err)
		}
		if got, _ = filepath.EvalSymlinks(got); got != want {
			t.Errorf("TopLevel(%s) = %q, want %q", dir, got, want)
		}
	}
}

func TestDiffNameOnly_NotARepository(t *testing.T) {
	t.Parallel()

	repo, err := New(t.TempDir(), nil)
	if err != nil {
		t.Skipf("git not on PATH: %v", err)
	}
	if _, err := repo.DiffNameOnly(context.Background(), "a", "b"); err == nil {
		t.Fatal("expected error outside a repository, got nil")
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: nil},
		{name: "trailing newline", in: "a.yaml\nb.yml\n", want: []string{"a.yaml", "b.yml"}},
		{name: "blank lines dropped", in: "a.yaml\n\n\nb.yml", want: []string{"a.yaml", "b.yml"}},
		{name: "crlf", in: "a.yaml\r\nb.yml\r\n", want: []string{"a.yaml", "b.yml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, SplitLines(tt.in)); diff != "" {
				t.Errorf("SplitLines mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
