package main

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/nathantilsley/kubeconform-pr/internal/lint/domain"
	"github.com/nathantilsley/kubeconform-pr/internal/platform/config"
	"github.com/nathantilsley/kubeconform-pr/internal/platform/logger"
	"github.com/nathantilsley/kubeconform-pr/internal/platform/telemetry"
)

type mockUseCase struct {
	calls  int
	got    domain.RevisionPair
	result domain.AggregatedResult
	err    error
}

func (m *mockUseCase) Execute(_ context.Context, revisions domain.RevisionPair) (domain.AggregatedResult, error) {
	m.calls++
	m.got = revisions
	return m.result, m.err
}

func TestRunCheck(t *testing.T) {
	uc := &mockUseCase{}

	if err := runCheck(context.Background(), uc, "abc", "def"); err != nil {
		t.Fatalf("runCheck: %v", err)
	}
	if uc.calls != 1 {
		t.Fatalf("Execute calls = %d, want 1", uc.calls)
	}
	if uc.got.Range() != "abc...def" {
		t.Errorf("range = %q, want %q", uc.got.Range(), "abc...def")
	}
}

func TestRunCheck_MissingRevision(t *testing.T) {
	tests := []struct {
		name string
		base string
		head string
	}{
		{name: "missing base", head: "def"},
		{name: "missing head", base: "abc"},
		{name: "missing both"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}

			err := runCheck(context.Background(), uc, tt.base, tt.head)
			if !domain.IsConfigurationError(err) {
				t.Fatalf("expected ConfigurationError, got %v", err)
			}
			if !errors.Is(err, domain.ErrMissingRevision) {
				t.Errorf("expected ErrMissingRevision, got %v", err)
			}
			if uc.calls != 0 {
				t.Errorf("Execute called %d times, want 0", uc.calls)
			}
		})
	}
}

func TestRunCheck_PropagatesUseCaseError(t *testing.T) {
	cause := domain.NewCollaboratorError("extracting change set", errors.New("boom"))
	uc := &mockUseCase{err: cause}

	err := runCheck(context.Background(), uc, "abc", "def")
	if !errors.Is(err, cause) {
		t.Fatalf("expected use case error, got %v", err)
	}
}

func TestNewRootCmd_Flags(t *testing.T) {
	cmd := newRootCmd(&bytes.Buffer{})

	for _, name := range []string{"dry-run", "config"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("flag --%s not registered", name)
		}
	}
	if cmd.Version != version {
		t.Errorf("Version = %q, want %q", cmd.Version, version)
	}
}

func TestNewRootCmd_MissingRevision(t *testing.T) {
	t.Setenv("CI_BASE_REVISION", "")
	t.Setenv("GITHUB_BASE_SHA", "")
	t.Setenv("CI_COMMIT_SHA", "")
	t.Setenv("GITHUB_SHA", "")
	t.Setenv("LINT_CONFIG_FILE", "")
	t.Setenv("PLUGIN_CONFIG_FILE", "")

	cmd := newRootCmd(&bytes.Buffer{})
	cmd.SetArgs([]string{"--dry-run"})

	err := cmd.ExecuteContext(context.Background())
	if !errors.Is(err, domain.ErrMissingRevision) {
		t.Fatalf("expected ErrMissingRevision, got %v", err)
	}
}

func TestNewContainer(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}

	base := config.Config{
		Revisions:          domain.RevisionPair{Base: "abc", Head: "def"},
		Workspace:          t.TempDir(),
		DiffEngine:         config.DiffEngineGoGit,
		KubeconformBin:     sh,
		Extensions:         domain.DefaultExtensions,
		Concurrency:        1,
		CommentMaxAttempts: 1,
	}
	log := logger.New("error")

	t.Run("dry run", func(t *testing.T) {
		c, err := NewContainer(base, log, telemetry.Noop(), true, &bytes.Buffer{})
		if err != nil {
			t.Fatalf("NewContainer: %v", err)
		}
		if c.LintService == nil {
			t.Error("LintService not wired")
		}
		if c.GitHubClient != nil {
			t.Error("dry run should not create a GitHub client")
		}
	})

	t.Run("token auth", func(t *testing.T) {
		cfg := base
		cfg.GitHubToken = "ghp_test"
		cfg.Coordinates = domain.RepositoryCoordinates{Owner: "acme", Repo: "widgets"}
		cfg.RequestNumber = 7

		c, err := NewContainer(cfg, log, telemetry.Noop(), false, &bytes.Buffer{})
		if err != nil {
			t.Fatalf("NewContainer: %v", err)
		}
		if c.GitHubClient == nil {
			t.Error("expected a GitHub client")
		}
	})

	t.Run("no credentials", func(t *testing.T) {
		if _, err := NewContainer(base, log, telemetry.Noop(), false, &bytes.Buffer{}); err == nil {
			t.Fatal("expected error without credentials")
		}
	})

	t.Run("missing validator binary", func(t *testing.T) {
		cfg := base
		cfg.KubeconformBin = "kubeconform-does-not-exist"

		if _, err := NewContainer(cfg, log, telemetry.Noop(), true, &bytes.Buffer{}); err == nil {
			t.Fatal("expected error for missing validator binary")
		}
	})
}
