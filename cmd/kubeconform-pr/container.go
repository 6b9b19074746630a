package main

import (
	"fmt"
	"io"
	"log/slog"

	gogithub "github.com/google/go-github/v68/github"

	gitcli "github.com/nathantilsley/kubeconform-pr/internal/lint/adapters/git_cli"
	githubout "github.com/nathantilsley/kubeconform-pr/internal/lint/adapters/github_out"
	gogit "github.com/nathantilsley/kubeconform-pr/internal/lint/adapters/go_git"
	kubeconformcli "github.com/nathantilsley/kubeconform-pr/internal/lint/adapters/kubeconform_cli"
	stdoutout "github.com/nathantilsley/kubeconform-pr/internal/lint/adapters/stdout_out"
	"github.com/nathantilsley/kubeconform-pr/internal/lint/app"
	"github.com/nathantilsley/kubeconform-pr/internal/lint/domain"
	"github.com/nathantilsley/kubeconform-pr/internal/lint/ports"
	"github.com/nathantilsley/kubeconform-pr/internal/platform/config"
	ghclient "github.com/nathantilsley/kubeconform-pr/internal/platform/github"
	"github.com/nathantilsley/kubeconform-pr/internal/platform/gitrepo"
	"github.com/nathantilsley/kubeconform-pr/internal/platform/telemetry"
)

// Container holds all application dependencies.
type Container struct {
	GitHubClient *gogithub.Client // nil in dry-run mode
	LintService  ports.LintUseCase
}

// NewContainer builds and wires all dependencies. In dry-run mode the
// comment is written to stdout and no GitHub client is created.
func NewContainer(cfg config.Config, log *slog.Logger, tel *telemetry.Telemetry, dryRun bool, stdout io.Writer) (*Container, error) {
	changeSet, err := newChangeSet(cfg, log)
	if err != nil {
		return nil, err
	}

	validator, err := kubeconformcli.New(cfg.KubeconformBin, cfg.KubeconformArgs, log)
	if err != nil {
		return nil, fmt.Errorf("creating kubeconform adapter: %w", err)
	}

	var (
		publisher    ports.CommentPort
		githubClient *gogithub.Client
	)
	if dryRun {
		log.Info("dry run, comment will be printed instead of posted")
		publisher = stdoutout.New(stdout)
	} else {
		githubClient, err = ghclient.NewClient(ghclient.Options{
			Token:          cfg.GitHubToken,
			AppID:          cfg.GitHubAppID,
			InstallationID: cfg.GitHubInstallationID,
			PrivateKeyPEM:  cfg.GitHubPrivateKey,
			BaseURL:        cfg.GitHubAPIURL,
		})
		if err != nil {
			return nil, fmt.Errorf("creating github client: %w", err)
		}
		publisher = githubout.New(githubClient, cfg.CommentMaxAttempts, log)
	}

	lintService := app.NewLintService(
		changeSet,
		validator,
		publisher,
		domain.NewFileFilter(cfg.Extensions...),
		app.Target{
			Coordinates:   cfg.Coordinates,
			RequestNumber: cfg.RequestNumber,
		},
		app.Options{
			Concurrency:  cfg.Concurrency,
			Timeout:      cfg.ValidateTimeout,
			FailOnErrors: cfg.FailOnErrors,
		},
		log,
		tel.Meter,
		tel.Tracer,
	)

	return &Container{
		GitHubClient: githubClient,
		LintService:  lintService,
	}, nil
}

func newChangeSet(cfg config.Config, log *slog.Logger) (ports.ChangeSetPort, error) {
	switch cfg.DiffEngine {
	case config.DiffEngineGoGit:
		log.Info("using go-git diff engine", "workspace", cfg.Workspace)
		return gogit.New(cfg.Workspace, log), nil
	default:
		repo, err := gitrepo.New(cfg.Workspace, log)
		if err != nil {
			return nil, fmt.Errorf("creating git adapter: %w", err)
		}
		return gitcli.New(repo, log), nil
	}
}
