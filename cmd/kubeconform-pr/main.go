// Package main provides the kubeconform-pr CI step: it validates the
// Kubernetes manifests a pull request changes and reports the verdict as a
// single PR comment.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nathantilsley/kubeconform-pr/internal/lint/domain"
	"github.com/nathantilsley/kubeconform-pr/internal/lint/ports"
	"github.com/nathantilsley/kubeconform-pr/internal/platform/config"
	"github.com/nathantilsley/kubeconform-pr/internal/platform/logger"
	"github.com/nathantilsley/kubeconform-pr/internal/platform/telemetry"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 5 * time.Second

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

func execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCmd(os.Stdout).ExecuteContext(ctx)
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	var opts config.LoadOptions

	cmd := &cobra.Command{
		Use:   "kubeconform-pr",
		Short: "Validate changed Kubernetes manifests and report on the pull request",
		Long: "kubeconform-pr diffs the base and head revisions from the CI environment, " +
			"runs kubeconform on every changed .yaml/.yml file and posts one summary comment " +
			"to the pull request.",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts, stdout)
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "print the comment to stdout instead of posting it")
	cmd.Flags().StringVar(&opts.SettingsFile, "config", "", "path to a YAML settings file (overrides LINT_CONFIG_FILE)")

	return cmd
}

func run(ctx context.Context, opts config.LoadOptions, stdout io.Writer) error {
	// Load configuration
	cfg, err := config.Load(opts)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Initialize logger
	log := logger.New(cfg.LogLevel)

	tel, err := telemetry.New(ctx, cfg.OTelEnabled, version)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			log.Warn("flushing telemetry failed", "error", err)
		}
	}()

	// Build dependency container
	container, err := NewContainer(cfg, log, tel, opts.DryRun, stdout)
	if err != nil {
		return fmt.Errorf("building container: %w", err)
	}

	return runCheck(ctx, container.LintService, cfg.Revisions.Base, cfg.Revisions.Head)
}

// runCheck validates the revision pair before handing it to the use case, so
// nothing is diffed or posted without both revisions.
func runCheck(ctx context.Context, uc ports.LintUseCase, base, head string) error {
	revisions, err := domain.NewRevisionPair(base, head)
	if err != nil {
		return err
	}

	if _, err := uc.Execute(ctx, revisions); err != nil {
		return err
	}
	return nil
}
