// Package kubeconformcli validates manifests with the kubeconform CLI.
package kubeconformcli

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/nathantilsley/kubeconform-pr/internal/lint/domain"
)

const waitDelay = 2 * time.Second

// Adapter implements ports.ValidatorPort by shelling out to kubeconform.
type Adapter struct {
	bin    string
	args   []string
	logger *slog.Logger
}

// New creates a kubeconform adapter. bin may be a name on PATH or a path;
// it is resolved at construction time so a missing tool fails the run
// before any file is checked.
func New(bin string, args []string, logger *slog.Logger) (*Adapter, error) {
	resolved, err := exec.LookPath(bin)
	if err != nil {
		return nil, fmt.Errorf("kubeconform binary not found: %w", err)
	}
	return &Adapter{bin: resolved, args: args, logger: logger}, nil
}

// Validate runs `kubeconform [args] <absPath>`. A zero exit status passes;
// anything else, including a crash or a cancelled context, fails with the
// captured output as diagnostic.
func (a *Adapter) Validate(ctx context.Context, absPath string) domain.ValidationOutcome {
	args := append(append([]string{}, a.args...), absPath)

	//nolint:gosec // G204: binary and args come from CI configuration
	cmd := exec.CommandContext(ctx, a.bin, args...)
	// Bound the wait for output pipes after the process is killed on
	// cancellation; orphaned children could otherwise hold them open.
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return domain.FailedOutcome(absPath, diagnostic(err, stdout.String(), stderr.String()))
	}

	if out := strings.TrimSpace(stdout.String()); out != "" {
		a.logger.Info("kubeconform output", "file", absPath, "output", out)
	}
	return domain.PassedOutcome(absPath)
}

// diagnostic combines the process error with whatever the tool printed.
// kubeconform reports invalid resources on stdout.
func diagnostic(err error, stdout, stderr string) string {
	var parts []string
	parts = append(parts, err.Error())
	if s := strings.TrimSpace(stdout); s != "" {
		parts = append(parts, s)
	}
	if s := strings.TrimSpace(stderr); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, "\n")
}
