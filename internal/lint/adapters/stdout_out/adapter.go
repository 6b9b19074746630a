// Package stdoutout prints the verdict instead of posting it, for dry runs.
package stdoutout

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/nathantilsley/kubeconform-pr/internal/lint/domain"
)

// Adapter implements ports.CommentPort by writing the comment body to w.
type Adapter struct {
	w io.Writer
}

// New creates a dry-run comment adapter.
func New(w io.Writer) *Adapter {
	return &Adapter{w: w}
}

// PostComment writes the body, newline terminated.
func (a *Adapter) PostComment(_ context.Context, req domain.CommentRequest) error {
	body := req.Body
	if !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	if _, err := io.WriteString(a.w, body); err != nil {
		return fmt.Errorf("writing comment: %w", err)
	}
	return nil
}
