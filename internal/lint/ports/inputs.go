package ports

import (
	"context"

	"github.com/nathantilsley/kubeconform-pr/internal/lint/domain"
)

// LintUseCase is the driving port for running the check over a revision range.
type LintUseCase interface {
	Execute(ctx context.Context, revisions domain.RevisionPair) (domain.AggregatedResult, error)
}
