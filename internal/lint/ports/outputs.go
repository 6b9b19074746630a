package ports

import (
	"context"

	"github.com/nathantilsley/kubeconform-pr/internal/lint/domain"
)

// ChangeSetPort abstracts the version-control diff engine.
type ChangeSetPort interface {
	// ChangedFiles returns the paths that differ between the merge base of
	// base and head, and head, in the order the engine reports them.
	ChangedFiles(ctx context.Context, revisions domain.RevisionPair) ([]string, error)
	// RepositoryRoot returns the absolute working tree root the changed
	// paths are relative to.
	RepositoryRoot(ctx context.Context) (string, error)
}

// ValidatorPort abstracts the schema-conformance tool. A failing file is
// reported through the outcome, never as an error.
type ValidatorPort interface {
	Validate(ctx context.Context, absPath string) domain.ValidationOutcome
}

// CommentPort abstracts posting the rendered verdict back to the review.
type CommentPort interface {
	PostComment(ctx context.Context, req domain.CommentRequest) error
}
