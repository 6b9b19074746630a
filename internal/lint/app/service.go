package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/nathantilsley/kubeconform-pr/internal/lint/domain"
	"github.com/nathantilsley/kubeconform-pr/internal/lint/ports"
)

// Target is where the verdict is posted. It may be left zero for dry runs.
type Target struct {
	Coordinates   domain.RepositoryCoordinates
	RequestNumber int
}

// Options tunes how files are validated.
type Options struct {
	Concurrency  int           // validator invocations allowed to overlap; <= 1 is sequential
	Timeout      time.Duration // per-file validation timeout; 0 means none
	FailOnErrors bool          // return domain.ErrValidationFailed after posting a failure comment
}

// LintService implements ports.LintUseCase by orchestrating change-set
// extraction, filtering, validation, rendering and publishing.
type LintService struct {
	changeSet ports.ChangeSetPort
	validator ports.ValidatorPort
	publisher ports.CommentPort
	filter    domain.FileFilter
	target    Target
	opts      Options
	logger    *slog.Logger
	tracer    trace.Tracer
	metrics   serviceMetrics
}

// NewLintService creates a LintService wired with all driven ports.
func NewLintService(
	cs ports.ChangeSetPort,
	v ports.ValidatorPort,
	pub ports.CommentPort,
	filter domain.FileFilter,
	target Target,
	opts Options,
	logger *slog.Logger,
	meter metric.Meter,
	tracer trace.Tracer,
) *LintService {
	return &LintService{
		changeSet: cs,
		validator: v,
		publisher: pub,
		filter:    filter,
		target:    target,
		opts:      opts,
		logger:    logger,
		tracer:    tracer,
		metrics:   newServiceMetrics(meter, logger),
	}
}

// Execute runs the check for the given revisions and posts exactly one
// comment. Validation failures are reported through the comment and the
// returned result; only collaborator failures are returned as errors, unless
// FailOnErrors is set.
func (s *LintService) Execute(ctx context.Context, revisions domain.RevisionPair) (domain.AggregatedResult, error) {
	ctx, span := s.tracer.Start(ctx, "lint.Execute", trace.WithAttributes(
		attribute.String("revision.base", revisions.Base),
		attribute.String("revision.head", revisions.Head),
	))
	defer span.End()

	s.logger.Info("checking revision range", "base", revisions.Base, "head", revisions.Head)

	changed, err := s.changedFiles(ctx, revisions)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "change set extraction failed")
		return domain.AggregatedResult{}, err
	}
	s.logger.Info("changed files", "count", len(changed), "files", changed)

	targets := s.filter.Filter(changed)
	s.logger.Info("files to validate", "count", len(targets), "extensions", s.filter.Extensions())
	span.SetAttributes(
		attribute.Int("files.changed", len(changed)),
		attribute.Int("files.targeted", len(targets)),
	)

	var root string
	if len(targets) > 0 {
		if root, err = s.repositoryRoot(ctx); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "resolving repository root failed")
			return domain.AggregatedResult{}, err
		}
	}

	result := s.validateAll(ctx, root, targets)
	span.SetAttributes(attribute.Int("files.failed", len(result.FailedPaths)))

	body := domain.RenderComment(result)
	if err := s.publish(ctx, body); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "posting comment failed")
		return domain.AggregatedResult{}, err
	}

	if !result.Passed() {
		s.logger.Warn("validation failed", "failedCount", len(result.FailedPaths), "failed", result.FailedPaths)
		if s.opts.FailOnErrors {
			return result, domain.ErrValidationFailed
		}
		return result, nil
	}

	s.logger.Info("all changed files passed validation")
	return result, nil
}

func (s *LintService) changedFiles(ctx context.Context, revisions domain.RevisionPair) ([]string, error) {
	ctx, span := s.tracer.Start(ctx, "lint.ChangedFiles")
	defer span.End()

	files, err := s.changeSet.ChangedFiles(ctx, revisions)
	if err != nil {
		span.RecordError(err)
		return nil, domain.NewCollaboratorError("extracting change set", err)
	}
	return files, nil
}

func (s *LintService) repositoryRoot(ctx context.Context) (string, error) {
	root, err := s.changeSet.RepositoryRoot(ctx)
	if err != nil {
		return "", domain.NewCollaboratorError("resolving repository root", err)
	}
	s.logger.Debug("resolved repository root", "root", root)
	return root, nil
}

// validateAll validates every path, resolved against root, and folds the
// outcomes in input order, whatever order the validator invocations
// complete in.
func (s *LintService) validateAll(ctx context.Context, root string, paths []string) domain.AggregatedResult {
	outcomes := make([]domain.ValidationOutcome, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.opts.Concurrency, 1))
	for i, p := range paths {
		g.Go(func() error {
			outcomes[i] = s.validateOne(gctx, root, p)
			return nil
		})
	}
	_ = g.Wait() // validateOne never fails

	return domain.Aggregate(outcomes)
}

func (s *LintService) validateOne(ctx context.Context, root, path string) domain.ValidationOutcome {
	absPath, err := absPath(root, path)
	if err != nil {
		s.logger.Error("resolving file path failed", "file", path, "error", err)
		return domain.FailedOutcome(path, err.Error())
	}

	ctx, span := s.tracer.Start(ctx, "lint.Validate", trace.WithAttributes(
		attribute.String("file.path", path),
	))
	defer span.End()

	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	s.logger.Info("validating file", "file", absPath)
	start := time.Now()
	outcome := s.validator.Validate(ctx, absPath)
	elapsed := time.Since(start)

	// Report the path as it appeared in the change set.
	outcome.Path = path

	status := "passed"
	if !outcome.Passed {
		status = "failed"
		span.SetStatus(codes.Error, "validation failed")
		s.logger.Error("validation failed", "file", path, "diagnostic", outcome.Diagnostic)
		s.metrics.filesFailed.Add(ctx, 1)
	}
	s.metrics.filesChecked.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	s.metrics.validateDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attribute.String("status", status)))

	return outcome
}

func absPath(root, path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	if root != "" {
		return filepath.Join(root, path), nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	return abs, nil
}

func (s *LintService) publish(ctx context.Context, body string) error {
	ctx, span := s.tracer.Start(ctx, "lint.PostComment", trace.WithAttributes(
		attribute.String("repository", s.target.Coordinates.String()),
		attribute.Int("request.number", s.target.RequestNumber),
	))
	defer span.End()

	req := domain.CommentRequest{
		Coordinates:   s.target.Coordinates,
		RequestNumber: s.target.RequestNumber,
		Body:          body,
	}
	if err := s.publisher.PostComment(ctx, req); err != nil {
		span.RecordError(err)
		return domain.NewCollaboratorError("posting comment", err)
	}
	s.metrics.commentsPosted.Add(ctx, 1)
	return nil
}
