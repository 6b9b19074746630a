// Package githubout posts the verdict as a pull request comment.
package githubout

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	gogithub "github.com/google/go-github/v68/github"

	"github.com/nathantilsley/kubeconform-pr/internal/lint/domain"
)

const (
	defaultInitialInterval = time.Second

	// sinceSkew widens the duplicate lookup window for clock drift between
	// the runner and GitHub.
	sinceSkew = time.Minute
)

// Adapter implements ports.CommentPort via the GitHub Issues API.
type Adapter struct {
	client      *gogithub.Client
	maxAttempts uint
	newBackOff  func() backoff.BackOff
	logger      *slog.Logger
}

// New creates a GitHub comment adapter. maxAttempts bounds the number of
// CreateComment calls per post; values below 1 mean a single attempt.
func New(client *gogithub.Client, maxAttempts int, logger *slog.Logger) *Adapter {
	return &Adapter{
		client:      client,
		maxAttempts: uint(max(maxAttempts, 1)),
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = defaultInitialInterval
			return b
		},
		logger: logger,
	}
}

// PostComment creates one issue comment on the pull request. Client errors
// (4xx other than 429) are not retried. A 5xx may arrive after GitHub stored
// the comment, so before each retry the pull request is searched for a
// comment with the same body created since the first attempt.
func (a *Adapter) PostComment(ctx context.Context, req domain.CommentRequest) error {
	owner, repo := req.Coordinates.Owner, req.Coordinates.Repo
	a.logger.Info("posting PR comment", "repo", req.Coordinates.String(), "pr", req.RequestNumber)

	since := time.Now().Add(-sinceSkew)
	attempt := 0
	createComment := func() (*gogithub.IssueComment, error) {
		attempt++
		if attempt > 1 {
			existing, err := a.findPosted(ctx, req, since)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				a.logger.Info("comment from a failed attempt was stored, not posting again", "commentID", existing.GetID())
				return existing, nil
			}
		}

		comment, resp, err := a.client.Issues.CreateComment(ctx, owner, repo, req.RequestNumber, &gogithub.IssueComment{
			Body: gogithub.Ptr(req.Body),
		})
		if err != nil {
			if isPermanent(resp) {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		return comment, nil
	}

	comment, err := backoff.Retry(ctx, createComment,
		backoff.WithBackOff(a.newBackOff()),
		backoff.WithMaxTries(a.maxAttempts),
		backoff.WithNotify(func(err error, next time.Duration) {
			a.logger.Warn("creating PR comment failed, retrying", "attempt", attempt, "retryIn", next, "error", err)
		}),
	)
	if err != nil {
		return fmt.Errorf("creating PR comment on %s#%d: %w", req.Coordinates, req.RequestNumber, err)
	}

	a.logger.Info("PR comment posted successfully", "commentID", comment.GetID(), "url", comment.GetHTMLURL())
	return nil
}

// findPosted returns the comment on the pull request whose body equals
// req.Body and that was updated after since, or nil.
func (a *Adapter) findPosted(ctx context.Context, req domain.CommentRequest, since time.Time) (*gogithub.IssueComment, error) {
	opts := &gogithub.IssueListCommentsOptions{
		Since:       &since,
		ListOptions: gogithub.ListOptions{PerPage: 100},
	}
	for {
		comments, resp, err := a.client.Issues.ListComments(ctx, req.Coordinates.Owner, req.Coordinates.Repo, req.RequestNumber, opts)
		if err != nil {
			return nil, fmt.Errorf("listing PR comments: %w", err)
		}
		for _, c := range comments {
			if c.GetBody() == req.Body {
				return c, nil
			}
		}
		if resp.NextPage == 0 {
			return nil, nil
		}
		opts.Page = resp.NextPage
	}
}

func isPermanent(resp *gogithub.Response) bool {
	if resp == nil {
		return false
	}
	code := resp.StatusCode
	return code >= http.StatusBadRequest && code < http.StatusInternalServerError && code != http.StatusTooManyRequests
}
