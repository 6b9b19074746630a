package domain

import "strings"

const (
	successMarker = "✅"
	failureMarker = "❌"

	successMessage = "**Linting passed for all changed files**"
	failureHeader  = "**Linting failed for the following files:**"
)

// CommentRequest is the single write issued against the review platform.
type CommentRequest struct {
	Coordinates   RepositoryCoordinates
	RequestNumber int
	Body          string
}

// RenderComment formats the aggregated result as a pull request comment.
// Only file paths are included; diagnostics stay in the local logs.
func RenderComment(result AggregatedResult) string {
	if result.Passed() {
		return successMarker + " " + successMessage
	}

	var sb strings.Builder
	sb.WriteString(failureMarker + " " + failureHeader + "\n")
	for _, p := range result.FailedPaths {
		sb.WriteString("- " + p + "\n")
	}
	return sb.String()
}
