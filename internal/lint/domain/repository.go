package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// remoteURLPattern matches github.com/<owner>/<repo>[.git] at the end of an
// HTTPS remote, and github.com:<owner>/<repo>[.git] for SSH remotes.
var remoteURLPattern = regexp.MustCompile(`github\.com[:/]([^/:]+)/([^/]+?)/?$`)

// RepositoryCoordinates identifies a GitHub repository.
type RepositoryCoordinates struct {
	Owner string
	Repo  string
}

// String returns "owner/repo".
func (c RepositoryCoordinates) String() string {
	return c.Owner + "/" + c.Repo
}

// ParseRemoteURL extracts owner and repo from a GitHub remote URL.
// The boolean is false when the URL does not point at github.com.
func ParseRemoteURL(remoteURL string) (RepositoryCoordinates, bool) {
	m := remoteURLPattern.FindStringSubmatch(strings.TrimSpace(remoteURL))
	if m == nil {
		return RepositoryCoordinates{}, false
	}
	return RepositoryCoordinates{Owner: m[1], Repo: trimGitSuffix(m[2])}, true
}

// ResolveCoordinates determines the repository from the remote URL first and
// then, field by field, from the owner and repo overrides.
func ResolveCoordinates(remoteURL, ownerOverride, repoOverride string) (RepositoryCoordinates, error) {
	parsed, _ := ParseRemoteURL(remoteURL)

	coords := RepositoryCoordinates{
		Owner: FirstNonEmpty(parsed.Owner, ownerOverride),
		Repo:  trimGitSuffix(FirstNonEmpty(parsed.Repo, repoOverride)),
	}
	if coords.Owner == "" || coords.Repo == "" {
		return RepositoryCoordinates{}, NewConfigurationError(
			fmt.Errorf("%w (owner=%q, repo=%q)", ErrUnresolvedRepository, coords.Owner, coords.Repo),
		)
	}
	return coords, nil
}

// FirstNonEmpty returns the first non-empty value, or "".
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func trimGitSuffix(repo string) string {
	return strings.TrimSuffix(repo, ".git")
}
