package domain

import "strings"

// DefaultExtensions are the two conventional YAML suffixes.
var DefaultExtensions = []string{".yaml", ".yml"}

// FileFilter selects the changed files that are subject to validation.
type FileFilter struct {
	extensions []string
}

// NewFileFilter creates a filter matching the given suffixes.
// With no suffixes it falls back to DefaultExtensions.
func NewFileFilter(extensions ...string) FileFilter {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	exts := make([]string, len(extensions))
	copy(exts, extensions)
	return FileFilter{extensions: exts}
}

// Extensions returns the suffixes this filter matches.
func (f FileFilter) Extensions() []string {
	out := make([]string, len(f.extensions))
	copy(out, f.extensions)
	return out
}

// Matches reports whether path ends with one of the filter's suffixes.
// Matching is case-sensitive.
func (f FileFilter) Matches(path string) bool {
	for _, ext := range f.extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// Filter returns the matching paths in their original order.
func (f FileFilter) Filter(changeSet []string) []string {
	filtered := make([]string, 0, len(changeSet))
	for _, p := range changeSet {
		if f.Matches(p) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
