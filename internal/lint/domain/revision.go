package domain

import (
	"fmt"
	"strings"
)

// RevisionPair identifies the two commits whose difference is checked.
type RevisionPair struct {
	Base string
	Head string
}

// NewRevisionPair returns a RevisionPair, or a ConfigurationError wrapping
// ErrMissingRevision when either identifier is empty, or ErrInvalidRevision
// when one starts with "-" and would be read as a git option.
func NewRevisionPair(base, head string) (RevisionPair, error) {
	if base == "" || head == "" {
		return RevisionPair{}, NewConfigurationError(
			fmt.Errorf("%w (base=%q, head=%q)", ErrMissingRevision, base, head),
		)
	}
	if strings.HasPrefix(base, "-") || strings.HasPrefix(head, "-") {
		return RevisionPair{}, NewConfigurationError(
			fmt.Errorf("%w (base=%q, head=%q)", ErrInvalidRevision, base, head),
		)
	}
	return RevisionPair{Base: base, Head: head}, nil
}

// Range returns the merge-base relative range "base...head".
func (p RevisionPair) Range() string {
	return p.Base + "..." + p.Head
}
