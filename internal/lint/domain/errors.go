package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingRevision is the cause when the base or head revision is not set.
	ErrMissingRevision = errors.New("base or head revision not found")
	// ErrInvalidRevision is the cause when a revision starts with "-".
	ErrInvalidRevision = errors.New("revision must not start with '-'")
	// ErrUnresolvedRepository is the cause when owner or repo cannot be determined.
	ErrUnresolvedRepository = errors.New("repository owner or name could not be determined")
	// ErrInvalidRequestNumber is the cause when the pull request number is absent or not an integer.
	ErrInvalidRequestNumber = errors.New("invalid pull request number")
	// ErrValidationFailed is returned after a failure comment was posted when
	// the run is configured to fail on validation errors.
	ErrValidationFailed = errors.New("one or more files failed validation")
)

// ConfigurationError reports an operator/setup problem detected before any
// side effect took place.
type ConfigurationError struct {
	Err error
}

// NewConfigurationError wraps err as a ConfigurationError.
func NewConfigurationError(err error) *ConfigurationError {
	return &ConfigurationError{Err: err}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// IsConfigurationError reports whether err is or wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// CollaboratorError reports a failure of an external collaborator (diff
// engine, review platform). Op names the failed operation.
type CollaboratorError struct {
	Op  string
	Err error
}

// NewCollaboratorError wraps err as a CollaboratorError for the named operation.
func NewCollaboratorError(op string, err error) *CollaboratorError {
	return &CollaboratorError{Op: op, Err: err}
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

// IsCollaboratorError reports whether err is or wraps a CollaboratorError.
func IsCollaboratorError(err error) bool {
	var ce *CollaboratorError
	return errors.As(err, &ce)
}
