package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrTopicNotFound signals a blank or unknown topic identifier.
	ErrTopicNotFound = errors.New("topic not found")
	// ErrSubjectNotFound signals a subject that could not be resolved by identity hash.
	ErrSubjectNotFound = errors.New("subject not found")
	// ErrProposalNotFound signals a dismiss/share request with missing identifiers.
	ErrProposalNotFound = errors.New("proposal not found")
	// ErrInvalidConfig signals an out-of-range proposal config field.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrConfigNotFound signals that no config version is persisted for the user.
	ErrConfigNotFound = errors.New("config not found")
	// ErrComputation signals an unexpected failure while resolving or scoring subjects.
	ErrComputation = errors.New("computation error")
	// ErrStoreNotReady signals an uninitialized subject store. Callers treat it as a
	// benign empty result, never as a failure.
	ErrStoreNotReady = errors.New("store not ready")
	// ErrExtractionProviderError signals a keyword extraction provider failure.
	ErrExtractionProviderError = errors.New("extraction provider error")
)

// InvalidConfigError wraps ErrInvalidConfig with the first offending field.
type InvalidConfigError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("%s: field %q %s", ErrInvalidConfig.Error(), e.Field, e.Reason)
}

func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// NewInvalidConfig creates an invalid config error naming the offending field.
func NewInvalidConfig(field, reason string) error {
	return &InvalidConfigError{Field: field, Reason: reason}
}
