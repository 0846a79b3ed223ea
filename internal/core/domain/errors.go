package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidPeriod indicates an unrecognised period token.
	ErrInvalidPeriod = errors.New("invalid period")

	// ErrInvalidDateFormat indicates a custom date string that does not
	// match YYYY-MM-DD or YYYY-MM-DD HH:MM.
	ErrInvalidDateFormat = errors.New("invalid date format")

	// ErrInvalidRange indicates a range whose start is after its end.
	ErrInvalidRange = errors.New("start date must be before end date")

	// Provider Errors.

	// ErrProviderNotInstalled indicates the calendar application cannot be
	// instantiated on this machine.
	ErrProviderNotInstalled = errors.New("calendar provider is not installed or not available")

	// ErrProviderUnavailable indicates a provider-layer failure while querying.
	ErrProviderUnavailable = errors.New("calendar provider error")

	// ErrFieldAccess indicates a single appointment field could not be read.
	// Queries skip the affected record instead of failing.
	ErrFieldAccess = errors.New("appointment field unavailable")

	// ErrNotConfigured indicates a provider is missing required settings.
	ErrNotConfigured = errors.New("provider not configured")
)

// ProviderError wraps a provider failure with the operation that caused it.
// It matches ErrProviderUnavailable with errors.Is and unwraps to the
// provider's own diagnostic.
type ProviderError struct {
	// Provider is the provider name (e.g. "outlook").
	Provider string

	// Op is the operation that failed (e.g. "restrict items").
	Op string

	// Err is the underlying diagnostic.
	Err error
}

// NewProviderError creates a ProviderError.
func NewProviderError(provider, op string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Op: op, Err: err}
}

// Error implements error.
func (e *ProviderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s failed", e.Provider, e.Op)
	}
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Op, e.Err)
}

// Unwrap returns the underlying diagnostic.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrProviderUnavailable.
func (e *ProviderError) Is(target error) bool {
	return target == ErrProviderUnavailable
}
