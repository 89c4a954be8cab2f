// Package common defines the sentinel errors shared across service,
// store, and transport layers. Callers match them with errors.Is.
package common

import (
	"errors"
	"strings"
)

var (
	// Repository / lookup errors.
	ErrNotFound = errors.New("not found")

	// Input errors. ErrValidation usually carries per-field details,
	// see WithDetails.
	ErrValidation = errors.New("validation error")

	// Login and old-password mismatches. Reported uniformly so callers
	// cannot tell an unknown user from a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Uniqueness conflicts on username or email. Retryable with a new
	// candidate value.
	ErrDuplicate = errors.New("duplicate credential")

	// Authorization policy denial.
	ErrForbidden = errors.New("forbidden")

	// Operation requires a signed-in principal.
	ErrUnauthenticated = errors.New("unauthenticated")

	// Malformed or expired bearer token.
	ErrInvalidToken = errors.New("invalid token")

	// Missing signing key or similar startup misconfiguration.
	ErrConfiguration = errors.New("configuration error")

	// Opaque store-level failure, surfaced with detail, never retried here.
	ErrOperationFailed = errors.New("operation failed")

	ErrInternal = errors.New("internal error")
)

// DetailError couples a sentinel error with an itemized detail list so a
// caller can both match the class with errors.Is and render the items.
type DetailError struct {
	Err     error
	Details []string
}

func (e *DetailError) Error() string {
	if len(e.Details) == 0 {
		return e.Err.Error()
	}
	return e.Err.Error() + ": " + strings.Join(e.Details, "; ")
}

func (e *DetailError) Unwrap() error { return e.Err }

// WithDetails wraps err with the given detail items. With no items the
// original error is returned unchanged.
func WithDetails(err error, details ...string) error {
	if len(details) == 0 {
		return err
	}
	return &DetailError{Err: err, Details: details}
}

// Details returns the itemized detail list attached to err, or nil.
func Details(err error) []string {
	var de *DetailError
	if errors.As(err, &de) {
		return de.Details
	}
	return nil
}
