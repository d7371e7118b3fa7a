// Copyright 2026 The Plantwatch Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ErrorCategory classifies command errors so that scripts wrapping
// the CLI can make programmatic decisions (retry, fix input,
// re-authenticate) without parsing error message text.
type ErrorCategory string

const (
	// CategoryValidation indicates the caller provided invalid
	// input: missing required arguments, wrong argument count,
	// unparseable values. The caller should fix the input and retry.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound indicates a referenced resource does not
	// exist: unknown equipment ID, missing event. Retrying with the
	// same parameters will not help.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryUnauthenticated indicates no valid session exists.
	// The caller should run "plantwatch login" and retry.
	CategoryUnauthenticated ErrorCategory = "unauthenticated"

	// CategoryForbidden indicates the user's role does not permit
	// the requested operation.
	CategoryForbidden ErrorCategory = "forbidden"

	// CategoryTransient indicates a temporary failure: network
	// error, timeout, service restart. The caller should back off
	// and retry.
	CategoryTransient ErrorCategory = "transient"

	// CategoryInternal indicates an unexpected error: bugs, I/O
	// failures, parse errors on data the system produced.
	CategoryInternal ErrorCategory = "internal"
)

// CommandError is a categorized error returned by CLI commands. It
// wraps an inner error, preserving the full error chain for debugging
// while adding category metadata. Use the category-specific
// constructors (Validation, NotFound, etc.) rather than constructing
// CommandError directly.
type CommandError struct {
	// Category classifies the error for programmatic handling.
	Category ErrorCategory

	// Err is the underlying error with the human-readable message.
	Err error
}

// Error returns the underlying error message. The category is not
// included in the string; it maps to the process exit code instead.
func (e *CommandError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error, allowing errors.Is and
// errors.As to walk the full chain through the CommandError wrapper.
func (e *CommandError) Unwrap() error { return e.Err }

// Validation creates a validation error: the caller provided bad input.
func Validation(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error: a referenced resource does not exist.
func NotFound(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Unauthenticated creates an unauthenticated error: no valid session.
func Unauthenticated(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryUnauthenticated, Err: fmt.Errorf(format, args...)}
}

// Forbidden creates a forbidden error: the user's role does not permit this.
func Forbidden(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryForbidden, Err: fmt.Errorf(format, args...)}
}

// Transient creates a transient error: a temporary failure that may
// succeed on retry.
func Transient(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryTransient, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error: an unexpected failure, bug, or
// I/O error.
func Internal(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}
