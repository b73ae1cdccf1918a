// Package apperr holds the error taxonomy shared by services, stores and handlers.
// Stores and services wrap these sentinels with %w so callers can branch with errors.Is.
package apperr

import "errors"

var (
	// ErrValidation marks a missing or malformed required field.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidCredentials is returned by login for both unknown emails and wrong
	// passwords so callers cannot tell the two apart.
	ErrInvalidCredentials = errors.New("user or password incorrect")

	// ErrMissingCredentials means a protected route was called without an Authorization header.
	ErrMissingCredentials = errors.New("missing authorization header")

	// ErrInvalidToken covers malformed, tampered and expired bearer tokens alike.
	ErrInvalidToken = errors.New("invalid token")

	// ErrDuplicateEmail is returned when signup hits the unique email constraint.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrNotFound is returned by stores when no record matches the (owner-scoped) lookup.
	ErrNotFound = errors.New("not found")

	// ErrPersistence wraps store and infrastructure failures.
	ErrPersistence = errors.New("persistence failure")

	// ErrHashing wraps failures of the password hashing primitive.
	ErrHashing = errors.New("hashing failure")
)
