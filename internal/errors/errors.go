// Package errors provides standardized domain errors that express intent rather than
// infrastructure details. Domain packages wrap these sentinels so that callers (the CLI
// in particular) can classify a failure with errors.Is and pick the right remediation.
package errors

import (
	"errors"
	"fmt"
)

// Standard domain errors that can be used across all domain modules.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates the supplied key material does not open the resource
	// (wrong password, wrong key file).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrCorrupted indicates persisted data is malformed or failed an integrity check.
	ErrCorrupted = errors.New("corrupted")

	// ErrIO indicates a filesystem failure (open, read, write, stat, rename).
	ErrIO = errors.New("i/o error")
)

// New creates a new error with the given message.
// This is a convenience wrapper around errors.New for consistency.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
// Use this to add context at each layer without losing the original error type.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IO tags err as an ErrIO failure while keeping err itself in the chain, so both
// errors.Is(result, ErrIO) and errors.Is(result, fs.ErrNotExist) hold.
func IO(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", message, ErrIO, err)
}

// Is reports whether any error in err's tree matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}
