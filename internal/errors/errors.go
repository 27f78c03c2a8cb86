// Package errors defines the sentinel errors shared by every domain package. Domain errors wrap
// one of these sentinels so handlers and the reconciler can classify failures with Is.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a conflict with existing data (e.g., duplicate key).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates a remote party rejected our credentials, e.g. a terminal API key.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnavailable indicates a remote dependency (e.g., a payment terminal) could not be reached
	// or failed on its side. Operations failing with it are worth retrying later.
	ErrUnavailable = errors.New("unavailable")
)

// Wrap adds message as context while preserving the error chain.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Mark classifies err under sentinel while keeping err itself in the chain, so both
// Is(result, sentinel) and Is(result, <cause>) hold.
func Mark(err, sentinel error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", message, sentinel, err)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
