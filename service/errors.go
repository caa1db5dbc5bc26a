package service

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to callers. Wrap them with fmt.Errorf("%w") and
// test with errors.Is.
var (
	// ErrValidation marks input rejected before any state change
	ErrValidation = errors.New("validation failed")

	// ErrConflict marks a write refused by a uniqueness rule, such as a
	// second game for the same puzzle
	ErrConflict = errors.New("conflict")

	// ErrNotFound marks an unknown player, puzzle or destination
	ErrNotFound = errors.New("not found")

	// ErrUnavailable marks a collaborator that could not be reached
	ErrUnavailable = errors.New("collaborator unavailable")
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFoundError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
