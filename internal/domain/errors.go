// Package domain defines the two error kinds shared by every domain package:
// validation errors for malformed input caught before any mutation, and state
// errors for operations that violate a precondition on an entity's current
// state. Both are synchronous and non-retryable.
package domain

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed input. No side effects have occurred when
// one is returned, so its message is safe to show to the caller verbatim.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// StateError reports an operation rejected because of the entity's current
// state: unknown id, wrong owner, mutating an inactive or archived entity,
// repeating a transition. Maps to a conflict or not-found at the boundary.
type StateError struct {
	msg string
}

func (e *StateError) Error() string { return e.msg }

// Statef builds a StateError from a format string.
func Statef(format string, args ...any) error {
	return &StateError{msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsState reports whether err is (or wraps) a StateError.
func IsState(err error) bool {
	var s *StateError
	return errors.As(err, &s)
}
