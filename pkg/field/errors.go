package field

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInteger is reported when an integer field holds a value with no
	// leading integer.
	ErrNotInteger = errors.New("invalid data for field - not an integer")
	// ErrNotFloat is reported when a float field holds a value with no
	// leading number.
	ErrNotFloat = errors.New("invalid data for field - not a float")
	// ErrNotInEnum is reported when an enum field holds a value outside the
	// descriptor's value set.
	ErrNotInEnum = errors.New("invalid data for field - not in valid values")

	// ErrKeyMismatch is returned by New when the control is bound to a
	// different key than the descriptor.
	ErrKeyMismatch = errors.New("field: control key does not match descriptor key")
	// ErrNilControl is returned by New when no control is supplied.
	ErrNilControl = errors.New("field: control is nil")
)

// ValidationError is the typed failure returned from Save. It matches the
// sentinel for its cause through errors.Is.
type ValidationError struct {
	Key   string
	Value any
	Cause error
}

func (e *ValidationError) Error() string {
	if e == nil || e.Cause == nil {
		return ""
	}
	return e.Cause.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newValidationError(key string, value any, cause error) *ValidationError {
	return &ValidationError{Key: key, Value: value, Cause: cause}
}

func describeValue(v any) string {
	if v == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%v (%T)", v, v)
}
