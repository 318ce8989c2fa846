package dataprep

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks a field that is missing or fails type coercion.
	ErrValidation = errors.New("invalid field")
	// ErrOutOfRange marks a tenure with no defined bin.
	ErrOutOfRange = errors.New("value out of range")
	// ErrUnknownCategory marks a categorical value outside the reference vocabulary.
	ErrUnknownCategory = errors.New("unknown category")
)

// FieldError ties one of the sentinel errors to the field and raw value that caused it.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }
