package payroll

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("employee not found")
	ErrEmptyCollection   = errors.New("no employee data available")
	ErrDeletionCancelled = errors.New("deletion cancelled")
	ErrIOFailure         = errors.New("file operation failed")
	ErrNotLoaded         = errors.New("payroll file not loaded")
)

// InputError is returned when a numeric field cannot be parsed.
type InputError struct {
	Field string
	Value string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s %q: please enter a valid number", e.Field, e.Value)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}
