package model

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is matched by every ValidationError via errors.Is
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned by stores when a record id is unknown
	ErrNotFound = errors.New("record not found")
	// ErrPersistence wraps failures of the backing store
	ErrPersistence = errors.New("persistence failure")
)

// ValidationError describes an input that was rejected before any store write
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a ValidationError for the given field
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
