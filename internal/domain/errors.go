// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyName is returned when a subject or chapter name trims to empty.
	// The snapshot is left unchanged.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrSubjectNotFound is returned when an operation references an unknown subject.
	ErrSubjectNotFound = errors.New("subject not found")

	// ErrChapterNotFound is returned when an operation references an unknown chapter.
	ErrChapterNotFound = errors.New("chapter not found")

	// ErrSlotNotFound is returned when an operation references an unknown revision slot.
	ErrSlotNotFound = errors.New("revision slot not found")

	// ErrTemplateNotFound is returned when a template lookup has no match in the catalog.
	ErrTemplateNotFound = errors.New("template not found")
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + " " + e.Message
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
