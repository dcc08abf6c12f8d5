package models

import "errors"

// ErrValidation matches every *ValidationError through errors.Is
var ErrValidation = errors.New("validation failed")

// ValidationError reports invalid input detected before any expansion or network work
type ValidationError struct {
	Field   string // Offending field, e.g. "end_date" or "slots[1]"
	Message string // Human-readable reason
}

// NewValidationError creates a ValidationError for field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Is lets errors.Is(err, ErrValidation) match any ValidationError
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// IsValidationError reports whether err is or wraps a ValidationError
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
