package domain

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// Field-level failures are reported as *ValidationError, which wraps it.
	ErrValidation = errors.New("validation failed")

	// ErrResetCodeExpired is returned when a reset code is used after its expiry.
	// The user has already been moved back to ResetNone when this is returned.
	ErrResetCodeExpired = errors.New("reset code expired")

	// ErrResetCodeInvalid is returned when a reset code does not match.
	ErrResetCodeInvalid = errors.New("invalid reset code")

	// ErrResetNotVerified is returned when a password change is attempted
	// before the reset code was verified.
	ErrResetNotVerified = errors.New("reset code not verified")
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is(err, ErrValidation) match any field error.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a field-level validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func tooLong(s string, limit int) bool {
	return utf8.RuneCountInString(s) > limit
}
