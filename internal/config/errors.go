package config

import (
	"errors"
	"fmt"

	"github.com/johnqtcg/issueseed/internal/parser"
)

var (
	// ErrRequired marks a required setting that is blank.
	ErrRequired = errors.New("is required")
	// ErrPlaceholder marks a setting still holding a sample value.
	ErrPlaceholder = errors.New("still set to the sample placeholder")
)

// ValidationError indicates one option value is invalid.
type ValidationError struct {
	Field   string
	Message string
	// Err is the sentinel cause, if any.
	Err error
}

// Error returns a user-facing validation error message.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ConflictError indicates two options cannot be used together.
type ConflictError struct {
	Left  string
	Right string
}

// Error returns a user-facing conflict error message.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("options %s and %s cannot be used together", e.Left, e.Right)
}

// NewValidationError constructs a validation error.
func NewValidationError(field, message string) error {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

func newRequiredError(field string) error {
	return &ValidationError{Field: field, Message: ErrRequired.Error(), Err: ErrRequired}
}

func newPlaceholderError(field, placeholder string) error {
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("%s %q", ErrPlaceholder.Error(), placeholder),
		Err:     ErrPlaceholder,
	}
}

// NewConflictError constructs an option conflict error.
func NewConflictError(left, right string) error {
	return &ConflictError{
		Left:  left,
		Right: right,
	}
}

// IsInvalid reports whether err stems from invalid options or settings.
func IsInvalid(err error) bool {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return true
	}
	var cErr *ConflictError
	if errors.As(err, &cErr) {
		return true
	}
	return errors.Is(err, parser.ErrInvalidRepository)
}

// WrapError adds config operation context while preserving the original error.
func WrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("config %s: %w", op, err)
}
