// Package apperr defines the error taxonomy shared by services and handlers:
// validation failures carry the first offending field, absent entities are a
// sentinel, and anything else is treated as internal.
package apperr

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a referenced entity that does not exist. Single-entity
// reads translate it to an absent value; mutations surface it as 404.
var ErrNotFound = errors.New("not found")

// ValidationError reports the first failing field of an invalid input.
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

// NewValidation builds a field-level validation error.
func NewValidation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// AsValidation unwraps err into a ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
