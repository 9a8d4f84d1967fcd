package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrSourceNotFound    = errors.New("source not found")
	ErrMissingField      = errors.New("missing field")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrNotFound          = errors.New("not found")
	ErrAlreadyExists     = errors.New("already exists")
	ErrValidation        = errors.New("validation error")
)

// MissingFieldError reports a field absent from an entry that already passed
// the headword filter. Upstream data is expected to be well-formed past that
// point, so callers treat it as fatal.
type MissingFieldError struct {
	Headword string
	Field    string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("entry %s: missing %s field", e.Headword, e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// NewMissingFieldError creates a MissingFieldError for a single field.
func NewMissingFieldError(headword, field string) *MissingFieldError {
	return &MissingFieldError{Headword: headword, Field: field}
}
