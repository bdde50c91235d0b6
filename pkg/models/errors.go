package models

import (
	"errors"
	"fmt"
)

// ErrDraftDiscarded is returned when a discarded draft is applied.
var ErrDraftDiscarded = errors.New("draft already discarded")

// ErrDraftEmpty is returned when a draft with no items is applied.
var ErrDraftEmpty = errors.New("draft has no items")

// ValidationError reports a malformed field, identified by its path
// (e.g. "items[2].amount"). The request is rejected and no state changes.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidationError creates a field-scoped validation error.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// CapacityError reports an item or row count over the configured maximum.
// It is raised before any write is attempted.
type CapacityError struct {
	Count int
	Max   int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("too many items: %d exceeds maximum of %d", e.Count, e.Max)
}
