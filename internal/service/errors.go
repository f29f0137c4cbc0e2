// Package service holds the business-rule layer: validation, cross-entity
// consistency checks and the therapy project lifecycle state machine.
// Repository errors pass through unchanged.
package service

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIllegalTransition is returned when a status change violates the
// lifecycle state machine, e.g. completing a project without an end date
// or reopening a completed one.
var ErrIllegalTransition = errors.New("illegal status transition")

// FieldError is a single violated rule on a named field.
type FieldError struct {
	Field   string
	Message string
}

func (f FieldError) String() string {
	return fmt.Sprintf("%s: %s", f.Field, f.Message)
}

// ValidationError aggregates every violated rule of one Add/Update call,
// so a caller sees all problems at once instead of the first.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.String())
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsIllegalTransition reports whether err is a state machine violation.
func IsIllegalTransition(err error) bool {
	return errors.Is(err, ErrIllegalTransition)
}
