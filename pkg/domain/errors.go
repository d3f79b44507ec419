package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Concrete error types unwrap to one of these so callers can
// classify failures with errors.Is.
var (
	// ErrNotFound reports that an addressed record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation reports malformed or missing input.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidReference reports that input references a record that does not exist.
	ErrInvalidReference = errors.New("invalid reference")
	// ErrConflict reports a uniqueness violation.
	ErrConflict = errors.New("conflict")
)

// ValidationError describes a rejected input field.
type ValidationError struct {
	Entity EntityType
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s %s", e.Entity, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError is returned when the addressed record does not exist.
type NotFoundError struct {
	Entity EntityType
	ID     string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e NotFoundError) Unwrap() error { return ErrNotFound }

// ReferenceError is returned when a payload names parent or associated
// records that do not exist.
type ReferenceError struct {
	Entity EntityType
	Field  string
	IDs    []string
}

func (e ReferenceError) Error() string {
	return fmt.Sprintf("%s references unknown %s: %s", e.Field, e.Entity, strings.Join(e.IDs, ", "))
}

func (e ReferenceError) Unwrap() error { return ErrInvalidReference }

// ConstraintKind classifies a storage-level constraint violation.
type ConstraintKind string

const (
	ConstraintUnique     ConstraintKind = "unique"
	ConstraintForeignKey ConstraintKind = "foreign_key"
	ConstraintNotNull    ConstraintKind = "not_null"
)

// ConstraintError wraps a driver error raised by a violated constraint.
// Unique violations unwrap to ErrConflict, foreign key violations to
// ErrInvalidReference and not-null violations to ErrValidation.
type ConstraintError struct {
	Kind       ConstraintKind
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("%s constraint %s violated: %v", e.Kind, e.Constraint, e.Err)
	}
	return fmt.Sprintf("%s constraint violated: %v", e.Kind, e.Err)
}

func (e *ConstraintError) Unwrap() []error {
	var sentinel error
	switch e.Kind {
	case ConstraintUnique:
		sentinel = ErrConflict
	case ConstraintForeignKey:
		sentinel = ErrInvalidReference
	case ConstraintNotNull:
		sentinel = ErrValidation
	}
	if sentinel == nil {
		return []error{e.Err}
	}
	return []error{sentinel, e.Err}
}
