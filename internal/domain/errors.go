package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound matches any NotFoundError via errors.Is.
	ErrNotFound = errors.New("not found")
	// ErrConflict matches any ConflictError via errors.Is.
	ErrConflict = errors.New("conflict")
	// ErrValidation matches any ValidationError via errors.Is.
	ErrValidation = errors.New("validation failed")
)

// NotFoundError reports that an entity of the given kind is absent.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Entity + " not found"
	}
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ConflictError reports a uniqueness violation, e.g. a taken username.
type ConflictError struct {
	Entity string
	Field  string
	Value  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with %s %q already exists", e.Entity, e.Field, e.Value)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// ValidationError reports a malformed input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// Entity names used in NotFoundError.
const (
	EntityUser     = "user"
	EntityMission  = "mission"
	EntityQuestion = "question"
	EntityProgress = "progress"
)
