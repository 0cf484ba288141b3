package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation            = errors.New("validation failed")
	ErrNotFound              = errors.New("not found")
	ErrAlreadyExists         = errors.New("already exists")
	ErrCurrencyMismatch      = errors.New("currency mismatch")
	ErrCreatedDateAlreadySet = errors.New("created date already set")
	ErrUnitOfWorkActive      = errors.New("unit of work already active")
	ErrUnitOfWorkNotActive   = errors.New("unit of work not active")
)

// ValidationError reports a value that violates an invariant at construction time.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// AlreadyExistsError is returned by repositories when a uniqueness constraint is violated.
type AlreadyExistsError struct {
	Entity string
	Field  string
	Value  string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s with %s %q already exists", e.Entity, e.Field, e.Value)
}

func (e *AlreadyExistsError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// NotFoundError is used by application services; repositories report absence with nil results.
func NotFoundError(entity, id string) error {
	return fmt.Errorf("%s %s: %w", entity, id, ErrNotFound)
}
