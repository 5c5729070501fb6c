// Package common defines sentinel errors and typed errors shared by the store,
// the import/export reconciler and the CLI. Callers should use errors.Is and
// errors.As to match these values.
package common

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is reported when an operation requires an entity that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation is reported when input fails structural or required-field checks.
	ErrValidation = errors.New("validation error")

	// ErrStorage marks failures of the underlying persistence layer.
	ErrStorage = errors.New("storage error")

	// ErrReadOnly is reported on attempts to mutate built-in templates.
	ErrReadOnly = errors.New("read-only")
)

// NotFoundError names the entity kind and id that could not be resolved.
type NotFoundError struct {
	Entity string
	ID     any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %v", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFound returns a *NotFoundError for the given entity kind and id.
func NewNotFound(entity string, id any) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ValidationError carries every human-readable problem found in one pass.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	switch len(e.Messages) {
	case 0:
		return ErrValidation.Error()
	case 1:
		return "validation failed: " + e.Messages[0]
	default:
		return fmt.Sprintf("validation failed (%d errors): %s", len(e.Messages), strings.Join(e.Messages, "; "))
	}
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidation returns a *ValidationError holding msgs.
func NewValidation(msgs ...string) error {
	return &ValidationError{Messages: msgs}
}

type storageError struct {
	op  string
	err error
}

func (e *storageError) Error() string { return fmt.Sprintf("failed to %s: %v", e.op, e.err) }

func (e *storageError) Unwrap() []error { return []error{ErrStorage, e.err} }

// StorageError wraps a driver error so that both errors.Is(err, ErrStorage)
// and errors.Is(err, <driver error>) hold. A nil err yields nil.
func StorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &storageError{op: op, err: err}
}
