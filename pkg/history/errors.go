package history

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a run ID does not exist.
	ErrNotFound = errors.New("run not found")

	// ErrDuplicateRun is returned when storing an ID that already exists.
	ErrDuplicateRun = errors.New("run already exists")

	// ErrClosed is returned by a closed storage.
	ErrClosed = errors.New("storage is closed")
)

// StorageError wraps a backend failure.
type StorageError struct {
	Backend   string
	Operation string
	Cause     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{
		Backend:   backend,
		Operation: operation,
		Cause:     cause,
	}
}
