package storage

import (
	"errors"
	"fmt"
)

// Common storage error types
var (
	ErrFileNotFound       = errors.New("file not found")
	ErrInvalidKey         = errors.New("invalid storage key")
	ErrStorageUnavailable = errors.New("storage service unavailable")
	ErrPermissionDenied   = errors.New("permission denied")
)

// StorageError represents a storage operation error with additional context
type StorageError struct {
	Op  string // Operation that failed (e.g., "Open", "Copy")
	Key string // Storage key involved in the operation
	Err error  // Underlying error
}

func (e *StorageError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("storage %s operation failed for key '%s': %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("storage %s operation failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError creates a new StorageError
func NewStorageError(op, key string, err error) *StorageError {
	return &StorageError{
		Op:  op,
		Key: key,
		Err: err,
	}
}

// IsNotFound returns true if the error indicates an object was not found
func IsNotFound(err error) bool {
	return errors.Is(err, ErrFileNotFound)
}

// IsPermissionDenied returns true if the store refused access
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}
