package repositories

import (
	"errors"
	"fmt"
)

// Common repository errors
var (
	// ErrNotFound is returned when an entity is not found
	ErrNotFound = errors.New("entity not found")

	// ErrTransactionCanceled is returned when the store refuses a transaction as a whole
	ErrTransactionCanceled = errors.New("transaction canceled")

	// ErrValidation is returned when entity validation fails
	ErrValidation = errors.New("validation error")

	// ErrConnection is returned when the store cannot be reached
	ErrConnection = errors.New("store connection error")
)

// RepositoryError represents a repository-specific error with additional context
type RepositoryError struct {
	Op      string // Operation that failed
	Entity  string // Entity type
	ID      string // Entity ID (if applicable)
	Err     error  // Underlying error
	Message string // Human-readable message
}

// Error implements the error interface
func (e *RepositoryError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	if e.ID != "" {
		return fmt.Sprintf("%s %s operation failed for ID %s: %v", e.Entity, e.Op, e.ID, e.Err)
	}

	return fmt.Sprintf("%s %s operation failed: %v", e.Entity, e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// NewRepositoryError creates a new repository error
func NewRepositoryError(op, entity, id string, err error) *RepositoryError {
	return &RepositoryError{
		Op:     op,
		Entity: entity,
		ID:     id,
		Err:    err,
	}
}

// NotFoundError creates a "not found" repository error
func NotFoundError(entity, id string) *RepositoryError {
	return &RepositoryError{
		Op:      "get",
		Entity:  entity,
		ID:      id,
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s with ID %s not found", entity, id),
	}
}

// ValidationError creates a "validation" repository error
func ValidationError(entity, id string, err error) *RepositoryError {
	return &RepositoryError{
		Op:      "validate",
		Entity:  entity,
		ID:      id,
		Err:     fmt.Errorf("%w: %v", ErrValidation, err),
		Message: fmt.Sprintf("validation failed for %s: %v", entity, err),
	}
}

// TransactionCanceledError wraps a store-side cancellation of the product+stock write.
// The store's own message is kept so callers can surface it.
func TransactionCanceledError(id string, cause error) *RepositoryError {
	return &RepositoryError{
		Op:      "create",
		Entity:  "product",
		ID:      id,
		Err:     errors.Join(ErrTransactionCanceled, cause),
		Message: fmt.Sprintf("transaction canceled for product %s: %v", id, cause),
	}
}

// ConnectionError creates a "connection" repository error
func ConnectionError(err error) *RepositoryError {
	return &RepositoryError{
		Op:      "connect",
		Entity:  "store",
		Err:     errors.Join(ErrConnection, err),
		Message: fmt.Sprintf("store connection failed: %v", err),
	}
}

// IsNotFound checks if an error is a "not found" error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsTransactionCanceled checks if an error is a transaction cancellation
func IsTransactionCanceled(err error) bool {
	return errors.Is(err, ErrTransactionCanceled)
}

// IsValidation checks if an error is a "validation" error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsConnection checks if an error is a "connection" error
func IsConnection(err error) bool {
	return errors.Is(err, ErrConnection)
}
