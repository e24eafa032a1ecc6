package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies service failures so callers can choose a response
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindNotFound
	KindTransactionCanceled
	KindUpstream
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindTransactionCanceled:
		return "transaction_canceled"
	case KindUpstream:
		return "upstream"
	default:
		return "internal"
	}
}

// ServiceError is returned by every service operation that fails.
// Message is safe to show to the caller; Err carries the detail for logs.
type ServiceError struct {
	Kind    ErrorKind
	Field   string
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewValidationError reports bad client input naming the offending field
func NewValidationError(field, message string) *ServiceError {
	return &ServiceError{Kind: KindValidation, Field: field, Message: message}
}

// NewNotFoundError reports a missing entity
func NewNotFoundError(message string, err error) *ServiceError {
	return &ServiceError{Kind: KindNotFound, Message: message, Err: err}
}

// NewUpstreamError reports a failure of a managed store or signing call
func NewUpstreamError(message string, err error) *ServiceError {
	return &ServiceError{Kind: KindUpstream, Message: message, Err: err}
}

// NewInternalError reports an unexpected failure with a generic message
func NewInternalError(err error) *ServiceError {
	return &ServiceError{Kind: KindInternal, Message: "Internal server error", Err: err}
}

// KindOf returns the kind of a service error, or KindInternal for anything else
func KindOf(err error) ErrorKind {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr.Kind
	}
	return KindInternal
}

// IsValidation checks if err is a client input error
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsNotFound checks if err reports a missing entity
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsTransactionCanceled checks if err reports a canceled store transaction
func IsTransactionCanceled(err error) bool { return KindOf(err) == KindTransactionCanceled }

// IsUpstream checks if err reports a managed store failure
func IsUpstream(err error) bool { return KindOf(err) == KindUpstream }

// PublicMessage returns the caller-facing message of err
func PublicMessage(err error) string {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) && serviceErr.Message != "" {
		return serviceErr.Message
	}
	return "Internal server error"
}
