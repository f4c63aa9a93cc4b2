package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors for quick checks
var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned when authentication fails or is missing.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the caller lacks permission for an action.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput is returned when request input is invalid.
	ErrInvalidInput = errors.New("invalid input")
)

// Error is the base interface for all custom errors in the system.
type Error interface {
	error
	Code() string
	Message() string
	Unwrap() error
}

// BaseError provides a foundation for all typed errors.
type BaseError struct {
	code    string
	message string
	cause   error
}

// Error implements the error interface.
func (e *BaseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Code returns the error code.
func (e *BaseError) Code() string { return e.code }

// Message returns the error message.
func (e *BaseError) Message() string { return e.message }

// Unwrap returns the underlying cause.
func (e *BaseError) Unwrap() error { return e.cause }

// ValidationError represents an input validation error. Reason is a short
// machine-readable token (see Reason* constants).
type ValidationError struct {
	*BaseError
	Field  string
	Reason string
}

// NewValidationError creates a new validation error.
func NewValidationError(field, reason, message string) *ValidationError {
	return &ValidationError{
		BaseError: &BaseError{code: CodeValidation, message: message},
		Field:     field,
		Reason:    reason,
	}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.message)
	}
	return fmt.Sprintf("validation error: %s", e.message)
}

// NotFoundError represents a resource not found error.
type NotFoundError struct {
	*BaseError
	Resource string
	ID       string
}

// NewNotFoundError creates a new not found error.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{
		BaseError: &BaseError{code: CodeNotFound, message: fmt.Sprintf("%s not found", resource)},
		Resource:  resource,
		ID:        id,
	}
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s with ID '%s' not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is lets errors.Is(err, ErrNotFound) match typed not-found errors.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// UnauthorizedError represents an authentication error.
type UnauthorizedError struct {
	*BaseError
}

// NewUnauthorizedError creates a new unauthorized error.
func NewUnauthorizedError(message string) *UnauthorizedError {
	if message == "" {
		message = "authentication required"
	}
	return &UnauthorizedError{
		BaseError: &BaseError{code: CodeUnauthorized, message: message},
	}
}

// Is lets errors.Is(err, ErrUnauthorized) match typed unauthorized errors.
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }

// ForbiddenError represents an authorization error.
type ForbiddenError struct {
	*BaseError
	Resource string
	Action   string
}

// NewForbiddenError creates a new forbidden error.
func NewForbiddenError(resource, action string) *ForbiddenError {
	message := "forbidden"
	if resource != "" && action != "" {
		message = fmt.Sprintf("forbidden: cannot %s %s", action, resource)
	}
	return &ForbiddenError{
		BaseError: &BaseError{code: CodeForbidden, message: message},
		Resource:  resource,
		Action:    action,
	}
}

// Is lets errors.Is(err, ErrForbidden) match typed forbidden errors.
func (e *ForbiddenError) Is(target error) bool { return target == ErrForbidden }

// InternalError represents an internal server error.
type InternalError struct {
	*BaseError
	Operation string
}

// NewInternalError creates a new internal error.
func NewInternalError(message string, cause error) *InternalError {
	if message == "" {
		message = "internal error"
	}
	return &InternalError{
		BaseError: &BaseError{code: CodeInternal, message: message, cause: cause},
	}
}

// NewDatabaseError wraps a store failure. The message shown to clients stays
// generic; the cause is kept for logging.
func NewDatabaseError(op string, cause error) *InternalError {
	return &InternalError{
		BaseError: &BaseError{code: CodeDatabaseError, message: "database error", cause: cause},
		Operation: op,
	}
}

// NewStorageError wraps an object storage failure.
func NewStorageError(op string, cause error) *InternalError {
	return &InternalError{
		BaseError: &BaseError{code: CodeStorageError, message: "storage error", cause: cause},
		Operation: op,
	}
}

// Wrap wraps an error with additional context.
// If the error is already one of our custom types the code is preserved,
// otherwise it becomes an InternalError.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var e Error
	if errors.As(err, &e) {
		return &BaseError{code: e.Code(), message: message, cause: err}
	}
	return NewInternalError(message, err)
}
