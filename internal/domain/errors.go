package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface enables extensible error handling.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found. Malformed virtual
	// identifiers and entities removed from the directory surface as this.
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}

	// ForbiddenError indicates the principal's organizational scope
	// excludes the target
	ForbiddenError struct {
		Message string
	}

	// InvalidOperationError indicates a mutation attempted on a virtual
	// node. This is a routine caller action (a user right-clicking an
	// organizational entry), so the message must name the node.
	InvalidOperationError struct {
		Message string
	}
)

// Error implementations
func (e *NotFoundError) Error() string         { return e.Message }
func (e *ValidationError) Error() string       { return e.Message }
func (e *UnauthorizedError) Error() string     { return e.Message }
func (e *ForbiddenError) Error() string        { return e.Message }
func (e *InvalidOperationError) Error() string { return e.Message }

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int         { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int       { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int     { return http.StatusUnauthorized }
func (e *ForbiddenError) StatusCode() int        { return http.StatusForbidden }
func (e *InvalidOperationError) StatusCode() int { return http.StatusUnprocessableEntity }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("already exists")
	ErrValidation       = errors.New("validation failed")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidOperation = errors.New("invalid operation")
)

// Is allows errors.Is() to match typed errors against their sentinels.
func (e *NotFoundError) Is(target error) bool         { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool       { return target == ErrValidation }
func (e *UnauthorizedError) Is(target error) bool     { return target == ErrUnauthorized }
func (e *ForbiddenError) Is(target error) bool        { return target == ErrForbidden }
func (e *InvalidOperationError) Is(target error) bool { return target == ErrInvalidOperation }

// ConflictError represents a resource conflict with details about the existing resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (holding, company, department, folder)
	ResourceID   string // ID of the existing/conflicting resource
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return e.Message
}

// StatusCode implements the HTTPError interface
func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
