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
	// NotFoundError indicates a referenced entity is absent
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates malformed or missing input, caught before any I/O
	ValidationError struct {
		Message string
	}

	// InvalidStateError indicates an operation that would corrupt structure:
	// a cyclic move, a delete on a non-empty container, or an operation on an
	// archived/deleted entity
	InvalidStateError struct {
		Message string
	}

	// PolicyViolationError indicates a file type or size rule rejection
	PolicyViolationError struct {
		Message string
	}

	// StorageError indicates a blob backend failure
	StorageError struct {
		Message string
	}

	// PermissionDeniedError indicates the actor does not own or administer the entity
	PermissionDeniedError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}
)

// Error implementations
func (e *NotFoundError) Error() string         { return e.Message }
func (e *ValidationError) Error() string       { return e.Message }
func (e *InvalidStateError) Error() string     { return e.Message }
func (e *PolicyViolationError) Error() string  { return e.Message }
func (e *StorageError) Error() string          { return e.Message }
func (e *PermissionDeniedError) Error() string { return e.Message }
func (e *UnauthorizedError) Error() string     { return e.Message }

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int         { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int       { return http.StatusBadRequest }
func (e *InvalidStateError) StatusCode() int     { return http.StatusConflict }
func (e *PolicyViolationError) StatusCode() int  { return http.StatusUnprocessableEntity }
func (e *StorageError) StatusCode() int          { return http.StatusBadGateway }
func (e *PermissionDeniedError) StatusCode() int { return http.StatusForbidden }
func (e *UnauthorizedError) StatusCode() int     { return http.StatusUnauthorized }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("already exists")
	ErrValidation      = errors.New("validation failed")
	ErrInvalidState    = errors.New("invalid state")
	ErrPolicyViolation = errors.New("policy violation")
	ErrStorage         = errors.New("storage failure")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthorized    = errors.New("unauthorized")
)

// Is mappings so typed errors match their sentinels with errors.Is()
func (e *NotFoundError) Is(target error) bool         { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool       { return target == ErrValidation }
func (e *InvalidStateError) Is(target error) bool     { return target == ErrInvalidState }
func (e *PolicyViolationError) Is(target error) bool  { return target == ErrPolicyViolation }
func (e *StorageError) Is(target error) bool          { return target == ErrStorage }
func (e *PermissionDeniedError) Is(target error) bool { return target == ErrForbidden }
func (e *UnauthorizedError) Is(target error) bool     { return target == ErrUnauthorized }

// ConflictError represents a resource conflict with details about the existing resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (document, folder, project)
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

// ReasonCode returns the stable machine-readable code for an error, used in
// per-item bulk results and problem responses.
func ReasonCode(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrValidation):
		return "validation_error"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, ErrPolicyViolation):
		return "policy_violation"
	case errors.Is(err, ErrStorage):
		return "storage_error"
	case errors.Is(err, ErrForbidden):
		return "permission_denied"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	default:
		return "internal_error"
	}
}
