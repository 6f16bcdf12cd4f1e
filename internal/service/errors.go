package service

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the services. Callers check them with
// errors.Is; the API layer maps them to HTTP status codes.
var (
	// ErrInvalidCredentials is returned by Login for an unknown email or a
	// wrong password alike.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrForbidden indicates the caller is authenticated but lacks the
	// staff flag required for the operation.
	ErrForbidden = errors.New("operation requires staff privileges")

	// ErrCategoryCycle is returned when a parent assignment would make a
	// category its own ancestor.
	ErrCategoryCycle = errors.New("category cannot be its own ancestor")

	// ErrParentNotFound is returned when the requested parent category does
	// not exist.
	ErrParentNotFound = errors.New("parent category not found")

	// ErrAmbiguousParent is returned when both parent_id and parent_name
	// are given and refer to different categories.
	ErrAmbiguousParent = errors.New("parent_id and parent_name refer to different categories")
)

// ServiceError records which service operation failed. It unwraps to the
// underlying error so sentinel checks keep working.
type ServiceError struct {
	Service string
	Op      string
	Err     error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s service %s operation failed", e.Service, e.Op)
	}
	return fmt.Sprintf("%s service %s operation failed: %v", e.Service, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a ServiceError.
func NewServiceError(service, op string, err error) *ServiceError {
	return &ServiceError{Service: service, Op: op, Err: err}
}
