package errors

import (
	stderrors "errors"
	"fmt"
)

// APIError is the standardized error shape the feed engine surfaces to its
// callers. Transient store failures use ErrServiceUnavail so callers can
// distinguish "retry later" from hard failures.
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
	Status  int       `json:"-"`

	cause error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As chains
func (e *APIError) Unwrap() error {
	return e.cause
}

// NotFound creates a NOT_FOUND error
func NotFound(resource string) *APIError {
	return &APIError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Status:  ErrNotFound.StatusCode(),
	}
}

// ValidationError creates a VALIDATION_ERROR for a specific field
func ValidationError(field, message string) *APIError {
	return &APIError{
		Code:    ErrValidation,
		Message: message,
		Field:   field,
		Status:  ErrValidation.StatusCode(),
	}
}

// BadRequest creates a BAD_REQUEST error
func BadRequest(message string) *APIError {
	return &APIError{
		Code:    ErrBadRequest,
		Message: message,
		Status:  ErrBadRequest.StatusCode(),
	}
}

// InternalError creates an INTERNAL_ERROR
func InternalError(message string) *APIError {
	return &APIError{
		Code:    ErrInternalError,
		Message: message,
		Status:  ErrInternalError.StatusCode(),
	}
}

// TransientStore wraps a persistence-layer failure that callers may retry
func TransientStore(op string, cause error) *APIError {
	return &APIError{
		Code:    ErrServiceUnavail,
		Message: fmt.Sprintf("store unavailable during %s", op),
		Status:  ErrServiceUnavail.StatusCode(),
		cause:   cause,
	}
}

// IsNotFound reports whether err is a NOT_FOUND APIError
func IsNotFound(err error) bool {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr.Code == ErrNotFound
	}
	return false
}
