package apperror

import (
	"errors"
	"net/http"
)

// Reasons are stable, machine-readable failure kinds carried in error responses
const (
	ReasonInvalidInput       = "invalid_input"
	ReasonNotFound           = "not_found"
	ReasonUnauthorized       = "unauthorized"
	ReasonForbidden          = "forbidden"
	ReasonConflict           = "conflict"
	ReasonRenderingTimeout   = "rendering_timeout"
	ReasonRenderingFailure   = "rendering_failure"
	ReasonPersistenceFailure = "persistence_failure"
	ReasonInternal           = "internal_error"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Reason  string       `json:"reason"`
	Message string       `json:"message"`
	Detail  string       `json:"detail,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
	Err     error        `json:"-"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches sentinel errors by status code and reason so wrapped copies compare equal
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Reason == t.Reason && e.Message == t.Message
}

// Common errors
var (
	ErrNotFound           = &AppError{Code: http.StatusNotFound, Reason: ReasonNotFound, Message: "Resource not found"}
	ErrUnauthorized       = &AppError{Code: http.StatusUnauthorized, Reason: ReasonUnauthorized, Message: "Unauthorized"}
	ErrForbidden          = &AppError{Code: http.StatusForbidden, Reason: ReasonForbidden, Message: "Forbidden"}
	ErrBadRequest         = &AppError{Code: http.StatusBadRequest, Reason: ReasonInvalidInput, Message: "Bad request"}
	ErrInternalServer     = &AppError{Code: http.StatusInternalServerError, Reason: ReasonInternal, Message: "Internal server error"}
	ErrConflict           = &AppError{Code: http.StatusConflict, Reason: ReasonConflict, Message: "Resource already exists"}
	ErrInvalidCredentials = &AppError{Code: http.StatusUnauthorized, Reason: ReasonUnauthorized, Message: "Invalid email or password"}
	ErrTokenExpired       = &AppError{Code: http.StatusUnauthorized, Reason: ReasonUnauthorized, Message: "Token has expired"}
	ErrInvalidToken       = &AppError{Code: http.StatusUnauthorized, Reason: ReasonUnauthorized, Message: "Invalid token"}
)

// NewAppError creates a new application error
func NewAppError(code int, reason, message string) *AppError {
	return &AppError{
		Code:    code,
		Reason:  reason,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Reason:  ReasonInvalidInput,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewInvalidInputError reports a single rejected field
func NewInvalidInputError(field, message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Reason:  ReasonInvalidInput,
		Message: "Validation failed",
		Detail:  field + ": " + message,
		Errors:  []FieldError{{Field: field, Message: message}},
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Reason:  ReasonNotFound,
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Reason:  ReasonConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Reason:  ReasonInvalidInput,
		Message: message,
	}
}

// NewRenderingTimeout reports a renderer that did not settle or finish in time
func NewRenderingTimeout(err error) *AppError {
	return &AppError{
		Code:    http.StatusGatewayTimeout,
		Reason:  ReasonRenderingTimeout,
		Message: "Document rendering timed out",
		Detail:  detailOf(err),
		Err:     err,
	}
}

// NewRenderingFailure reports any other renderer failure
func NewRenderingFailure(err error) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Reason:  ReasonRenderingFailure,
		Message: "Failed to generate document",
		Detail:  detailOf(err),
		Err:     err,
	}
}

// NewPersistenceError wraps a storage error without altering its cause
func NewPersistenceError(operation string, err error) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Reason:  ReasonPersistenceFailure,
		Message: "Failed to " + operation,
		Detail:  detailOf(err),
		Err:     err,
	}
}

func detailOf(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// HasReason reports whether err carries the given reason
func HasReason(err error, reason string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Reason == reason
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Reason:  ReasonInternal,
		Message: "Internal server error",
		Detail:  err.Error(),
		Err:     err,
	}
}
