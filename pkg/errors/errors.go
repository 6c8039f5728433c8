// Package errors provides the application error taxonomy: typed, coded
// errors that map cleanly onto HTTP status codes at the API boundary.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeInternal represents internal server errors
	ErrorTypeInternal ErrorType = "internal"

	// ErrorTypeValidation represents input validation errors
	ErrorTypeValidation ErrorType = "validation"

	// ErrorTypeNotFound represents resource not found errors
	ErrorTypeNotFound ErrorType = "not_found"

	// ErrorTypeUnauthorized represents authentication errors
	ErrorTypeUnauthorized ErrorType = "unauthorized"

	// ErrorTypeForbidden represents authorization errors
	ErrorTypeForbidden ErrorType = "forbidden"

	// ErrorTypeConflict represents resource conflict errors
	ErrorTypeConflict ErrorType = "conflict"

	// ErrorTypeRateLimit represents rate limiting errors
	ErrorTypeRateLimit ErrorType = "rate_limit"

	// ErrorTypeExternal represents upstream service errors
	ErrorTypeExternal ErrorType = "external"
)

var statusByType = map[ErrorType]int{
	ErrorTypeInternal:     http.StatusInternalServerError,
	ErrorTypeValidation:   http.StatusBadRequest,
	ErrorTypeNotFound:     http.StatusNotFound,
	ErrorTypeUnauthorized: http.StatusUnauthorized,
	ErrorTypeForbidden:    http.StatusForbidden,
	ErrorTypeConflict:     http.StatusConflict,
	ErrorTypeRateLimit:    http.StatusTooManyRequests,
	ErrorTypeExternal:     http.StatusBadGateway,
}

// AppError represents an application error with additional context
type AppError struct {
	Type    ErrorType              `json:"type"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Err     error                  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements error comparison on type and code
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Type == t.Type
}

// StatusCode returns the HTTP status the error maps to
func (e *AppError) StatusCode() int {
	if status, ok := statusByType[e.Type]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// WithDetail adds a detail to the error
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError
func New(errType ErrorType, code, message string) *AppError {
	return &AppError{Type: errType, Code: code, Message: message}
}

// Wrap wraps an underlying error with type and code context
func Wrap(err error, errType ErrorType, code, message string) *AppError {
	return &AppError{Type: errType, Code: code, Message: message, Err: err}
}

// NewValidation creates a validation error
func NewValidation(code, message string) *AppError {
	return New(ErrorTypeValidation, code, message)
}

// NewNotFound creates a not found error
func NewNotFound(code, message string) *AppError {
	return New(ErrorTypeNotFound, code, message)
}

// NewForbidden creates a forbidden error
func NewForbidden(code, message string) *AppError {
	return New(ErrorTypeForbidden, code, message)
}

// NewInternal wraps an unexpected error
func NewInternal(err error) *AppError {
	return Wrap(err, ErrorTypeInternal, "INTERNAL_ERROR", "an internal error occurred")
}

// AsAppError extracts an AppError from an error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Common error instances
var (
	// ErrInvalidPeriod rejects look-back values outside the closed set
	ErrInvalidPeriod = NewValidation("PERIOD_INVALID", "period must be one of 1D, 1W, 1M, 3M, 6M, 1Y, YTD")

	// ErrWorkspaceNotFound is returned for unknown workspaces
	ErrWorkspaceNotFound = NewNotFound("WORKSPACE_NOT_FOUND", "workspace not found")

	// ErrMemberNotFound is returned for unknown workspace members
	ErrMemberNotFound = NewNotFound("MEMBER_NOT_FOUND", "member not found in workspace")

	// ErrNotAMember rejects requests from users outside the workspace
	ErrNotAMember = NewForbidden("NOT_A_MEMBER", "requester is not a member of this workspace")

	// ErrNotAnAdmin rejects policy changes from non-admin members
	ErrNotAnAdmin = NewForbidden("NOT_AN_ADMIN", "only workspace admins may change the privacy policy")
)
