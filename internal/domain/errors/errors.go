// Package errors defines the application's error catalog and the closed
// set of failure shapes produced by the API layer.
package errors

import (
	"fmt"
	"net/http"

	"gameplays/internal/errors"
)

// AppError defines the interface for application-specific errors.
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-facing error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface.
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error.
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface.
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message.
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code.
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code.
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-facing error message.
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information.
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information.
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	ErrNoSession = NewBaseError(
		http.StatusUnauthorized,
		"NO_SESSION",
		"You must be signed in to do that",
		"",
	)

	ErrInvalidPlayStatus = NewBaseError(
		http.StatusBadRequest,
		"INVALID_PLAY_STATUS",
		"Invalid play status",
		"",
	)

	ErrPlayIDNotFound = NewBaseError(
		http.StatusConflict,
		"PLAY_ID_NOT_FOUND",
		"Error getting playId",
		"",
	)

	ErrNavigationTarget = NewBaseError(
		http.StatusBadRequest,
		"NAVIGATION_TARGET_MISSING",
		"Error on navigate",
		"",
	)

	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Input validation failed",
		"",
	)

	ErrRouteNotFound = NewBaseError(
		http.StatusNotFound,
		"ROUTE_NOT_FOUND",
		"Page not found",
		"",
	)
)

// ErrorBody is the error payload shape the backend returns for non-2xx
// responses. Errors maps field names to field-specific validation messages.
type ErrorBody struct {
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// TransportError reports that the request never produced a usable HTTP
// response (network unreachable, timeout, connection reset).
type TransportError struct {
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

// Unwrap returns the underlying network error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError reports that a response arrived but its body could not be
// decoded as the expected JSON shape.
type DecodeError struct {
	Err error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error: %v", e.Err)
}

// Unwrap returns the underlying decoding error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// StatusError reports a non-2xx HTTP response together with its decoded
// error body. Callers inspect Code and Body instead of probing dynamic
// shapes at runtime.
type StatusError struct {
	Code int
	Body ErrorBody
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Body.Message != "" {
		return fmt.Sprintf("http %d: %s", e.Code, e.Body.Message)
	}

	return fmt.Sprintf("http %d", e.Code)
}

// HasMessage reports whether the server supplied a user-facing message.
// The reauth pipeline uses this to tell a bad-credential 401 (message
// present) from a silently expired session.
func (e *StatusError) HasMessage() bool {
	return e.Body.Message != ""
}

// IsUnauthorized reports whether err is a StatusError with a 401 code.
func IsUnauthorized(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code == http.StatusUnauthorized
	}

	return false
}

// UserMessage extracts the most specific user-facing message available from
// err, falling back to the supplied default. Server-supplied messages win
// over catalog messages, which win over the fallback.
func UserMessage(err error, fallback string) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Body.Message != "" {
		return statusErr.Body.Message
	}

	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.Message()
	}

	return fallback
}
