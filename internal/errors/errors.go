package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeConflict indicates a conflict with existing data (e.g., an entry already registered).
	ErrCodeConflict ErrorCode = "conflict"
	// ErrCodeValidation indicates invalid input data.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeForbidden indicates the actor is not allowed to perform the action.
	ErrCodeForbidden ErrorCode = "forbidden"
	// ErrCodeUnauthenticated indicates the identity exchange failed or no session exists.
	ErrCodeUnauthenticated ErrorCode = "unauthenticated"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "internal"
	// ErrCodeTimeout indicates a timeout occurred.
	ErrCodeTimeout ErrorCode = "timeout"
	// ErrCodeCanceled indicates the operation was canceled.
	ErrCodeCanceled ErrorCode = "canceled"
	// ErrCodeUnavailable indicates a remote dependency failed or is unreachable.
	ErrCodeUnavailable ErrorCode = "unavailable"
)

// AppError represents a structured application error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message, safe to show to end users
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Field is the specific field that caused the error (optional, for validation errors)
	Field string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NotFound creates a new NotFound error.
func NotFound(message string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: message}
}

// NotFoundf creates a new NotFound error with formatted message.
func NotFoundf(format string, args ...any) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict creates a new Conflict error.
func Conflict(message string) *AppError {
	return &AppError{Code: ErrCodeConflict, Message: message}
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message}
}

// ValidationField creates a new Validation error for a specific field.
func ValidationField(field, message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message, Field: field}
}

// Forbidden creates a new Forbidden error. The message is the denial reason.
func Forbidden(message string) *AppError {
	return &AppError{Code: ErrCodeForbidden, Message: message}
}

// Unauthenticated creates a new Unauthenticated error.
func Unauthenticated(message string) *AppError {
	return &AppError{Code: ErrCodeUnauthenticated, Message: message}
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: message}
}

// Unavailable creates a new Unavailable error.
func Unavailable(message string) *AppError {
	return &AppError{Code: ErrCodeUnavailable, Message: message}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool {
	return isCode(err, ErrCodeNotFound)
}

// IsConflict checks if an error is a Conflict error.
func IsConflict(err error) bool {
	return isCode(err, ErrCodeConflict)
}

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool {
	return isCode(err, ErrCodeValidation)
}

// IsForbidden checks if an error is a Forbidden error.
func IsForbidden(err error) bool {
	return isCode(err, ErrCodeForbidden)
}

// IsUnauthenticated checks if an error is an Unauthenticated error.
func IsUnauthenticated(err error) bool {
	return isCode(err, ErrCodeUnauthenticated)
}

// IsInternal checks if an error is an Internal error.
func IsInternal(err error) bool {
	return isCode(err, ErrCodeInternal)
}

// IsTimeout checks if an error is a Timeout error.
func IsTimeout(err error) bool {
	return isCode(err, ErrCodeTimeout)
}

// IsCanceled checks if an error is a Canceled error.
func IsCanceled(err error) bool {
	return isCode(err, ErrCodeCanceled)
}

// IsUnavailable checks if an error is an Unavailable error.
func IsUnavailable(err error) bool {
	return isCode(err, ErrCodeUnavailable)
}

// IsTransient reports whether the error is a timeout or remote outage that
// the user may retry by re-submitting.
func IsTransient(err error) bool {
	return IsTimeout(err) || IsUnavailable(err)
}

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field from an error, or empty string if not an AppError or no field set.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}

// UserMessage returns the message of the outermost AppError in the chain, or
// fallback when err carries none.
func UserMessage(err error, fallback string) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}
