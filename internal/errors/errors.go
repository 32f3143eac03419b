package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeInvalidAssertion indicates identity-provider verification failed.
	ErrCodeInvalidAssertion ErrorCode = "invalid_assertion"
	// ErrCodeUnauthorized indicates a missing, invalid, or expired session credential.
	ErrCodeUnauthorized ErrorCode = "unauthorized"
	// ErrCodeForbidden indicates an authenticated caller without sufficient privilege.
	ErrCodeForbidden ErrorCode = "forbidden"
	// ErrCodeValidation indicates invalid input data.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeAlreadyMember indicates the caller already belongs to the classroom.
	ErrCodeAlreadyMember ErrorCode = "already_member"
	// ErrCodeCodeSpaceExhausted indicates join-code generation ran out of retries.
	ErrCodeCodeSpaceExhausted ErrorCode = "code_space_exhausted"
	// ErrCodeInternal indicates an internal server error, including store failures.
	ErrCodeInternal ErrorCode = "internal"
)

// AppError represents a structured application error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
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

// InvalidAssertion creates a new InvalidAssertion error.
func InvalidAssertion(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidAssertion, Message: message}
}

// Unauthorized creates a new Unauthorized error.
func Unauthorized(message string) *AppError {
	return &AppError{Code: ErrCodeUnauthorized, Message: message}
}

// Forbidden creates a new Forbidden error.
func Forbidden(message string) *AppError {
	return &AppError{Code: ErrCodeForbidden, Message: message}
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message}
}

// ValidationField creates a new Validation error for a specific field.
func ValidationField(field, message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message, Field: field}
}

// AlreadyMember creates a new AlreadyMember error.
func AlreadyMember(message string) *AppError {
	return &AppError{Code: ErrCodeAlreadyMember, Message: message}
}

// CodeSpaceExhausted creates a new CodeSpaceExhausted error.
func CodeSpaceExhausted(message string) *AppError {
	return &AppError{Code: ErrCodeCodeSpaceExhausted, Message: message}
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: message}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsInvalidAssertion checks if an error is an InvalidAssertion error.
func IsInvalidAssertion(err error) bool {
	return isCode(err, ErrCodeInvalidAssertion)
}

// IsUnauthorized checks if an error is an Unauthorized error.
func IsUnauthorized(err error) bool {
	return isCode(err, ErrCodeUnauthorized)
}

// IsForbidden checks if an error is a Forbidden error.
func IsForbidden(err error) bool {
	return isCode(err, ErrCodeForbidden)
}

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool {
	return isCode(err, ErrCodeValidation)
}

// IsAlreadyMember checks if an error is an AlreadyMember error.
func IsAlreadyMember(err error) bool {
	return isCode(err, ErrCodeAlreadyMember)
}

// IsCodeSpaceExhausted checks if an error is a CodeSpaceExhausted error.
func IsCodeSpaceExhausted(err error) bool {
	return isCode(err, ErrCodeCodeSpaceExhausted)
}

// IsInternal checks if an error is an Internal error.
func IsInternal(err error) bool {
	return isCode(err, ErrCodeInternal)
}

// GetField returns the Field from an error, or empty string if not an AppError or no field set.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}
