package errors

import (
	"fmt"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Configuration creates an AppError for invalid or missing construction arguments.
func Configuration(message string) *AppError {
	return &AppError{Code: ErrCodeConfiguration, Message: message}
}

// Configurationf is Configuration with a format string.
func Configurationf(format string, args ...any) *AppError {
	return Configuration(fmt.Sprintf(format, args...))
}

// TranscriptionFailed creates an AppError for a remote job that ended in error.
// The server-provided reason is kept verbatim in the message.
func TranscriptionFailed(reason string) *AppError {
	return &AppError{
		Code:    ErrCodeTranscriptionFailed,
		Message: "transcription failed: " + reason,
		Details: map[string]any{"reason": reason},
	}
}

// Timeout creates an AppError for an operation that exceeded its deadline.
func Timeout(operation string, after fmt.Stringer) *AppError {
	return &AppError{
		Code:    ErrCodeTimeout,
		Message: fmt.Sprintf("%s timed out after %s", operation, after),
		Details: map[string]any{"operation": operation, "after": after.String()},
	}
}
