package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Client-side errors. Raised before any network call and never retried.
const (
	// ErrCodeConfiguration indicates invalid or missing construction arguments.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"
	// ErrCodeInvalidInput indicates a value failed validation.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Remote job outcomes.
const (
	// ErrCodeTranscriptionFailed indicates the remote job reached the error status.
	ErrCodeTranscriptionFailed ErrorCode = "TRANSCRIPTION_FAILED"
	// ErrCodeTimeout indicates a job did not finish before the deadline.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)
