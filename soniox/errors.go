package soniox

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/kbukum/gokit-soniox/errors"
	"github.com/kbukum/gokit-soniox/httpclient"
)

// ValidationError is one entry of ErrorPayload.ValidationErrors.
type ValidationError struct {
	ErrorType string `json:"error_type"`
	Location  string `json:"location"`
	Message   string `json:"message"`
}

// ErrorPayload is the structured body of a non-2xx API response. Fields the
// server adds beyond the documented set are kept in Extra.
type ErrorPayload struct {
	StatusCode       int               `json:"status_code"`
	ErrorType        string            `json:"error_type"`
	Message          string            `json:"message"`
	ValidationErrors []ValidationError `json:"validation_errors,omitempty"`
	RequestID        string            `json:"request_id"`
	Extra            map[string]any    `json:"-"`
}

var payloadFields = []string{"status_code", "error_type", "message", "validation_errors", "request_id"}

// parseErrorPayload decodes body. It reports false unless body is a JSON
// object carrying a numeric status_code and string error_type, message and
// request_id.
func parseErrorPayload(body []byte) (*ErrorPayload, bool) {
	var all map[string]any
	if err := json.Unmarshal(body, &all); err != nil {
		return nil, false
	}
	if _, ok := all["status_code"].(float64); !ok {
		return nil, false
	}
	for _, k := range []string{"error_type", "message", "request_id"} {
		if _, ok := all[k].(string); !ok {
			return nil, false
		}
	}

	var p ErrorPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, false
	}
	for _, k := range payloadFields {
		delete(all, k)
	}
	if len(all) > 0 {
		p.Extra = all
	}
	return &p, true
}

// APIError is returned when the Soniox API answers with a non-2xx status.
type APIError struct {
	// Step is the request that failed: upload, create, poll or fetch.
	Step string
	// StatusCode is the HTTP status of the response.
	StatusCode int
	// RequestID is the server request id, when the body carried one.
	RequestID string
	// Payload is the parsed error body, or nil if it was not parseable.
	Payload *ErrorPayload
	// Message is the payload message, the raw body, or a generic message.
	Message string
	// Err is the underlying *httpclient.Error.
	Err error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := fmt.Sprintf("soniox: %s failed with status %d: %s", e.Step, e.StatusCode, e.Message)
	if e.RequestID != "" {
		msg += " (request_id " + e.RequestID + ")"
	}
	return msg
}

// Unwrap returns the underlying transport error.
func (e *APIError) Unwrap() error { return e.Err }

// newAPIError converts a failed call into an *APIError when the server
// answered with a non-2xx status. Errors without a response (connection
// refused, timeouts, cancellation) and 2xx bodies that failed to decode are
// returned wrapped with the step name.
func newAPIError(step string, err error) error {
	var httpErr *httpclient.Error
	if !stderrors.As(err, &httpErr) || httpErr.StatusCode == 0 {
		return err
	}
	if httpErr.StatusCode >= 200 && httpErr.StatusCode < 300 {
		return fmt.Errorf("soniox: %s: %w", step, err)
	}

	apiErr := &APIError{Step: step, StatusCode: httpErr.StatusCode, Err: err}
	if p, ok := parseErrorPayload(httpErr.Body); ok {
		apiErr.Payload = p
		apiErr.RequestID = p.RequestID
		apiErr.Message = p.Message
		return apiErr
	}
	if text := strings.TrimSpace(string(httpErr.Body)); text != "" {
		apiErr.Message = text
	} else {
		apiErr.Message = fmt.Sprintf("request failed with status %d", httpErr.StatusCode)
	}
	return apiErr
}

// AsAPIError returns the *APIError in err's chain, if any.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := stderrors.As(err, &apiErr)
	return apiErr, ok
}

// IsConfigurationError reports whether err is an invalid or missing
// construction argument.
func IsConfigurationError(err error) bool {
	return errors.HasCode(err, errors.ErrCodeConfiguration)
}

// IsTranscriptionFailed reports whether the job ended in the error status.
func IsTranscriptionFailed(err error) bool {
	return errors.HasCode(err, errors.ErrCodeTranscriptionFailed)
}

// IsTimeout reports whether polling gave up before the job finished.
func IsTimeout(err error) bool {
	return errors.HasCode(err, errors.ErrCodeTimeout)
}
