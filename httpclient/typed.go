package httpclient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kbukum/gokit-soniox/provider"
)

// TypedResponse wraps a response with a decoded body of type T.
type TypedResponse[T any] struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers.
	Headers map[string]string
	// Data is the decoded response body.
	Data T
}

// DoJSON executes req through rr and decodes a 2xx JSON body into T.
// rr is usually a *Client, possibly wrapped in provider middleware.
// Non-2xx responses return the classified error unchanged. A 2xx body that
// is not valid JSON for T yields an ErrCodeDecode error.
func DoJSON[T any](rr provider.RequestResponse[Request, *Response], ctx context.Context, req Request) (*TypedResponse[T], error) {
	resp, err := rr.Execute(ctx, req)
	if err != nil {
		return nil, err
	}

	out := &TypedResponse[T]{StatusCode: resp.StatusCode, Headers: resp.Headers}
	if len(resp.Body) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(resp.Body, &out.Data); err != nil {
		return nil, &Error{
			StatusCode: resp.StatusCode,
			Code:       ErrCodeDecode,
			Message:    fmt.Sprintf("decode response: %v", err),
			Body:       resp.Body,
			Err:        err,
		}
	}
	return out, nil
}
