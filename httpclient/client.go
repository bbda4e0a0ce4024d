package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/kbukum/gokit-soniox/provider"
	"github.com/kbukum/gokit-soniox/resilience"
)

// compile-time assertions
var (
	_ provider.RequestResponse[Request, *Response] = (*Client)(nil)
	_ provider.Closeable                           = (*Client)(nil)
)

// Client is a configurable HTTP client with auth and optional retry.
// Each Client owns its transport; Close releases idle connections.
type Client struct {
	httpClient *http.Client
	transport  *http.Transport
	config     Config
}

// New creates a new HTTP client with the given configuration.
func New(cfg Config) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{config: cfg}
	if cfg.Transport != nil {
		c.httpClient = &http.Client{Transport: cfg.Transport}
		return c, nil
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: cfg.Timeout, KeepAlive: cfg.Timeout}).DialContext
	transport.TLSHandshakeTimeout = cfg.Timeout
	transport.ResponseHeaderTimeout = cfg.Timeout
	c.transport = transport
	c.httpClient = &http.Client{Transport: transport}
	return c, nil
}

// Do executes an HTTP request and returns the complete response.
// On a non-2xx status both the response and a classified *Error are returned.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if c.config.Retry == nil {
		return c.executeRequest(ctx, req)
	}

	var last *Response
	_, err := resilience.Retry(ctx, *c.config.Retry, func(ctx context.Context) (*Response, error) {
		resp, err := c.executeRequest(ctx, req)
		last = resp
		return resp, err
	})
	if err != nil {
		return last, err
	}
	return last, nil
}

// Name implements provider.Provider.
func (c *Client) Name() string { return c.config.Name }

// IsAvailable implements provider.Provider. A client is available once built.
func (c *Client) IsAvailable(_ context.Context) bool { return c.httpClient != nil }

// Execute implements provider.RequestResponse by delegating to Do.
func (c *Client) Execute(ctx context.Context, req Request) (*Response, error) {
	return c.Do(ctx, req)
}

// Close releases idle connections held by the client's transport.
func (c *Client) Close(_ context.Context) error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// Config returns a copy of the client configuration.
func (c *Client) Config() Config {
	return c.config
}

// executeRequest builds and sends the HTTP request. Each attempt is bounded
// by config.Timeout: buffered requests as a whole, streamed multipart
// uploads as an idle limit that restarts whenever body bytes move.
func (c *Client) executeRequest(ctx context.Context, req Request) (*Response, error) {
	attemptCtx, idle, stop := c.attemptContext(ctx, req)
	defer stop()

	httpReq, err := c.buildRequest(attemptCtx, req)
	if err != nil {
		return nil, err
	}
	if idle != nil && httpReq.Body != nil {
		httpReq.Body = &progressReader{ReadCloser: httpReq.Body, idle: idle}
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, c.transportError(ctx, attemptCtx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var respBody io.Reader = resp.Body
	if idle != nil {
		respBody = &progressReader{ReadCloser: resp.Body, idle: idle}
	}
	body, err := io.ReadAll(respBody)
	if err != nil {
		return nil, c.transportError(ctx, attemptCtx, fmt.Errorf("read response body: %w", err))
	}

	result := &Response{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Body:       body,
	}

	if classErr := ClassifyStatusCode(resp.StatusCode, body); classErr != nil {
		return result, classErr
	}
	return result, nil
}

// attemptContext derives the context of one attempt. For streamed bodies the
// returned idleTimer cancels it after config.Timeout without progress.
func (c *Client) attemptContext(ctx context.Context, req Request) (context.Context, *idleTimer, context.CancelFunc) {
	if _, streamed := req.Body.(*MultipartBody); !streamed {
		attemptCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
		return attemptCtx, nil, cancel
	}
	attemptCtx, cancel := context.WithCancel(ctx)
	idle := &idleTimer{d: c.config.Timeout, timer: time.AfterFunc(c.config.Timeout, cancel)}
	return attemptCtx, idle, func() {
		idle.timer.Stop()
		cancel()
	}
}

// transportError classifies err. A failure caused by the attempt limit
// rather than the caller's context is reported as a timeout.
func (c *Client) transportError(ctx, attemptCtx context.Context, err error) *Error {
	if ctx.Err() == nil && attemptCtx.Err() != nil {
		return NewTimeoutError(fmt.Errorf("request exceeded %s: %w", c.config.Timeout, err))
	}
	return classifyTransportError(ctx, err)
}

// idleTimer fires when no body bytes moved for d.
type idleTimer struct {
	d     time.Duration
	timer *time.Timer
}

func (t *idleTimer) touch() { t.timer.Reset(t.d) }

// progressReader restarts the idle timer on every successful read.
type progressReader struct {
	io.ReadCloser
	idle *idleTimer
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.ReadCloser.Read(p)
	if n > 0 {
		r.idle.touch()
	}
	return n, err
}

// buildRequest constructs an *http.Request from the client config and request.
func (c *Client) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	url := req.Path
	if !strings.HasPrefix(req.Path, "http://") && !strings.HasPrefix(req.Path, "https://") {
		if c.config.BaseURL == "" {
			return nil, NewRequestError("resolve url", fmt.Errorf("no base URL for relative path %q", req.Path))
		}
		url = strings.TrimRight(c.config.BaseURL, "/") + "/" + strings.TrimLeft(req.Path, "/")
	}

	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, NewRequestError("encode body", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, url, body)
	if err != nil {
		if body != nil {
			_ = body.Close()
		}
		return nil, NewRequestError("create request", err)
	}

	if len(req.Query) > 0 {
		q := httpReq.URL.Query()
		for k, v := range req.Query {
			q.Set(k, v)
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	httpReq.Header.Set("User-Agent", c.config.UserAgent)
	httpReq.Header.Set("Accept", "application/json")
	for k, v := range c.config.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if body != nil && httpReq.Header.Get("Content-Type") == "" && contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	// Request-level auth overrides client-level auth.
	auth := c.config.Auth
	if req.Auth != nil {
		auth = req.Auth
	}
	auth.apply(httpReq)

	return httpReq, nil
}

// encodeBody converts a body value into a reader and content type.
func encodeBody(body any) (io.ReadCloser, string, error) {
	if body == nil {
		return nil, "", nil
	}
	switch v := body.(type) {
	case *MultipartBody:
		return v.encode()
	case []byte:
		return io.NopCloser(bytes.NewReader(v)), "application/octet-stream", nil
	case string:
		return io.NopCloser(strings.NewReader(v)), "text/plain", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return io.NopCloser(bytes.NewReader(data)), "application/json", nil
	}
}

// flattenHeaders converts multi-value headers to single-value.
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}
