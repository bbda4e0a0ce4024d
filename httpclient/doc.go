// Package httpclient provides a configurable HTTP client with bearer
// authentication, JSON and streaming multipart bodies, status
// classification and optional connection-level retry.
//
// # Basic Usage
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://api.soniox.com/v1",
//	    Timeout: 60 * time.Second,
//	    Auth:    httpclient.BearerAuth(apiKey),
//	})
//	defer client.Close(ctx)
//
//	resp, err := httpclient.DoJSON[Transcription](client, ctx, httpclient.Request{
//	    Method: http.MethodGet,
//	    Path:   "/transcriptions/" + id,
//	})
//
// Non-2xx responses return both the Response and a classified *Error whose
// Body holds the raw payload. Requests that never got a response fail with
// an *Error of code timeout, connection or canceled.
//
// Client satisfies provider.RequestResponse[Request, *Response], so the
// provider middleware (logging, tracing, metrics) can wrap it.
package httpclient
