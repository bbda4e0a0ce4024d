// Package resilience retries failed operations with exponential backoff.
//
//	resp, err := resilience.Retry(ctx, resilience.DefaultRetryConfig(), func(ctx context.Context) (*http.Response, error) {
//	    return client.Do(req.WithContext(ctx))
//	})
//
// Retries stop when the context is done, when RetryIf rejects an error, or
// after MaxAttempts. Exhausted retries wrap both ErrMaxRetriesExceeded and
// the last error.
package resilience
