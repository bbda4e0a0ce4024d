package provider

import "context"

// RequestResponse represents a provider that takes one input and returns one output.
// This covers: HTTP calls, unary RPCs, batch transcription jobs.
type RequestResponse[I, O any] interface {
	Provider
	Execute(ctx context.Context, input I) (O, error)
}

// Func adapts a plain function to RequestResponse.
type Func[I, O any] struct {
	// ProviderName is returned from Name.
	ProviderName string
	// Fn handles each Execute call.
	Fn func(ctx context.Context, input I) (O, error)
}

// Name returns the configured provider name.
func (f *Func[I, O]) Name() string { return f.ProviderName }

// IsAvailable reports whether a handler is set.
func (f *Func[I, O]) IsAvailable(_ context.Context) bool { return f.Fn != nil }

// Execute calls the wrapped function.
func (f *Func[I, O]) Execute(ctx context.Context, input I) (O, error) {
	return f.Fn(ctx, input)
}
