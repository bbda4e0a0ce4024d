// Package provider implements a small generic provider framework used to
// plug transcription backends and HTTP transports behind common interfaces.
//
// It provides a registry for managing multiple provider implementations with
// factory-based instantiation, availability checking, and runtime selection.
//
// Interaction patterns:
//   - RequestResponse[I, O]: one input → one output (HTTP calls, transcription jobs)
//   - Iterator[T]: pull-based access to a sequence produced in the background
//
// Opt-in lifecycle:
//   - Initializable: providers that need setup (verify credentials, warm clients)
//   - Closeable: providers that hold resources (idle HTTP connections)
//
// # Middleware
//
// Middleware[I, O] is a function that wraps a RequestResponse provider.
// Use Chain to compose multiple middlewares:
//
//	wrapped := provider.Chain(
//	    provider.WithLogging[In, Out](log),
//	    provider.WithMetrics[In, Out](metrics),
//	    provider.WithTracing[In, Out]("soniox"),
//	)(rawProvider)
//
// # Usage
//
//	reg := provider.NewRegistry[MyProvider]()
//	reg.RegisterFactory("default", myFactory)
//	mgr := provider.NewManager(reg, &provider.HealthCheckSelector[MyProvider]{})
//	mgr.InitializeWithContext(ctx, "default", cfg)
//	p, _ := mgr.Get(ctx)
package provider
