// Package transcription defines the provider interface and common types
// for interacting with speech-to-text backends.
//
// It follows the provider pattern with a pluggable registry for
// runtime-selectable backends.
//
// # Backends
//
//   - soniox: Soniox asynchronous speech-to-text REST API
//
// # Usage
//
//	mgr := transcription.NewManager()
//	mgr.Register(soniox.ProviderName, soniox.Factory())
//	_ = mgr.InitializeWithContext(ctx, soniox.ProviderName, map[string]any{"api_key": key})
//	p, _ := mgr.Get(ctx)
//	resp, err := p.Transcribe(ctx, transcription.Request{AudioPath: "call.mp3"})
package transcription
