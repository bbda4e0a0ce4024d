package transcription

import "github.com/kbukum/gokit-soniox/provider"

// NewRegistry creates a new provider registry for transcription providers.
func NewRegistry() *provider.Registry[Provider] {
	return provider.NewRegistry[Provider]()
}

// NewManager creates a provider manager for transcription providers. It
// hands out the first registered provider that reports itself available.
func NewManager() *provider.Manager[Provider] {
	return provider.NewManager(NewRegistry(), &provider.HealthCheckSelector[Provider]{})
}
