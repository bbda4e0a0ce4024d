package soniox

import (
	"time"

	"github.com/kbukum/gokit-soniox/errors"
	"github.com/kbukum/gokit-soniox/validation"
)

const (
	// DefaultBaseURL is the Soniox REST API root.
	DefaultBaseURL = "https://api.soniox.com/v1"
	// DefaultModel is the asynchronous transcription model used when none is set.
	DefaultModel = "stt-async-v4"
	// DefaultPollingInterval is the delay between status polls.
	DefaultPollingInterval = time.Second
	// DefaultTimeout bounds the time spent polling for a result.
	DefaultTimeout = 5 * time.Minute
	// DefaultRequestTimeout bounds a single HTTP request, or the idle time of
	// a streamed upload.
	DefaultRequestTimeout = 60 * time.Second

	// APIKeyEnv is consulted when no API key is configured.
	APIKeyEnv = "SONIOX_API_KEY"
)

// Config holds the settings shared by the loader and the transcription
// provider. It is usually loaded with config.LoadConfig under a "soniox" key.
type Config struct {
	APIKey          string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL         string        `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`
	PollingInterval time.Duration `yaml:"polling_interval" mapstructure:"polling_interval" validate:"gt=0"`
	Timeout         time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`
	RequestTimeout  time.Duration `yaml:"request_timeout" mapstructure:"request_timeout" validate:"gt=0"`
	// MaxRetries is the number of extra attempts for requests that never got
	// a response. Zero disables retry.
	MaxRetries int `yaml:"max_retries" mapstructure:"max_retries" validate:"gte=0"`

	Model                        string   `yaml:"model" mapstructure:"model"`
	LanguageHints                []string `yaml:"language_hints" mapstructure:"language_hints"`
	EnableSpeakerDiarization     bool     `yaml:"enable_speaker_diarization" mapstructure:"enable_speaker_diarization"`
	EnableLanguageIdentification bool     `yaml:"enable_language_identification" mapstructure:"enable_language_identification"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.PollingInterval <= 0 {
		c.PollingInterval = DefaultPollingInterval
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
}

// Validate checks field formats. A missing API key is not an error here
// because the environment may still supply one.
func (c *Config) Validate() error {
	return validation.ValidateAs(c, errors.ErrCodeConfiguration)
}

// options converts the job-level settings to TranscriptionOptions.
func (c *Config) options() TranscriptionOptions {
	opts := TranscriptionOptions{Model: c.Model, LanguageHints: c.LanguageHints}
	if c.EnableSpeakerDiarization {
		opts.EnableSpeakerDiarization = Bool(true)
	}
	if c.EnableLanguageIdentification {
		opts.EnableLanguageIdentification = Bool(true)
	}
	return opts
}
