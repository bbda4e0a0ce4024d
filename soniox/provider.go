package soniox

import (
	"context"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/kbukum/gokit-soniox/errors"
	"github.com/kbukum/gokit-soniox/provider"
	"github.com/kbukum/gokit-soniox/transcription"
)

// ProviderName is the registered name of the Soniox transcription provider.
const ProviderName = "soniox"

// compile-time assertions
var (
	_ transcription.Provider                                                   = (*Provider)(nil)
	_ provider.RequestResponse[transcription.Request, *transcription.Response] = (*Provider)(nil)
	_ provider.HealthChecker                                                   = (*Provider)(nil)
	_ provider.Initializable                                                   = (*Provider)(nil)
)

// Provider implements transcription.Provider on top of the Soniox async API.
// Every Transcribe call runs a full upload, create, poll, fetch and cleanup
// sequence.
type Provider struct {
	cfg  Config
	opts []LoaderOption
}

// NewProvider creates a Soniox provider. opts are applied to every loader
// the provider builds, after cfg.
func NewProvider(cfg Config, opts ...LoaderOption) *Provider {
	cfg.ApplyDefaults()
	return &Provider{cfg: cfg, opts: opts}
}

// Factory returns a provider.Factory that decodes a generic config map
// into Config. Durations may be given as strings ("2s") or nanoseconds.
func Factory(opts ...LoaderOption) provider.Factory[transcription.Provider] {
	return func(m map[string]any) (transcription.Provider, error) {
		var cfg Config
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
			WeaklyTypedInput: true,
			Result:           &cfg,
		})
		if err != nil {
			return nil, err
		}
		if err := dec.Decode(m); err != nil {
			return nil, errors.Configuration("invalid soniox config").WithCause(err)
		}
		p := NewProvider(cfg, opts...)
		if err := p.cfg.Validate(); err != nil {
			return nil, err
		}
		return p, nil
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether an API key and base URL are configured.
// It does not contact the service.
func (p *Provider) IsAvailable(_ context.Context) bool {
	return p.apiKey() != "" && p.cfg.BaseURL != ""
}

// Init validates the configuration.
func (p *Provider) Init(_ context.Context) error {
	if err := p.cfg.Validate(); err != nil {
		return err
	}
	if p.apiKey() == "" {
		return errors.Configurationf("api key is required: set api_key or %s", APIKeyEnv)
	}
	return nil
}

// Health reports configuration health.
func (p *Provider) Health(ctx context.Context) provider.HealthStatus {
	details := map[string]any{"base_url": p.cfg.BaseURL, "model": p.cfg.Model}
	if !p.IsAvailable(ctx) {
		return provider.HealthStatus{
			Status:  provider.StatusUnavailable,
			Message: "api key or base url not configured",
			Details: details,
		}
	}
	return provider.HealthStatus{Status: provider.StatusHealthy, Message: "configured", Details: details}
}

// Execute implements provider.RequestResponse by delegating to Transcribe.
func (p *Provider) Execute(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	return p.Transcribe(ctx, req)
}

// Transcribe runs one transcription job for req.
func (p *Provider) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	topts := p.cfg.options()
	if req.Model != "" {
		topts.Model = req.Model
	}
	if req.Language != "" {
		topts.LanguageHints = []string{req.Language}
	}
	if req.Diarization {
		topts.EnableSpeakerDiarization = Bool(true)
	}

	opts := []LoaderOption{WithConfig(p.cfg), WithTranscriptionOptions(topts)}
	switch {
	case req.AudioURL != "":
		opts = append(opts, WithFileURL(req.AudioURL))
	case req.AudioPath != "":
		opts = append(opts, WithFilePath(req.AudioPath))
	default:
		opts = append(opts, WithFileData(req.AudioData))
	}
	opts = append(opts, p.opts...)

	l, err := NewLoader(opts...)
	if err != nil {
		return nil, err
	}
	res, err := l.s.execute(ctx, l.s.cooperativeWait)
	if err != nil {
		return nil, err
	}
	return toResponse(res, req.Language), nil
}

func (p *Provider) apiKey() string {
	if p.cfg.APIKey != "" {
		return p.cfg.APIKey
	}
	return os.Getenv(APIKeyEnv)
}

func toResponse(res *result, language string) *transcription.Response {
	resp := &transcription.Response{
		ID:       res.status.ID,
		Text:     res.transcript.Text,
		Segments: segments(res.transcript.Tokens),
		Language: language,
		Model:    res.status.Model,
	}
	if res.status.AudioDurationMs != nil {
		resp.Duration = float64(*res.status.AudioDurationMs) / 1000
	}
	if resp.Language == "" && len(resp.Segments) > 0 {
		resp.Language = resp.Segments[0].Language
	}
	return resp
}

// segments groups consecutive tokens sharing a speaker and language.
// Translated tokens are skipped so segments follow the spoken audio.
func segments(tokens []Token) []transcription.Segment {
	var (
		out  []transcription.Segment
		text strings.Builder
		cur  *transcription.Segment
	)
	flush := func() {
		if cur == nil {
			return
		}
		cur.Text = strings.TrimSpace(text.String())
		if cur.Text != "" {
			out = append(out, *cur)
		}
		cur = nil
		text.Reset()
	}

	for _, t := range tokens {
		if t.TranslationStatus == "translation" {
			continue
		}
		if cur != nil && (cur.Speaker != t.Speaker || cur.Language != t.Language) {
			flush()
		}
		if cur == nil {
			cur = &transcription.Segment{Speaker: t.Speaker, Language: t.Language}
			if t.StartMs != nil {
				cur.Start = float64(*t.StartMs) / 1000
			}
		}
		if t.EndMs != nil {
			cur.End = float64(*t.EndMs) / 1000
		}
		text.WriteString(t.Text)
	}
	flush()
	return out
}
