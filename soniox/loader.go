package soniox

import (
	"context"
	"iter"
	"net/http"
	"os"
	"time"

	"github.com/kbukum/gokit-soniox/document"
	"github.com/kbukum/gokit-soniox/errors"
	"github.com/kbukum/gokit-soniox/httpclient"
	"github.com/kbukum/gokit-soniox/logger"
	"github.com/kbukum/gokit-soniox/observability"
	"github.com/kbukum/gokit-soniox/provider"
	"github.com/kbukum/gokit-soniox/validation"
)

var _ document.Loader = (*Loader)(nil)

// Loader turns one audio source into a single document holding its
// transcript. A Loader may be used for any number of loads; every load
// creates, waits for and deletes its own remote job.
type Loader struct {
	s settings
}

// LoaderOption configures a Loader.
type LoaderOption func(*loaderOptions)

type loaderOptions struct {
	settings
	hasPath bool
	hasData bool
	hasURL  bool
	apiKey  *string
	baseURL *string
	retries int
}

// WithFilePath transcribes the audio file at path. The file is streamed
// from disk when the load runs.
func WithFilePath(path string) LoaderOption {
	return func(o *loaderOptions) {
		o.hasPath = true
		o.source.path = path
	}
}

// WithFileData transcribes in-memory audio.
func WithFileData(data []byte) LoaderOption {
	return func(o *loaderOptions) {
		o.hasData = true
		o.source.data = data
	}
}

// WithFileURL transcribes audio the Soniox service fetches from url.
func WithFileURL(url string) LoaderOption {
	return func(o *loaderOptions) {
		o.hasURL = true
		o.source.url = url
	}
}

// WithAPIKey sets the API key. Without it SONIOX_API_KEY is used.
func WithAPIKey(key string) LoaderOption {
	return func(o *loaderOptions) { o.apiKey = &key }
}

// WithBaseURL overrides the API root.
func WithBaseURL(url string) LoaderOption {
	return func(o *loaderOptions) { o.baseURL = &url }
}

// WithTranscriptionOptions sets the job options. An empty model is
// replaced with DefaultModel.
func WithTranscriptionOptions(opts TranscriptionOptions) LoaderOption {
	return func(o *loaderOptions) { o.options = opts }
}

// WithPollingInterval sets the delay between status polls.
func WithPollingInterval(d time.Duration) LoaderOption {
	return func(o *loaderOptions) { o.pollingInterval = d }
}

// WithTimeout bounds the time spent polling.
func WithTimeout(d time.Duration) LoaderOption {
	return func(o *loaderOptions) { o.timeout = d }
}

// WithRequestTimeout bounds every HTTP request. Uploads use it as an idle
// limit, so a large file may take longer as long as bytes keep moving.
func WithRequestTimeout(d time.Duration) LoaderOption {
	return func(o *loaderOptions) { o.requestTimeout = d }
}

// WithLogger sets the logger. The component field is added by the loader.
// Without it the loader uses logger.Get("soniox").
func WithLogger(l *logger.Logger) LoaderOption {
	return func(o *loaderOptions) { o.log = l }
}

// WithClock replaces the time source, mainly for tests.
func WithClock(c Clock) LoaderOption {
	return func(o *loaderOptions) { o.clock = c }
}

// WithHTTPRetry retries requests that never got a response up to
// retries extra times. Error statuses are never retried.
func WithHTTPRetry(retries int) LoaderOption {
	return func(o *loaderOptions) { o.retries = retries }
}

// WithTransport sets the HTTP transport used for every request.
func WithTransport(rt http.RoundTripper) LoaderOption {
	return func(o *loaderOptions) { o.transport = rt }
}

// WithMetrics records one measurement per load on m.
func WithMetrics(m *observability.TranscriptionMetrics) LoaderOption {
	return func(o *loaderOptions) { o.metrics = m }
}

// WithRequestMetrics records a count and a duration for every API call
// that goes through the middleware chain.
func WithRequestMetrics(m *observability.Metrics) LoaderOption {
	return func(o *loaderOptions) { o.requestMetrics = m }
}

// WithConfig applies cfg. Options given after it override its values.
func WithConfig(cfg Config) LoaderOption {
	return func(o *loaderOptions) {
		if cfg.APIKey != "" {
			o.apiKey = &cfg.APIKey
		}
		if cfg.BaseURL != "" {
			o.baseURL = &cfg.BaseURL
		}
		if cfg.PollingInterval > 0 {
			o.pollingInterval = cfg.PollingInterval
		}
		if cfg.Timeout > 0 {
			o.timeout = cfg.Timeout
		}
		if cfg.RequestTimeout > 0 {
			o.requestTimeout = cfg.RequestTimeout
		}
		if cfg.MaxRetries > 0 {
			o.retries = cfg.MaxRetries
		}
		o.options = cfg.options()
	}
}

// NewLoader validates the options and returns a Loader. No request is made.
func NewLoader(opts ...LoaderOption) (*Loader, error) {
	o := &loaderOptions{}
	for _, opt := range opts {
		opt(o)
	}
	s, err := o.resolve()
	if err != nil {
		return nil, err
	}
	return &Loader{s: *s}, nil
}

func (o *loaderOptions) resolve() (*settings, error) {
	v := validation.New().
		ExactlyOne("source", "file_path, file_data or file_url", o.hasPath, o.hasData, o.hasURL).
		Custom(!o.hasPath || o.source.path != "", "file_path", "must not be empty").
		Custom(!o.hasData || o.source.data != nil, "file_data", "must not be nil").
		Custom(!o.hasURL || o.source.url != "", "file_url", "must not be empty").
		URL("file_url", o.source.url)
	if err := v.ValidateAs(errors.ErrCodeConfiguration); err != nil {
		return nil, err
	}

	s := o.settings
	switch {
	case o.apiKey != nil && *o.apiKey != "":
		s.apiKey = *o.apiKey
	case os.Getenv(APIKeyEnv) != "":
		s.apiKey = os.Getenv(APIKeyEnv)
	default:
		return nil, errors.Configurationf("api key is required: use WithAPIKey or set %s", APIKeyEnv)
	}

	s.baseURL = DefaultBaseURL
	if o.baseURL != nil {
		s.baseURL = *o.baseURL
	}
	if err := validation.New().URL("base_url", s.baseURL).ValidateAs(errors.ErrCodeConfiguration); err != nil {
		return nil, err
	}
	if s.options.Model == "" {
		s.options.Model = DefaultModel
	}
	if err := validation.ValidateAs(s.options, errors.ErrCodeConfiguration); err != nil {
		return nil, err
	}

	if s.pollingInterval <= 0 {
		s.pollingInterval = DefaultPollingInterval
	}
	if s.timeout <= 0 {
		s.timeout = DefaultTimeout
	}
	if s.requestTimeout <= 0 {
		s.requestTimeout = DefaultRequestTimeout
	}
	if o.retries > 0 {
		s.retry = httpclient.DefaultRetryConfig()
		s.retry.MaxAttempts = o.retries + 1
	}
	if s.clock == nil {
		s.clock = realClock{}
	}
	if s.log == nil {
		s.log = logger.Get(ProviderName)
	} else {
		s.log = s.log.WithComponent(ProviderName)
	}
	return &s, nil
}

// LazyLoad returns a sequence that runs the transcription in the caller's
// goroutine when ranged over, sleeping between polls. It yields one
// document, or one error.
func (l *Loader) LazyLoad(ctx context.Context) iter.Seq2[document.Document, error] {
	return func(yield func(document.Document, error) bool) {
		res, err := l.s.execute(ctx, l.s.blockingWait)
		if err != nil {
			yield(document.Document{}, err)
			return
		}
		yield(res.doc, nil)
	}
}

// Load runs the transcription and returns its document.
func (l *Loader) Load(ctx context.Context) ([]document.Document, error) {
	return document.Collect(l.LazyLoad(ctx))
}

// ALazyLoad starts the transcription on its own goroutine and returns an
// iterator over the result. Closing the iterator cancels the run; remote
// resources are still deleted.
func (l *Loader) ALazyLoad(ctx context.Context) provider.Iterator[document.Document] {
	ctx, cancel := context.WithCancel(ctx)
	items := make(chan provider.Item[document.Document], 1)
	go func() {
		defer cancel()
		defer close(items)
		res, err := l.s.execute(ctx, l.s.cooperativeWait)
		if err != nil {
			items <- provider.Item[document.Document]{Err: err}
			return
		}
		items <- provider.Item[document.Document]{Value: res.doc}
	}()
	return provider.NewChanIterator(items, cancel)
}
