// Command soniox-transcribe transcribes one audio file or URL with Soniox
// and prints the resulting document as JSON. With --segments it goes
// through the transcription provider manager instead and prints the
// speaker segments.
//
// Usage:
//
//	soniox-transcribe --file meeting.mp3 --language en --diarize
//	soniox-transcribe --url https://example.com/talk.mp3 --text
//	soniox-transcribe --file meeting.mp3 --diarize --segments
//
// Settings are read from config.yml and .env in the usual locations (see
// package config); flags override them. SONIOX_API_KEY supplies the key.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"

	"github.com/kbukum/gokit-soniox/bootstrap"
	"github.com/kbukum/gokit-soniox/config"
	"github.com/kbukum/gokit-soniox/document"
	"github.com/kbukum/gokit-soniox/observability"
	"github.com/kbukum/gokit-soniox/provider"
	"github.com/kbukum/gokit-soniox/soniox"
	"github.com/kbukum/gokit-soniox/transcription"
	"github.com/kbukum/gokit-soniox/version"
)

const serviceName = "soniox-transcribe"

type appConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Soniox               soniox.Config        `yaml:"soniox" mapstructure:"soniox"`
	Observability        observability.Config `yaml:"observability" mapstructure:"observability"`
}

func (c *appConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Soniox.ApplyDefaults()
}

func (c *appConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	return c.Soniox.Validate()
}

type flags struct {
	file, url    string
	configFile   string
	envFile      string
	model        string
	languages    []string
	diarize      bool
	languageID   bool
	pollInterval time.Duration
	timeout      time.Duration
	async        bool
	segments     bool
	textOnly     bool
	output       string
	showVersion  bool
}

func parseFlags(args []string, stderr io.Writer) (*flags, *pflag.FlagSet, error) {
	f := &flags{}
	fs := pflag.NewFlagSet(serviceName, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&f.file, "file", "f", "", "path of a local audio file")
	fs.StringVarP(&f.url, "url", "u", "", "public URL of the audio")
	fs.StringVarP(&f.configFile, "config", "c", "", "config file (default: search standard locations)")
	fs.StringVar(&f.envFile, "env-file", "", ".env file (default: search standard locations)")
	fs.StringVarP(&f.model, "model", "m", "", "transcription model")
	fs.StringSliceVarP(&f.languages, "language", "l", nil, "language hints, e.g. en,es")
	fs.BoolVar(&f.diarize, "diarize", false, "label speakers")
	fs.BoolVar(&f.languageID, "language-id", false, "identify the language of each token")
	fs.DurationVar(&f.pollInterval, "poll-interval", 0, "delay between status polls")
	fs.DurationVar(&f.timeout, "timeout", 0, "give up polling after this long")
	fs.BoolVar(&f.async, "async", false, "run the transcription on a background goroutine")
	fs.BoolVar(&f.segments, "segments", false, "print speaker segments from the transcription provider")
	fs.BoolVarP(&f.textOnly, "text", "t", false, "print only the transcript text")
	fs.StringVarP(&f.output, "output", "o", "", "write to this file instead of stdout")
	fs.BoolVarP(&f.showVersion, "version", "v", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs, nil
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	f, fs, err := parseFlags(args, stderr)
	if err != nil {
		return 2
	}
	if f.showVersion {
		fmt.Fprintf(stdout, "%s %s\n", serviceName, version.Get())
		return 0
	}
	if (f.file == "") == (f.url == "") {
		fmt.Fprintln(stderr, "exactly one of --file or --url is required")
		return 2
	}

	cfg := appConfig{ServiceConfig: config.ServiceConfig{Name: serviceName}}
	cfg.Logging.Output = "stderr"
	cfg.Logging.Format = "console"
	cfg.Logging.Level = "info"
	cfg.ApplyDefaults()
	if err := config.LoadConfig(serviceName, &cfg,
		config.WithConfigFile(f.configFile),
		config.WithEnvFile(f.envFile),
	); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	applyFlags(&cfg.Soniox, f, fs)

	app, err := bootstrap.NewApp(&cfg)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	var (
		metrics    *observability.TranscriptionMetrics
		reqMetrics *observability.Metrics
	)
	var shutdown observability.ShutdownFunc
	app.OnStart(func(ctx context.Context) error {
		var err error
		shutdown, err = observability.Setup(ctx, cfg.Observability, serviceName, cfg.Environment)
		if err != nil {
			return err
		}
		meter := observability.Meter(serviceName)
		if metrics, err = observability.NewTranscriptionMetrics(meter); err != nil {
			return err
		}
		reqMetrics, err = observability.NewMetrics(meter)
		return err
	})
	app.OnStop(func(ctx context.Context) error {
		if shutdown == nil {
			return nil
		}
		return shutdown(ctx)
	})

	err = app.RunTask(ctx, func(ctx context.Context) error {
		opts := []soniox.LoaderOption{
			soniox.WithLogger(app.Logger),
			soniox.WithMetrics(metrics),
			soniox.WithRequestMetrics(reqMetrics),
		}
		if f.segments {
			return transcribe(ctx, cfg.Soniox, opts, f, stdout)
		}
		return load(ctx, cfg.Soniox, opts, f, stdout)
	})
	if err != nil {
		app.Logger.Error("transcription failed", map[string]interface{}{"error": err.Error()})
		return 1
	}
	return 0
}

// applyFlags copies explicitly set flags over the loaded config.
func applyFlags(c *soniox.Config, f *flags, fs *pflag.FlagSet) {
	if fs.Changed("model") {
		c.Model = f.model
	}
	if fs.Changed("language") {
		c.LanguageHints = f.languages
	}
	if fs.Changed("diarize") {
		c.EnableSpeakerDiarization = f.diarize
	}
	if fs.Changed("language-id") {
		c.EnableLanguageIdentification = f.languageID
	}
	if fs.Changed("poll-interval") {
		c.PollingInterval = f.pollInterval
	}
	if fs.Changed("timeout") {
		c.Timeout = f.timeout
	}
}

// load runs the document loader and writes the documents.
func load(ctx context.Context, cfg soniox.Config, opts []soniox.LoaderOption, f *flags, stdout io.Writer) error {
	opts = append([]soniox.LoaderOption{soniox.WithConfig(cfg)}, opts...)
	if f.file != "" {
		opts = append(opts, soniox.WithFilePath(f.file))
	} else {
		opts = append(opts, soniox.WithFileURL(f.url))
	}
	loader, err := soniox.NewLoader(opts...)
	if err != nil {
		return err
	}

	var docs []document.Document
	if f.async {
		docs, err = provider.Collect(ctx, loader.ALazyLoad(ctx))
	} else {
		docs, err = loader.Load(ctx)
	}
	if err != nil {
		return err
	}

	texts := make([]string, len(docs))
	values := make([]any, len(docs))
	for i, d := range docs {
		texts[i], values[i] = d.PageContent, d
	}
	return write(f, stdout, texts, values)
}

// transcribe resolves the Soniox backend through a transcription manager
// and writes the response with its segments.
func transcribe(ctx context.Context, cfg soniox.Config, opts []soniox.LoaderOption, f *flags, stdout io.Writer) error {
	var raw map[string]any
	if err := mapstructure.Decode(cfg, &raw); err != nil {
		return err
	}

	mgr := transcription.NewManager()
	mgr.Register(soniox.ProviderName, soniox.Factory(opts...))
	if err := mgr.InitializeWithContext(ctx, soniox.ProviderName, raw); err != nil {
		return err
	}
	p, err := mgr.Get(ctx)
	if err != nil {
		return err
	}

	req := transcription.Request{AudioPath: f.file, AudioURL: f.url, Diarization: cfg.EnableSpeakerDiarization}
	resp, err := p.Transcribe(ctx, req)
	if err != nil {
		return err
	}
	return write(f, stdout, []string{resp.Text}, []any{resp})
}

// createOutput opens the --output file.
var createOutput = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

func write(f *flags, stdout io.Writer, texts []string, values []any) (err error) {
	w := stdout
	if f.output != "" {
		file, createErr := createOutput(f.output)
		if createErr != nil {
			return createErr
		}
		defer func() {
			if closeErr := file.Close(); err == nil {
				err = closeErr
			}
		}()
		w = file
	}

	if f.textOnly {
		for _, t := range texts {
			if _, err := fmt.Fprintln(w, t); err != nil {
				return err
			}
		}
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	for _, v := range values {
		if err := enc.Encode(v); err != nil {
			return err
		}
	}
	return nil
}
