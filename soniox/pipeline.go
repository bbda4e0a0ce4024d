package soniox

import (
	"context"
	stderrors "errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/gokit-soniox/document"
	"github.com/kbukum/gokit-soniox/errors"
	"github.com/kbukum/gokit-soniox/httpclient"
	"github.com/kbukum/gokit-soniox/logger"
	"github.com/kbukum/gokit-soniox/observability"
	"github.com/kbukum/gokit-soniox/resilience"
)

const (
	// uploadSourceName is the document source for in-memory audio.
	uploadSourceName = "file_upload"
	// uploadFileName is the multipart file name for in-memory audio.
	uploadFileName = "audio_file"
)

// audioSource is the single audio input of a run.
type audioSource struct {
	path string
	data []byte
	url  string
}

// name is the value stored under the "source" metadata key.
func (s audioSource) name() string {
	switch {
	case s.url != "":
		return s.url
	case s.path != "":
		return s.path
	default:
		return uploadSourceName
	}
}

func (s audioSource) needsUpload() bool { return s.url == "" }

func (s audioSource) fileField() httpclient.FileField {
	if s.path != "" {
		return httpclient.FileFromPath("file", filepath.Base(s.path), s.path)
	}
	return httpclient.FileField{FieldName: "file", FileName: uploadFileName, Data: s.data}
}

// settings is the resolved configuration of a run.
type settings struct {
	source          audioSource
	apiKey          string
	baseURL         string
	options         TranscriptionOptions
	pollingInterval time.Duration
	timeout         time.Duration
	requestTimeout  time.Duration
	retry           *resilience.RetryConfig
	transport       http.RoundTripper
	clock           Clock
	log             *logger.Logger
	metrics         *observability.TranscriptionMetrics
	requestMetrics  *observability.Metrics
}

// run is the mutable state of one pass through the step sequence.
type run struct {
	api *api
	log *logger.Logger

	fileID          string
	transcriptionID string
	pollStart       time.Time
	polls           int
	status          *Transcription
	transcript      *Transcript
	doc             document.Document
}

// step advances a run. A step that returns done=false with a wait is
// re-entered once the wait has elapsed.
type step struct {
	name string
	span string
	fn   func(ctx context.Context, r *run) (wait time.Duration, done bool, err error)
}

// result is what a successful run produces.
type result struct {
	doc        document.Document
	status     *Transcription
	transcript *Transcript
}

// waitFunc suspends a run between polls. It returns ctx.Err() if the run
// should stop.
type waitFunc func(ctx context.Context, d time.Duration) error

// blockingWait sleeps the calling goroutine. Clock.Sleep does not observe
// ctx, so cancellation is only noticed once the full interval has elapsed.
func (s *settings) blockingWait(ctx context.Context, d time.Duration) error {
	s.clock.Sleep(d)
	return ctx.Err()
}

// cooperativeWait returns as soon as d elapses or ctx is done.
func (s *settings) cooperativeWait(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.clock.After(d):
		return nil
	}
}

func (s *settings) steps() []step {
	steps := make([]step, 0, 5)
	if s.source.needsUpload() {
		steps = append(steps, step{name: "upload", span: observability.SpanUpload, fn: s.upload})
	}
	return append(steps,
		step{name: "create", span: observability.SpanCreate, fn: s.create},
		step{name: "poll", span: observability.SpanPoll, fn: s.poll},
		step{name: "fetch", span: observability.SpanFetch, fn: s.fetch},
		step{name: "assemble", fn: s.assemble},
	)
}

func (s *settings) upload(ctx context.Context, r *run) (time.Duration, bool, error) {
	resp, err := r.api.uploadFile(ctx, s.source.fileField())
	if err != nil {
		return 0, false, err
	}
	r.fileID = resp.ID
	observability.SetSpanAttribute(ctx, observability.AttrFileID, r.fileID)
	r.log.Debug("audio uploaded", logger.Fields(logger.FieldFileID, r.fileID))
	return 0, true, nil
}

func (s *settings) create(ctx context.Context, r *run) (time.Duration, bool, error) {
	req, err := newCreateRequest(s.options, s.source.url, r.fileID)
	if err != nil {
		return 0, false, err
	}
	resp, err := r.api.createTranscription(ctx, req)
	if err != nil {
		return 0, false, err
	}
	r.transcriptionID = resp.ID
	observability.SetSpanAttribute(ctx, observability.AttrTranscriptionID, r.transcriptionID)
	r.log.Info("transcription created", logger.Fields(
		logger.FieldTranscriptionID, r.transcriptionID,
		logger.FieldSource, s.source.name(),
	))
	return 0, true, nil
}

func (s *settings) poll(ctx context.Context, r *run) (time.Duration, bool, error) {
	now := s.clock.Now()
	if r.pollStart.IsZero() {
		r.pollStart = now
	}
	if now.Sub(r.pollStart) > s.timeout {
		return 0, false, errors.Timeout("transcription", s.timeout)
	}

	r.polls++
	observability.SetSpanAttribute(ctx, observability.AttrPolls, r.polls)
	status, err := r.api.getTranscription(ctx, r.transcriptionID)
	if err != nil {
		return 0, false, err
	}
	observability.SetSpanAttribute(ctx, observability.AttrStatus, string(status.Status))

	switch status.Status {
	case StatusCompleted:
		r.status = status
		return 0, true, nil
	case StatusError:
		return 0, false, errors.TranscriptionFailed(status.ErrorMessage).
			WithDetail("error_type", status.ErrorType)
	default:
		r.log.Debug("transcription pending", logger.Fields(
			logger.FieldStatus, string(status.Status),
			logger.FieldPolls, r.polls,
		))
		return s.pollingInterval, false, nil
	}
}

func (s *settings) fetch(ctx context.Context, r *run) (time.Duration, bool, error) {
	transcript, err := r.api.getTranscript(ctx, r.transcriptionID)
	if err != nil {
		return 0, false, err
	}
	r.transcript = transcript
	return 0, true, nil
}

func (s *settings) assemble(_ context.Context, r *run) (time.Duration, bool, error) {
	tokens := make([]map[string]any, len(r.transcript.Tokens))
	for i, t := range r.transcript.Tokens {
		tokens[i] = t.Record()
	}
	var duration any
	if r.status.AudioDurationMs != nil {
		duration = *r.status.AudioDurationMs
	}
	r.doc = document.Document{
		PageContent: r.transcript.Text,
		Metadata: map[string]any{
			"source":            s.source.name(),
			"transcription_id":  r.transcriptionID,
			"audio_duration_ms": duration,
			"model":             r.status.Model,
			"created_at":        r.status.CreatedAt,
			"tokens":            tokens,
		},
	}
	return 0, true, nil
}

// execute runs every step in order, suspending through wait between polls.
// Remote resources are deleted before it returns, whatever the outcome.
func (s *settings) execute(ctx context.Context, wait waitFunc) (res *result, err error) {
	if s.baseURL == "" {
		return nil, errors.Configuration("base_url must be provided")
	}

	start := s.clock.Now()
	ctx = logger.ContextWithRunID(ctx, uuid.NewString())
	log := s.log.WithContext(ctx)

	a, err := newAPI(s, s.log)
	if err != nil {
		return nil, err
	}
	r := &run{api: a, log: log}

	defer func() {
		s.cleanup(ctx, r)
		status := outcome(err)
		s.metrics.Record(ctx, ProviderName, status, s.clock.Now().Sub(start), r.polls)
		if err != nil {
			log.Warn("transcription run failed", logger.MergeWithError(logger.Fields(
				logger.FieldStatus, status,
				logger.FieldTranscriptionID, r.transcriptionID,
			), err))
		}
	}()

	for _, st := range s.steps() {
		for {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			d, done, err := s.runStep(ctx, st, r)
			if err != nil {
				return nil, err
			}
			if done {
				break
			}
			if err := wait(ctx, d); err != nil {
				return nil, err
			}
		}
	}

	log.Info("transcription completed", logger.Fields(
		logger.FieldTranscriptionID, r.transcriptionID,
		logger.FieldPolls, r.polls,
		logger.FieldDuration, s.clock.Now().Sub(start).Milliseconds(),
	))
	return &result{doc: r.doc, status: r.status, transcript: r.transcript}, nil
}

func (s *settings) runStep(ctx context.Context, st step, r *run) (time.Duration, bool, error) {
	r.log.Debug("running step", logger.Fields(logger.FieldStep, st.name))
	if st.span == "" {
		return st.fn(ctx, r)
	}
	ctx, span := observability.StartSpan(ctx, st.span)
	d, done, err := st.fn(ctx, r)
	observability.EndSpan(span, err)
	return d, done, err
}

// cleanup deletes the job and then the uploaded file. It runs on a context
// that survives cancellation of ctx, one request timeout per delete.
func (s *settings) cleanup(ctx context.Context, r *run) {
	defer r.api.close(ctx)
	if r.transcriptionID == "" && r.fileID == "" {
		return
	}

	base := context.WithoutCancel(ctx)
	base, span := observability.StartSpan(base, observability.SpanCleanup)
	defer span.End()

	del := func(kind, id string, fn func(context.Context, string) error) {
		dctx, cancel := context.WithTimeout(base, s.requestTimeout)
		defer cancel()
		err := fn(dctx, id)
		switch {
		case err == nil:
		case httpclient.IsNotFound(err):
			r.log.Debug("cleanup resource already gone", logger.Fields("resource", kind, "id", id))
		default:
			r.log.Debug("cleanup delete failed", logger.MergeWithError(logger.Fields(
				"resource", kind, "id", id,
			), err))
		}
	}
	if r.transcriptionID != "" {
		del("transcription", r.transcriptionID, r.api.deleteTranscription)
	}
	if r.fileID != "" {
		del("file", r.fileID, r.api.deleteFile)
	}
}

// outcome maps a run error to a terminal metrics status.
func outcome(err error) string {
	switch {
	case err == nil:
		return observability.StatusCompleted
	case IsTranscriptionFailed(err):
		return observability.StatusFailed
	case IsTimeout(err):
		return observability.StatusTimeout
	case stderrors.Is(err, context.Canceled):
		return observability.StatusCanceled
	default:
		return observability.StatusError
	}
}
