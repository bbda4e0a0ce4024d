package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Terminal statuses recorded on transcription.total.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusTimeout   = "timeout"
	StatusCanceled  = "canceled"
	StatusError     = "error"
)

// TranscriptionMetrics holds instruments describing whole transcription runs.
type TranscriptionMetrics struct {
	total    metric.Int64Counter
	duration metric.Float64Histogram
	polls    metric.Int64Histogram
}

// NewTranscriptionMetrics creates the transcription instruments on meter.
func NewTranscriptionMetrics(meter metric.Meter) (*TranscriptionMetrics, error) {
	total, err := meter.Int64Counter("transcription.total",
		metric.WithDescription("Transcription runs by terminal status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.total counter: %w", err)
	}

	duration, err := meter.Float64Histogram("transcription.duration",
		metric.WithDescription("Wall time of a transcription run in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.duration histogram: %w", err)
	}

	polls, err := meter.Int64Histogram("transcription.polls",
		metric.WithDescription("Status polls issued per transcription run"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.polls histogram: %w", err)
	}

	return &TranscriptionMetrics{total: total, duration: duration, polls: polls}, nil
}

// Record records one finished run. A nil receiver is a no-op.
func (m *TranscriptionMetrics) Record(ctx context.Context, provider, status string, d time.Duration, polls int) {
	if m == nil {
		return
	}
	byProvider := metric.WithAttributes(attribute.String("provider", provider))
	m.total.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("status", status),
	))
	m.duration.Record(ctx, d.Seconds(), byProvider)
	m.polls.Record(ctx, int64(polls), byProvider)
}
