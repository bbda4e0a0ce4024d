// Package observability provides OpenTelemetry tracing and metrics
// integration for transcription runs.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("soniox-transcribe"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, "soniox.upload")
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("soniox-transcribe"))
//	defer mp.Shutdown(ctx)
//
//	tm, err := observability.NewTranscriptionMetrics(observability.Meter("soniox"))
//	tm.Record(ctx, "soniox", observability.StatusCompleted, duration, polls)
//
// Both can be set up together from configuration with Setup.
package observability
