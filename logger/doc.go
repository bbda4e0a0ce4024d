// Package logger provides structured logging over zerolog.
//
// Loggers are scoped by component and enriched with request-scoped values
// (run id, OpenTelemetry trace and span ids) via WithContext.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("soniox")
//	log.Info("transcription created", logger.Fields(logger.FieldTranscriptionID, id))
package logger
