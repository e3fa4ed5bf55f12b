package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging.
// Use these constants instead of raw strings.
const (
	// Identity and context
	FieldDocument = "document"
	FieldSentence = "sentence"
	FieldGraph    = "graph"

	// Spans and relations
	FieldSpan       = "span"
	FieldVariant    = "variant"
	FieldLabel      = "label"
	FieldRelation   = "relation"
	FieldResolution = "resolution"
	FieldRatio      = "ratio"
	FieldLine       = "line"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts and sizes
	FieldCount      = "count"
	FieldTotalCount = "total_count"
	FieldFailures   = "failures"
	FieldWorkers    = "workers"

	// Files and paths
	FieldFile = "file"
	FieldPath = "path"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	type Integrator struct {
//	    logger *zap.SugaredLogger
//	}
//
//	func NewIntegrator(cfg Config) *Integrator {
//	    return &Integrator{
//	        logger: logger.ComponentLogger("graph.integrator"),
//	    }
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
//
//	docLogger := logger.ChildLogger(baseLogger, logger.FieldDocument, doc.ID)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.SugaredLogger) *zap.SugaredLogger {
	if l == nil {
		return zap.NewNop().Sugar()
	}
	return l
}
