// Package log provides the structured logging interface used by featprep.
//
// Loggers take alternating key/value pairs, with keys drawn from the
// constants in attributes.go:
//
//	logger := log.GetLoggerWithName("preprocessing").With(
//	    log.ModelNameKey, "Preprocessor",
//	    log.EstimatorIDKey, id,
//	)
//	logger.Info("Fit completed",
//	    log.OperationKey, log.OperationFit,
//	    log.SamplesKey, 1000,
//	    log.FeaturesKey, 42,
//	)
//
// The default backend is zerolog (see zerolog.go). Tests capture output with
// NewTestLogger.
package log

import (
	"context"
)

// Logger is a leveled, structured logger. Implementations must be safe for
// concurrent use.
type Logger interface {
	// Debug logs per-column and per-stage detail such as classified groups
	// or frame samples.
	Debug(msg string, fields ...any)

	// Info logs completed operations with their shapes and durations.
	Info(msg string, fields ...any)

	// Warn logs recoverable conditions, e.g. input columns absent at
	// transform time.
	Warn(msg string, fields ...any)

	// Error logs failed operations. An error may be passed as the first
	// field.
	Error(msg string, fields ...any)

	// With returns a logger that adds fields to every entry.
	With(fields ...any) Logger

	// Enabled reports whether level is emitted. Guard expensive fields with
	// it:
	//
	//	if logger.Enabled(ctx, log.LevelDebug) {
	//	    logger.Debug("Frame sample", log.SampleKey, f.Head(5))
	//	}
	Enabled(ctx context.Context, level Level) bool
}

// Level mirrors slog.Level so values convert directly.
type Level int

const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LoggerProvider hands out loggers sharing one output and level.
type LoggerProvider interface {
	GetLogger() Logger
	GetLoggerWithName(name string) Logger
	SetLevel(level Level)
}
