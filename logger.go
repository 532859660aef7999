package metrigo

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with metrigo-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithPartitions adds a partition-count field to the logger.
func (l *Logger) WithPartitions(n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("partitions", n),
	}
}

// WithPivots adds a pivot-count field to the logger.
func (l *Logger) WithPivots(n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("pivots", n),
	}
}

// WithEpoch adds a pivot-epoch field to the logger.
func (l *Logger) WithEpoch(epoch uint64) *Logger {
	return &Logger{
		Logger: l.Logger.With("epoch", epoch),
	}
}
