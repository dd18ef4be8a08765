package colsort

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with colsort-specific context.
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
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithK adds a k (selection size) field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogSort logs a sort or argsort operation over n positions.
func (l *Logger) LogSort(ctx context.Context, op string, n int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "sort failed",
			"op", op,
			"n", n,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "sort completed",
			"op", op,
			"n", n,
		)
	}
}

// LogTopK logs a top-k selection over n positions.
func (l *Logger) LogTopK(ctx context.Context, k, n int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "top-k failed",
			"k", k,
			"n", n,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "top-k completed",
			"k", k,
			"n", n,
		)
	}
}
