package picset

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with picset-specific context.
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
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))
}

// WithID adds a source identifier field to the logger.
func (l *Logger) WithID(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("id", id),
	}
}

// LogAdd logs the outcome of a single add.
func (l *Logger) LogAdd(ctx context.Context, id string, index int, outcome Outcome, err error) {
	if err != nil {
		l.ErrorContext(ctx, "add failed",
			"id", id,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "add completed",
		"id", id,
		"index", index,
		"outcome", outcome.String(),
	)
}

// LogBatch logs the summary of an AddBatch call.
func (l *Logger) LogBatch(ctx context.Context, count, added, duplicates, failed int) {
	if failed > 0 {
		l.WarnContext(ctx, "batch add completed with failures",
			"total", count,
			"added", added,
			"duplicates", duplicates,
			"failed", failed,
		)
		return
	}
	l.InfoContext(ctx, "batch add completed",
		"total", count,
		"added", added,
		"duplicates", duplicates,
	)
}

// LogVerify logs the result of a consistency check.
func (l *Logger) LogVerify(ctx context.Context, photos int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "verify failed",
			"photos", photos,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "verify passed",
		"photos", photos,
	)
}
