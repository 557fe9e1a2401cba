package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"paper-digest/internal/handler/http/requestid"
)

// New creates a logger configured from LOG_FORMAT (json or text) and LOG_LEVEL.
func New() *slog.Logger {
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "text") {
		return NewTextLogger()
	}
	return NewLogger()
}

// NewLogger creates a new structured logger with JSON output.
// The log level can be controlled via the LOG_LEVEL environment variable.
// Supported levels: debug, info, warn, error
// Default level: info
func NewLogger() *slog.Logger {
	return newLogger(os.Stdout, false)
}

// NewTextLogger creates a new structured logger with human-readable text output.
// This is useful for local development and the command line tool.
func NewTextLogger() *slog.Logger {
	return newLogger(os.Stderr, true)
}

func newLogger(w io.Writer, text bool) *slog.Logger {
	level := ParseLevel(os.Getenv("LOG_LEVEL"))
	opts := &slog.HandlerOptions{
		Level: level,
		// Add source code location at debug level only
		AddSource: level <= slog.LevelDebug,
	}

	if text {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRequestID returns a new logger that includes the request ID from the context.
func WithRequestID(ctx context.Context, logger *slog.Logger) *slog.Logger {
	reqID := requestid.FromContext(ctx)
	if reqID == "" {
		return logger
	}
	return logger.With(slog.String("request_id", reqID))
}

// FromContext retrieves the logger from the context, or returns the default logger if not found.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, logger)
}

type contextKey string

const loggerContextKey contextKey = "logger"
