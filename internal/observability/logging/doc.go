// Package logging provides structured logging helpers on top of log/slog.
//
// Loggers are JSON by default and text when LOG_FORMAT=text. The request id set by
// the HTTP middleware is attached with WithRequestID so every strategy outcome
// logged during a request can be correlated.
//
// Example usage:
//
//	logger := logging.New()
//	slog.SetDefault(logger)
//
//	func handle(ctx context.Context) {
//	    logging.WithRequestID(ctx, slog.Default()).Info("summarizing")
//	}
package logging
