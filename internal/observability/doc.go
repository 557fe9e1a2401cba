// Package observability groups the logging, metrics and tracing infrastructure
// of the summarization service.
//
// Subpackages:
//   - logging: slog construction and request-scoped loggers
//   - metrics: process-wide Prometheus collectors for HTTP, ingestion and usage
//   - tracing: OpenTelemetry tracer setup and HTTP middleware
//
// Example usage:
//
//	import (
//	    "paper-digest/internal/observability/logging"
//	    "paper-digest/internal/observability/metrics"
//	)
//
//	func main() {
//	    logger := logging.New()
//	    logger.Info("application started")
//
//	    metrics.SetUsageCount(0)
//	}
package observability
