// Package tracing provides OpenTelemetry tracing integration.
//
// InitTracer installs an SDK tracer provider; without it the global no-op provider
// is used and spans cost nothing. The orchestrator opens one span per summarization
// and one child span per strategy invocation, and Middleware opens a server span
// per HTTP request.
package tracing
