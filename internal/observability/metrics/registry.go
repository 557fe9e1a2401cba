package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)

	// HTTPRequestSize measures HTTP request body size in bytes
	HTTPRequestSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_size_bytes",
			Help:    "HTTP request size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// HTTPRequestsInFlight counts requests currently being served
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)

	// HTTPResponseSize measures HTTP response body size in bytes
	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)
)

// Ingestion metrics track document text extraction
var (
	// DocumentsIngestedTotal counts extraction attempts by source (pdf, url) and result
	DocumentsIngestedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "documents_ingested_total",
			Help: "Total number of document extraction attempts",
		},
		[]string{"source", "result"}, // result: success, failure, empty
	)

	// DocumentIngestDuration measures time to extract document text
	DocumentIngestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "document_ingest_duration_seconds",
			Help:    "Time taken to extract document text",
			Buckets: []float64{0.05, 0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4, 12.8},
		},
		[]string{"source"},
	)

	// DocumentWords measures the word count of extracted documents
	DocumentWords = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "document_words",
			Help:    "Word count of extracted documents",
			Buckets: prometheus.ExponentialBuckets(100, 2, 10),
		},
	)
)

// Usage metrics track completed summarization requests
var (
	// UsageCount mirrors the persisted usage counter
	UsageCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "usage_count",
			Help: "Number of completed summarization requests",
		},
	)

	// UsagePersistFailures counts failed usage counter writes
	UsagePersistFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "usage_persist_failures_total",
			Help: "Total number of failed usage counter writes",
		},
	)
)

// RecordHTTPRequest records an HTTP request with its metadata
func RecordHTTPRequest(method, path, status string, duration time.Duration, requestSize, responseSize int) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())

	if requestSize > 0 {
		HTTPRequestSize.WithLabelValues(method, path).Observe(float64(requestSize))
	}
	if responseSize > 0 {
		HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}
