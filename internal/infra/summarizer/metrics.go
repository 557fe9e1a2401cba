package summarizer

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Request statuses recorded by MetricsRecorder.
const (
	StatusSuccess     = "success"
	StatusError       = "error"
	StatusEmpty       = "empty"
	StatusCircuitOpen = "circuit_open"
	StatusRateLimited = "rate_limited"
)

// MetricsRecorder records remote provider metrics.
// Tests inject a fake; production uses PrometheusMetrics.
type MetricsRecorder interface {
	// RecordRequest records one remote call and how it ended.
	RecordRequest(provider, status string, duration time.Duration)

	// RecordSummaryLength records the length of a generated summary in runes.
	RecordSummaryLength(provider string, runes int)
}

// NoopMetrics discards all metrics.
type NoopMetrics struct{}

func (NoopMetrics) RecordRequest(string, string, time.Duration) {}
func (NoopMetrics) RecordSummaryLength(string, int)             {}

// PrometheusMetrics implements MetricsRecorder using Prometheus metrics.
type PrometheusMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	length   *prometheus.HistogramVec
}

var (
	prometheusMetricsInstance *PrometheusMetrics
	prometheusMetricsOnce     sync.Once
)

// DefaultPrometheusMetrics returns the recorder registered with the default registry.
// Uses a singleton to avoid duplicate registration in tests.
func DefaultPrometheusMetrics() *PrometheusMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = NewPrometheusMetrics(prometheus.DefaultRegisterer)
	})
	return prometheusMetricsInstance
}

// NewPrometheusMetrics creates the remote provider collectors on reg.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	return &PrometheusMetrics{
		requests: getOrCreate(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "remote_summarizer_requests_total",
			Help: "Total number of remote model calls by provider and status",
		}, []string{"provider", "status"})),
		duration: getOrCreate(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "remote_summarizer_duration_seconds",
			Help:    "Time taken by a remote model call",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
		}, []string{"provider"})),
		length: getOrCreate(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "remote_summarizer_summary_length_characters",
			Help:    "Distribution of remote summary lengths in characters (Unicode runes)",
			Buckets: []float64{100, 300, 500, 700, 900, 1100, 1500, 2000, 4000},
		}, []string{"provider"})),
	}
}

// getOrCreate registers c, or returns the collector already registered under the same name.
func getOrCreate[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// RecordRequest implements MetricsRecorder.
func (p *PrometheusMetrics) RecordRequest(provider, status string, duration time.Duration) {
	p.requests.WithLabelValues(provider, status).Inc()
	if duration > 0 {
		p.duration.WithLabelValues(provider).Observe(duration.Seconds())
	}
}

// RecordSummaryLength implements MetricsRecorder.
func (p *PrometheusMetrics) RecordSummaryLength(provider string, runes int) {
	p.length.WithLabelValues(provider).Observe(float64(runes))
}
