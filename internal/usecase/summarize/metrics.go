package summarize

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"paper-digest/internal/domain/entity"
)

// CacheEvent labels a result cache lookup or mutation.
type CacheEvent string

const (
	CacheHit      CacheEvent = "hit"
	CacheMiss     CacheEvent = "miss"
	CacheShared   CacheEvent = "shared"
	CacheEviction CacheEvent = "eviction"
)

// MetricsRecorder records orchestration and cache metrics.
// It abstracts Prometheus so tests can inject a recording fake.
type MetricsRecorder interface {
	// RecordStrategy records one classified strategy invocation.
	RecordStrategy(strategyID string, outcome entity.Outcome, elapsed time.Duration)

	// RecordOrchestration records a finished orchestration call.
	RecordOrchestration(mode Mode, strategyID string, fallback bool, elapsed time.Duration)

	// RecordCache records a cache event.
	RecordCache(event CacheEvent)

	// SetCacheSize records the number of cached summaries.
	SetCacheSize(n int)
}

// NoopMetrics discards all metrics.
type NoopMetrics struct{}

func (NoopMetrics) RecordStrategy(string, entity.Outcome, time.Duration)  {}
func (NoopMetrics) RecordOrchestration(Mode, string, bool, time.Duration) {}
func (NoopMetrics) RecordCache(CacheEvent)                                {}
func (NoopMetrics) SetCacheSize(int)                                      {}

// PrometheusMetrics implements MetricsRecorder with Prometheus collectors:
//   - summarize_strategy_invocations_total{strategy,outcome}
//   - summarize_strategy_duration_seconds{strategy}
//   - summarize_orchestrations_total{mode,strategy}
//   - summarize_orchestration_duration_seconds{mode}
//   - summarize_fallbacks_total
//   - summarize_cache_events_total{event}
//   - summarize_cache_entries
type PrometheusMetrics struct {
	invocations   *prometheus.CounterVec
	strategyTime  *prometheus.HistogramVec
	orchestration *prometheus.CounterVec
	totalTime     *prometheus.HistogramVec
	fallbacks     prometheus.Counter
	cacheEvents   *prometheus.CounterVec
	cacheEntries  prometheus.Gauge
}

var (
	defaultMetrics     *PrometheusMetrics
	defaultMetricsOnce sync.Once
)

// DefaultPrometheusMetrics returns the process-wide recorder registered with
// prometheus.DefaultRegisterer.
func DefaultPrometheusMetrics() *PrometheusMetrics {
	defaultMetricsOnce.Do(func() {
		defaultMetrics = NewPrometheusMetrics(prometheus.DefaultRegisterer)
	})
	return defaultMetrics
}

// NewPrometheusMetrics creates collectors and registers them with reg.
// Collectors that are already registered are reused.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	return &PrometheusMetrics{
		invocations: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "summarize_strategy_invocations_total",
			Help: "Total number of strategy invocations by outcome",
		}, []string{"strategy", "outcome"})),
		strategyTime: register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "summarize_strategy_duration_seconds",
			Help:    "Time taken by a single strategy invocation",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"strategy"})),
		orchestration: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "summarize_orchestrations_total",
			Help: "Total number of orchestration calls by mode and winning strategy",
		}, []string{"mode", "strategy"})),
		totalTime: register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "summarize_orchestration_duration_seconds",
			Help:    "Total time taken to produce a summary",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"mode"})),
		fallbacks: register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "summarize_fallbacks_total",
			Help: "Total number of summaries produced by the terminal strategy",
		})),
		cacheEvents: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "summarize_cache_events_total",
			Help: "Result cache events (hit, miss, shared, eviction)",
		}, []string{"event"})),
		cacheEntries: register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "summarize_cache_entries",
			Help: "Number of cached summaries",
		})),
	}
}

// register returns c registered with reg, or the collector already registered under its name.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
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

func (m *PrometheusMetrics) RecordStrategy(strategyID string, outcome entity.Outcome, elapsed time.Duration) {
	m.invocations.WithLabelValues(strategyID, outcome.String()).Inc()
	m.strategyTime.WithLabelValues(strategyID).Observe(elapsed.Seconds())
}

func (m *PrometheusMetrics) RecordOrchestration(mode Mode, strategyID string, fallback bool, elapsed time.Duration) {
	m.orchestration.WithLabelValues(string(mode), strategyID).Inc()
	m.totalTime.WithLabelValues(string(mode)).Observe(elapsed.Seconds())
	if fallback {
		m.fallbacks.Inc()
	}
}

func (m *PrometheusMetrics) RecordCache(event CacheEvent) {
	m.cacheEvents.WithLabelValues(string(event)).Inc()
}

func (m *PrometheusMetrics) SetCacheSize(n int) {
	m.cacheEntries.Set(float64(n))
}
