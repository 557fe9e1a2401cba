package worker

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records worker pool activity.
type Metrics interface {
	// SetSize records the configured number of workers.
	SetSize(size int)

	// TaskStarted is called when a worker picks up a task after waiting for wait.
	TaskStarted(wait time.Duration)

	// TaskFinished is called when a worker returns from a task.
	TaskFinished(panicked bool)
}

// NoopMetrics discards all pool metrics.
type NoopMetrics struct{}

func (NoopMetrics) SetSize(int)               {}
func (NoopMetrics) TaskStarted(time.Duration) {}
func (NoopMetrics) TaskFinished(bool)         {}

// PrometheusMetrics exports pool metrics:
//   - worker_pool_size: configured number of workers
//   - worker_pool_busy: workers currently running a task
//   - worker_pool_tasks_total: finished tasks by status (ok, panic)
//   - worker_pool_queue_wait_seconds: time a submitter waited for a free worker
type PrometheusMetrics struct {
	size      prometheus.Gauge
	busy      prometheus.Gauge
	tasks     *prometheus.CounterVec
	queueWait prometheus.Histogram
}

// NewPrometheusMetrics creates pool metrics registered with reg.
// Pass prometheus.NewRegistry() in tests to avoid duplicate registration.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)
	return &PrometheusMetrics{
		size: factory.NewGauge(prometheus.GaugeOpts{
			Name: "worker_pool_size",
			Help: "Configured number of strategy workers",
		}),
		busy: factory.NewGauge(prometheus.GaugeOpts{
			Name: "worker_pool_busy",
			Help: "Number of workers currently running a strategy",
		}),
		tasks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_pool_tasks_total",
			Help: "Total number of tasks run by the worker pool by status",
		}, []string{"status"}),
		queueWait: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_pool_queue_wait_seconds",
			Help:    "Time spent waiting for a free worker",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
	}
}

func (m *PrometheusMetrics) SetSize(size int) {
	m.size.Set(float64(size))
}

func (m *PrometheusMetrics) TaskStarted(wait time.Duration) {
	m.busy.Inc()
	m.queueWait.Observe(wait.Seconds())
}

func (m *PrometheusMetrics) TaskFinished(panicked bool) {
	m.busy.Dec()
	status := "ok"
	if panicked {
		status = "panic"
	}
	m.tasks.WithLabelValues(status).Inc()
}
