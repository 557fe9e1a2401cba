// Package metrics holds the process-wide Prometheus collectors shared by the
// HTTP layer, document ingestion and the usage counter. Collectors are registered
// with the default registry and exposed on /metrics.
//
// Strategy, cache and worker pool metrics live next to the code they measure
// (summarize.PrometheusMetrics, worker.PrometheusMetrics).
package metrics
