package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"paper-digest/internal/handler/http/pathutil"
	"paper-digest/internal/observability/metrics"
)

// MetricsMiddleware records request count, duration, sizes and in-flight requests.
// Paths are normalized to keep label cardinality bounded.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		path := pathutil.NormalizePath(r.URL.Path)
		rec := newRecorder(w)

		start := time.Now()
		next.ServeHTTP(rec, r)

		metrics.RecordHTTPRequest(r.Method, path, strconv.Itoa(rec.status),
			time.Since(start), int(max(r.ContentLength, 0)), rec.bytes)
	})
}

// MetricsHandler returns an HTTP handler for the Prometheus metrics endpoint.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
