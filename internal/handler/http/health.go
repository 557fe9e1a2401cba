// Package http provides the HTTP middleware, health checks and metrics endpoint
// of the paper summarization API. Route handlers live in sub-packages.
package http

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"time"

	"paper-digest/internal/handler/http/respond"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string                 `json:"status"`    // healthy or unhealthy
	Timestamp string                 `json:"timestamp"` // RFC 3339
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
	Mode      string                 `json:"mode,omitempty"` // orchestration mode
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// HealthHandler reports whether the service can accept summarization requests.
// The upload directory must be writable; the database is only checked when the
// usage counter is stored in PostgreSQL.
type HealthHandler struct {
	DB        *sql.DB // optional
	UploadDir string
	Version   string
	Mode      string
}

// ServeHTTP returns 200 when every check passes and 503 otherwise.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]CheckStatus{
		"storage": checkStorage(h.UploadDir),
	}
	if h.DB != nil {
		checks["database"] = checkDatabase(ctx, h.DB)
	}

	status, code := statusHealthy, http.StatusOK
	for _, c := range checks {
		if c.Status == statusUnhealthy {
			status, code = statusUnhealthy, http.StatusServiceUnavailable
			break
		}
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
		Mode:      h.Mode,
	})
}

// checkStorage verifies that files can be created in dir.
func checkStorage(dir string) CheckStatus {
	if dir == "" {
		return CheckStatus{Status: statusUnhealthy, Message: "upload directory not configured"}
	}
	f, err := os.CreateTemp(dir, ".health-*")
	if err != nil {
		return CheckStatus{Status: statusUnhealthy, Message: "upload directory not writable"}
	}
	_ = f.Close()
	_ = os.Remove(f.Name())
	return CheckStatus{Status: statusHealthy}
}

// checkDatabase pings db and reports connection pool statistics.
func checkDatabase(ctx context.Context, db *sql.DB) CheckStatus {
	if err := db.PingContext(ctx); err != nil {
		return CheckStatus{Status: statusUnhealthy, Message: respond.SanitizeError(err)}
	}

	stats := db.Stats()
	details := map[string]any{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
	}
	if stats.MaxOpenConnections > 0 && stats.InUse*5 >= stats.MaxOpenConnections*4 {
		return CheckStatus{Status: statusDegraded, Message: "connection pool utilization above 80%", Details: details}
	}
	return CheckStatus{Status: statusHealthy, Details: details}
}

// ReadyHandler answers readiness probes. It fails while the database, when
// configured, cannot be reached.
type ReadyHandler struct {
	DB *sql.DB
}

// ServeHTTP writes "ready" or 503.
func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.DB != nil {
		if err := h.DB.PingContext(ctx); err != nil {
			http.Error(w, "database not ready", http.StatusServiceUnavailable)
			return
		}
	}

	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ready"))
}

// LiveHandler answers liveness probes while the process can serve requests.
type LiveHandler struct{}

// ServeHTTP always writes "alive".
func (LiveHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("alive"))
}
