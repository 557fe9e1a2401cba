package http

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveHealth(t *testing.T, h *HealthHandler) (int, HealthResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
	return rec.Code, body
}

func TestHealthHandler_StorageOnly(t *testing.T) {
	dir := t.TempDir()
	code, body := serveHealth(t, &HealthHandler{UploadDir: dir, Version: "1.2.3", Mode: "racing"})

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, statusHealthy, body.Status)
	assert.Equal(t, "1.2.3", body.Version)
	assert.Equal(t, "racing", body.Mode)
	assert.Equal(t, statusHealthy, body.Checks["storage"].Status)
	assert.NotContains(t, body.Checks, "database")

	// the probe file is removed
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHealthHandler_MissingUploadDir(t *testing.T) {
	code, body := serveHealth(t, &HealthHandler{UploadDir: filepath.Join(t.TempDir(), "missing")})

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, statusUnhealthy, body.Status)
	assert.Equal(t, "upload directory not writable", body.Checks["storage"].Message)
}

func TestHealthHandler_Database(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(sqlmock.Sqlmock)
		wantCode   int
		wantStatus string
	}{
		{
			name:       "reachable",
			setup:      func(m sqlmock.Sqlmock) { m.ExpectPing() },
			wantCode:   http.StatusOK,
			wantStatus: statusHealthy,
		},
		{
			name:       "unreachable",
			setup:      func(m sqlmock.Sqlmock) { m.ExpectPing().WillReturnError(sql.ErrConnDone) },
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: statusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
			require.NoError(t, err)
			defer func() { _ = db.Close() }()
			tt.setup(mock)

			code, body := serveHealth(t, &HealthHandler{DB: db, UploadDir: t.TempDir()})
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantStatus, body.Checks["database"].Status)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestReadyHandler(t *testing.T) {
	t.Run("no database", func(t *testing.T) {
		rec := httptest.NewRecorder()
		(&ReadyHandler{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ready", rec.Body.String())
	})

	t.Run("database down", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer func() { _ = db.Close() }()
		mock.ExpectPing().WillReturnError(sql.ErrConnDone)

		rec := httptest.NewRecorder()
		(&ReadyHandler{DB: db}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestLiveHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	LiveHandler{}.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alive", rec.Body.String())
}
