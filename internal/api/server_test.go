package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eurec4a/cloudseg/internal/config"
	"github.com/eurec4a/cloudseg/internal/db"
	"github.com/eurec4a/cloudseg/internal/monitoring"
	"github.com/eurec4a/cloudseg/internal/timeutil"
)

// newTestServer returns a server backed by a migrated temp database and a
// fixed clock.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "api-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, database.MigrateUp())

	clock := timeutil.NewMockClock(time.Date(2026, 2, 5, 14, 0, 0, 0, time.UTC))
	return NewServer(database, config.EmptyAnalysisConfig(), clock)
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func TestHealthz(t *testing.T) {
	mux := newTestServer(t).ServeMux()

	rec := doJSON(t, mux, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	decodeJSON(t, rec, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestHealthzMethodNotAllowed(t *testing.T) {
	mux := newTestServer(t).ServeMux()

	rec := doJSON(t, mux, http.MethodPost, "/healthz", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestShowVersion(t *testing.T) {
	mux := newTestServer(t).ServeMux()

	rec := doJSON(t, mux, http.MethodGet, "/api/version", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	decodeJSON(t, rec, &body)
	assert.Contains(t, body, "version")
	assert.Contains(t, body, "git_sha")
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	monitoring.SetLogger(func(format string, v ...interface{}) {
		fmt.Fprintf(&buf, format+"\n", v...)
	})
	defer monitoring.SetLogger(log.Printf)

	handler := LoggingMiddleware(newTestServer(t).ServeMux())
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	logged := buf.String()
	assert.Contains(t, logged, "GET")
	assert.Contains(t, logged, "/healthz")
	assert.Contains(t, logged, "200")
}

func TestStatusCodeColor(t *testing.T) {
	tests := []struct {
		code  int
		color string
	}{
		{200, colorBoldGreen},
		{302, colorYellow},
		{404, colorBoldRed},
		{500, colorBoldRed},
	}

	for _, tt := range tests {
		got := statusCodeColor(tt.code)
		if !strings.HasPrefix(got, tt.color) {
			t.Errorf("statusCodeColor(%d) = %q, want prefix %q", tt.code, got, tt.color)
		}
		if !strings.Contains(got, fmt.Sprint(tt.code)) {
			t.Errorf("statusCodeColor(%d) = %q, missing code", tt.code, got)
		}
	}
}
