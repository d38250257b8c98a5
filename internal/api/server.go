// Package api exposes cloud segmentation over HTTP: a stateless analyze
// endpoint plus CRUD, report, and chart routes for stored trajectories.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/eurec4a/cloudseg/internal/config"
	"github.com/eurec4a/cloudseg/internal/db"
	"github.com/eurec4a/cloudseg/internal/httputil"
	"github.com/eurec4a/cloudseg/internal/monitoring"
	"github.com/eurec4a/cloudseg/internal/timeutil"
	"github.com/eurec4a/cloudseg/internal/version"
)

// ANSI escape codes for cyan and reset
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

type Server struct {
	database *db.DB
	store    *db.TrajectoryStore
	cfg      *config.AnalysisConfig
	clock    timeutil.Clock
}

func NewServer(database *db.DB, cfg *config.AnalysisConfig, clock timeutil.Clock) *Server {
	return &Server{
		database: database,
		store:    db.NewTrajectoryStore(database),
		cfg:      cfg,
		clock:    clock,
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		monitoring.Logf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/analyze", s.handleAnalyze)
	mux.HandleFunc("/api/trajectories", s.handleTrajectories)
	mux.HandleFunc("/api/trajectories/", s.handleTrajectoryByID)
	mux.HandleFunc("/api/version", s.showVersion)
	mux.HandleFunc("/healthz", s.healthz)
	return mux
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	if s.database != nil {
		if err := s.database.Ping(); err != nil {
			httputil.WriteJSONError(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
	}

	httputil.WriteJSONOK(w, map[string]string{"status": "ok"})
}

func (s *Server) showVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	httputil.WriteJSONOK(w, map[string]string{
		"version":    version.Version,
		"git_sha":    version.GitSHA,
		"build_time": version.BuildTime,
	})
}
