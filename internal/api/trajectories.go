package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/eurec4a/cloudseg/internal/chart"
	"github.com/eurec4a/cloudseg/internal/db"
	"github.com/eurec4a/cloudseg/internal/httputil"
	"github.com/eurec4a/cloudseg/internal/report"
	"github.com/eurec4a/cloudseg/internal/security"
	"github.com/eurec4a/cloudseg/internal/trajectory"
	"github.com/eurec4a/cloudseg/internal/units"
)

// Trajectory persistence and derived views.
//
// Routes:
// - GET /api/trajectories — list stored trajectories
// - POST /api/trajectories — ingest a trajectory
// - GET /api/trajectories/{id} — metadata plus the raw columns
// - DELETE /api/trajectories/{id} — remove a trajectory
// - GET /api/trajectories/{id}/report — segmentation report (json, csv or table)
// - GET /api/trajectories/{id}/chart — interactive overview page

// handleTrajectories handles /api/trajectories (list and create).
func (s *Server) handleTrajectories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListTrajectories(w, r)
	case http.MethodPost:
		s.handleCreateTrajectory(w, r)
	default:
		httputil.MethodNotAllowed(w)
	}
}

// handleTrajectoryByID handles /api/trajectories/{id}/* routes.
func (s *Server) handleTrajectoryByID(w http.ResponseWriter, r *http.Request) {
	trajectoryID, action := parseTrajectoryPath(r.URL.Path)
	if trajectoryID == "" {
		httputil.BadRequest(w, "missing trajectory id in path")
		return
	}

	switch action {
	case "":
		switch r.Method {
		case http.MethodGet:
			s.handleGetTrajectory(w, r, trajectoryID)
		case http.MethodDelete:
			s.handleDeleteTrajectory(w, r, trajectoryID)
		default:
			httputil.MethodNotAllowed(w)
		}
	case "report":
		if r.Method == http.MethodGet {
			s.handleTrajectoryReport(w, r, trajectoryID)
		} else {
			httputil.MethodNotAllowed(w)
		}
	case "chart":
		if r.Method == http.MethodGet {
			s.handleTrajectoryChart(w, r, trajectoryID)
		} else {
			httputil.MethodNotAllowed(w)
		}
	default:
		httputil.NotFound(w, "endpoint not found")
	}
}

// parseTrajectoryPath extracts id and action from /api/trajectories/{id}/{action}
func parseTrajectoryPath(path string) (trajectoryID string, action string) {
	trimmed := strings.TrimPrefix(path, "/api/trajectories/")
	if trimmed == path {
		return "", ""
	}
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) == 0 {
		return "", ""
	}
	trajectoryID = parts[0]
	if len(parts) > 1 {
		action = parts[1]
	}
	return
}

func (s *Server) handleListTrajectories(w http.ResponseWriter, r *http.Request) {
	trajs, err := s.store.List()
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to list trajectories: %v", err))
		return
	}

	// Ensure we return an empty array instead of null when no trajectories
	if trajs == nil {
		trajs = []*db.Trajectory{}
	}

	httputil.WriteJSONOK(w, map[string]interface{}{
		"trajectories": trajs,
		"count":        len(trajs),
	})
}

// CreateTrajectoryRequest is the request body for ingesting a trajectory.
type CreateTrajectoryRequest struct {
	Name       string    `json:"name"`
	CloudFlags []float64 `json:"cloud_flags"`
	Index      []float64 `json:"index,omitempty"`
	Values     []float64 `json:"values,omitempty"`
}

func (s *Server) handleCreateTrajectory(w http.ResponseWriter, r *http.Request) {
	var req CreateTrajectoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.BadRequest(w, fmt.Sprintf("invalid JSON: %v", err))
		return
	}

	if req.Name == "" {
		httputil.BadRequest(w, "name is required")
		return
	}

	series := &trajectory.Series{
		Name:   req.Name,
		Flags:  req.CloudFlags,
		Index:  req.Index,
		Values: req.Values,
	}

	// Reject malformed input before it reaches the store; only clean raw
	// samples are persisted.
	if err := series.Validate(); err != nil {
		writeAnalysisError(w, err)
		return
	}
	if _, err := series.Mask(); err != nil {
		writeAnalysisError(w, err)
		return
	}

	traj, err := s.store.Save(series, "api")
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to save trajectory: %v", err))
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, traj)
}

func (s *Server) handleGetTrajectory(w http.ResponseWriter, r *http.Request, trajectoryID string) {
	traj, series, err := s.store.Get(trajectoryID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	flags := series.Flags
	if flags == nil {
		flags = []float64{}
	}

	httputil.WriteJSONOK(w, map[string]interface{}{
		"trajectory":  traj,
		"cloud_flags": flags,
		"index":       series.Index,
		"values":      series.Values,
	})
}

func (s *Server) handleDeleteTrajectory(w http.ResponseWriter, r *http.Request, trajectoryID string) {
	if err := s.store.Delete(trajectoryID); err != nil {
		writeStoreError(w, err)
		return
	}

	httputil.WriteJSONOK(w, map[string]string{
		"message": "trajectory deleted",
	})
}

// handleTrajectoryReport recomputes the segmentation report from the stored
// samples. Query parameters: units (px, m, km), spacing (meters per pixel),
// format (json, csv or table).
func (s *Server) handleTrajectoryReport(w http.ResponseWriter, r *http.Request, trajectoryID string) {
	traj, series, err := s.store.Get(trajectoryID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	opts := report.OptionsFromConfig(s.cfg)
	if u := r.URL.Query().Get("units"); u != "" {
		if !units.IsValid(u) {
			httputil.BadRequest(w, fmt.Sprintf("invalid units %q (valid units: %s)", u, units.GetValidUnitsString()))
			return
		}
		opts.Units = u
	}
	if sp := r.URL.Query().Get("spacing"); sp != "" {
		spacing, err := strconv.ParseFloat(sp, 64)
		if err != nil || spacing <= 0 {
			httputil.BadRequest(w, "invalid 'spacing' parameter")
			return
		}
		opts.PixelSpacing = spacing
	}

	rep, err := report.Build(series, opts, s.clock)
	if err != nil {
		writeAnalysisError(w, err)
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		httputil.WriteJSONOK(w, rep)
	case "csv":
		filename := security.SanitizeFilename(traj.Name) + "-report.csv"
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
		if err := report.WriteCSV(w, rep); err != nil {
			httputil.InternalServerError(w, fmt.Sprintf("failed to write csv: %v", err))
		}
	case "table":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := report.WriteTable(w, rep); err != nil {
			httputil.InternalServerError(w, fmt.Sprintf("failed to write table: %v", err))
		}
	default:
		httputil.BadRequest(w, fmt.Sprintf("invalid format %q (valid formats: json, csv, table)", format))
	}
}

func (s *Server) handleTrajectoryChart(w http.ResponseWriter, r *http.Request, trajectoryID string) {
	_, series, err := s.store.Get(trajectoryID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	rep, err := report.Build(series, report.OptionsFromConfig(s.cfg), s.clock)
	if err != nil {
		writeAnalysisError(w, err)
		return
	}

	// Render into a buffer first so a failure can still produce a clean
	// JSON error response.
	var buf bytes.Buffer
	if err := chart.RenderOverview(&buf, series, rep, chart.OptionsFromConfig(s.cfg)); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// writeStoreError maps missing trajectories to 404 and everything else
// to 500.
func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, db.ErrNotFound) {
		httputil.NotFound(w, err.Error())
		return
	}
	httputil.InternalServerError(w, err.Error())
}
