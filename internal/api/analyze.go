package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/eurec4a/cloudseg/internal/cloudmask"
	"github.com/eurec4a/cloudseg/internal/httputil"
	"github.com/eurec4a/cloudseg/internal/report"
	"github.com/eurec4a/cloudseg/internal/trajectory"
)

// AnalyzeRequest is the request body for the stateless analyze endpoint.
// cloud_flags uses 0/1 numbers so JSON bodies can carry the flag column
// exactly as it appears in the source data files.
type AnalyzeRequest struct {
	Name         string    `json:"name,omitempty"`
	CloudFlags   []float64 `json:"cloud_flags"`
	Index        []float64 `json:"index,omitempty"`
	Values       []float64 `json:"values,omitempty"`
	Reduction    string    `json:"reduction,omitempty"`
	IncludeClear bool      `json:"include_clear,omitempty"`
	Units        string    `json:"units,omitempty"`
	PixelSpacing float64   `json:"pixel_spacing_m,omitempty"`
}

// AnalyzeResponse carries every derived sequence for the submitted mask. The
// reduction map is present only when a reduction was requested.
type AnalyzeResponse struct {
	Edges        []int8          `json:"edges"`
	SegmentIDs   []int           `json:"segment_ids"`
	Starts       []int           `json:"starts"`
	Ends         []int           `json:"ends"`
	CloudLengths []int           `json:"cloud_lengths"`
	Reduction    map[int]float64 `json:"reduction,omitempty"`
	Report       *report.Report  `json:"report"`
}

// handleAnalyze runs the full segmentation on a mask supplied in the request
// body without persisting anything.
//
// Routes:
// - POST /api/analyze — edges, segment ids, run bounds, lengths, reductions, report
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.BadRequest(w, fmt.Sprintf("invalid JSON: %v", err))
		return
	}

	if req.Reduction != "" && !cloudmask.IsValidReduction(req.Reduction) {
		httputil.BadRequest(w, fmt.Sprintf("unknown reduction %q (valid reductions: %s)", req.Reduction, cloudmask.ValidReductions))
		return
	}

	series := &trajectory.Series{
		Name:   req.Name,
		Flags:  req.CloudFlags,
		Index:  req.Index,
		Values: req.Values,
	}
	if series.Name == "" {
		series.Name = "adhoc"
	}

	mask, err := series.Mask()
	if err != nil {
		writeAnalysisError(w, err)
		return
	}
	starts, ends, err := mask.CloudBounds()
	if err != nil {
		writeAnalysisError(w, err)
		return
	}
	lengths, err := mask.CloudLengths()
	if err != nil {
		writeAnalysisError(w, err)
		return
	}

	var reduction map[int]float64
	if req.Reduction != "" {
		values := series.Values
		if !series.HasValues() {
			// count is well defined without a value column
			if req.Reduction != cloudmask.ReduceCount {
				httputil.BadRequest(w, fmt.Sprintf("reduction %q requires a values column", req.Reduction))
				return
			}
			values = make([]float64, series.Pixels())
		}
		reduction, err = mask.Reduce(values, req.Reduction, req.IncludeClear)
		if err != nil {
			writeAnalysisError(w, err)
			return
		}
	}

	opts := report.OptionsFromConfig(s.cfg)
	if req.Units != "" {
		opts.Units = req.Units
	}
	if req.PixelSpacing != 0 {
		opts.PixelSpacing = req.PixelSpacing
	}
	rep, err := report.Build(series, opts, s.clock)
	if err != nil {
		writeAnalysisError(w, err)
		return
	}

	httputil.WriteJSONOK(w, AnalyzeResponse{
		Edges:        mask.Edges(),
		SegmentIDs:   mask.SegmentIDs(),
		Starts:       starts,
		Ends:         ends,
		CloudLengths: lengths,
		Reduction:    reduction,
		Report:       rep,
	})
}

// writeAnalysisError maps validation failures to 400 and everything else
// to 500.
func writeAnalysisError(w http.ResponseWriter, err error) {
	if errors.Is(err, cloudmask.ErrInvalidMask) || errors.Is(err, cloudmask.ErrShapeMismatch) {
		httputil.BadRequest(w, err.Error())
		return
	}
	httputil.InternalServerError(w, err.Error())
}
