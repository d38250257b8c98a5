// Package report builds per-segment tables and length distribution summaries
// from a cloud mask and optional auxiliary values. It consumes only the
// public cloudmask surface; the derived sequences are recomputed on every
// build and never stored.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/eurec4a/cloudseg/internal/cloudmask"
	"github.com/eurec4a/cloudseg/internal/config"
	"github.com/eurec4a/cloudseg/internal/timeutil"
	"github.com/eurec4a/cloudseg/internal/trajectory"
	"github.com/eurec4a/cloudseg/internal/units"
)

// Options controls units and distribution statistics of a report.
type Options struct {
	Units        string    // px, m or km
	PixelSpacing float64   // along-track meters per pixel
	Percentiles  []float64 // quantiles of the segment length distribution
}

// OptionsFromConfig derives report options from an analysis config.
func OptionsFromConfig(cfg *config.AnalysisConfig) Options {
	return Options{
		Units:        cfg.GetUnits(),
		PixelSpacing: cfg.GetPixelSpacingM(),
		Percentiles:  cfg.GetPercentiles(),
	}
}

func (o Options) withDefaults() Options {
	if o.Units == "" {
		o.Units = units.PX
	}
	if o.PixelSpacing == 0 {
		o.PixelSpacing = 1
	}
	if len(o.Percentiles) == 0 {
		o.Percentiles = []float64{0.5, 0.85, 0.98}
	}
	return o
}

// SegmentRow is one cloudy segment with its aggregates. The value columns are
// meaningful only when the parent report's HasValues is set, the index
// columns only when HasIndex is set.
type SegmentRow struct {
	ID         int     `json:"id"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Pixels     int     `json:"pixels"`
	Length     float64 `json:"length"`
	IndexStart float64 `json:"index_start"`
	IndexEnd   float64 `json:"index_end"`
	ValueSum   float64 `json:"value_sum"`
	ValueMean  float64 `json:"value_mean"`
	ValueMin   float64 `json:"value_min"`
	ValueMax   float64 `json:"value_max"`
}

// Summary describes the distribution of cloudy segment lengths across the
// trajectory. Lengths are in the report's units.
type Summary struct {
	Pixels        int                `json:"pixels"`
	CloudyPixels  int                `json:"cloudy_pixels"`
	CloudFraction float64            `json:"cloud_fraction"`
	SegmentCount  int                `json:"segment_count"`
	MeanLength    float64            `json:"mean_length"`
	StdDevLength  float64            `json:"stddev_length"`
	MaxLength     float64            `json:"max_length"`
	Percentiles   map[string]float64 `json:"percentiles"`
}

// Report is the full analysis result for one trajectory.
type Report struct {
	RunID       string       `json:"run_id"`
	Trajectory  string       `json:"trajectory"`
	GeneratedAt time.Time    `json:"generated_at"`
	Units       string       `json:"units"`
	HasIndex    bool         `json:"has_index"`
	HasValues   bool         `json:"has_values"`
	Segments    []SegmentRow `json:"segments"`
	Summary     Summary      `json:"summary"`
}

// Build analyses one trajectory. The series flag column is coerced to a mask,
// cloudy segments are detected and, when a value column is present, reduced
// per segment. Validation failures surface unchanged from the cloudmask
// package.
func Build(series *trajectory.Series, opts Options, clock timeutil.Clock) (*Report, error) {
	opts = opts.withDefaults()

	if err := series.Validate(); err != nil {
		return nil, err
	}
	mask, err := series.Mask()
	if err != nil {
		return nil, err
	}
	segs, err := mask.CloudSegments()
	if err != nil {
		return nil, err
	}

	r := &Report{
		RunID:       uuid.NewString(),
		Trajectory:  series.Name,
		GeneratedAt: clock.Now().UTC(),
		Units:       opts.Units,
		HasIndex:    series.HasIndex(),
		HasValues:   series.HasValues(),
		Segments:    make([]SegmentRow, 0, len(segs)),
	}

	var sums, means, mins, maxs map[int]float64
	if r.HasValues {
		if sums, err = mask.Reduce(series.Values, cloudmask.ReduceSum, false); err != nil {
			return nil, err
		}
		if means, err = mask.Reduce(series.Values, cloudmask.ReduceMean, false); err != nil {
			return nil, err
		}
		if mins, err = mask.Reduce(series.Values, cloudmask.ReduceMin, false); err != nil {
			return nil, err
		}
		if maxs, err = mask.Reduce(series.Values, cloudmask.ReduceMax, false); err != nil {
			return nil, err
		}
	}

	lengths := make([]float64, 0, len(segs))
	for _, seg := range segs {
		row := SegmentRow{
			ID:     seg.ID,
			Start:  seg.Start,
			End:    seg.End,
			Pixels: seg.Len(),
			Length: units.ConvertLength(float64(seg.Len()), opts.PixelSpacing, opts.Units),
		}
		if r.HasIndex {
			row.IndexStart = series.Index[seg.Start]
			row.IndexEnd = series.Index[seg.End-1]
		}
		if r.HasValues {
			row.ValueSum = sums[seg.ID]
			row.ValueMean = means[seg.ID]
			row.ValueMin = mins[seg.ID]
			row.ValueMax = maxs[seg.ID]
		}
		r.Segments = append(r.Segments, row)
		lengths = append(lengths, row.Length)
	}

	r.Summary = summarize(mask, lengths, opts)
	return r, nil
}

func summarize(mask cloudmask.Mask, lengths []float64, opts Options) Summary {
	s := Summary{
		Pixels:        len(mask),
		CloudyPixels:  mask.CountCloudy(),
		CloudFraction: mask.CloudFraction(),
		SegmentCount:  len(lengths),
		Percentiles:   make(map[string]float64, len(opts.Percentiles)),
	}
	if len(lengths) == 0 {
		for _, p := range opts.Percentiles {
			s.Percentiles[percentileKey(p)] = 0
		}
		return s
	}

	s.MeanLength = stat.Mean(lengths, nil)
	s.StdDevLength = 0
	if len(lengths) > 1 {
		s.StdDevLength = stat.StdDev(lengths, nil)
	}
	s.MaxLength = floats.Max(lengths)

	sorted := make([]float64, len(lengths))
	copy(sorted, lengths)
	sort.Float64s(sorted)
	for _, p := range opts.Percentiles {
		s.Percentiles[percentileKey(p)] = stat.Quantile(p, stat.Empirical, sorted, nil)
	}
	return s
}

func percentileKey(p float64) string {
	return fmt.Sprintf("p%g", p*100)
}
