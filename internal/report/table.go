package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
)

// WriteTable renders the report as an aligned text table for terminal output.
func WriteTable(w io.Writer, r *Report) error {
	fmt.Fprintf(w, "Trajectory: %s\n", r.Trajectory)
	fmt.Fprintf(w, "Run:        %s\n", r.RunID)
	fmt.Fprintf(w, "Generated:  %s\n", r.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"))
	fmt.Fprintf(w, "Pixels:     %d (%d cloudy, %.1f%% cloud fraction)\n",
		r.Summary.Pixels, r.Summary.CloudyPixels, r.Summary.CloudFraction*100)
	fmt.Fprintf(w, "Segments:   %d\n\n", r.Summary.SegmentCount)

	if len(r.Segments) > 0 {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
		header := "ID\tSTART\tEND\tPIXELS\tLENGTH(" + r.Units + ")\t"
		if r.HasIndex {
			header += "IDX START\tIDX END\t"
		}
		if r.HasValues {
			header += "VAL SUM\tVAL MEAN\tVAL MIN\tVAL MAX\t"
		}
		fmt.Fprintln(tw, header)
		for _, seg := range r.Segments {
			row := fmt.Sprintf("%d\t%d\t%d\t%d\t%.3f\t", seg.ID, seg.Start, seg.End, seg.Pixels, seg.Length)
			if r.HasIndex {
				row += fmt.Sprintf("%g\t%g\t", seg.IndexStart, seg.IndexEnd)
			}
			if r.HasValues {
				row += fmt.Sprintf("%.3f\t%.3f\t%.3f\t%.3f\t", seg.ValueSum, seg.ValueMean, seg.ValueMin, seg.ValueMax)
			}
			fmt.Fprintln(tw, row)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Length distribution (%s): mean %.3f  stddev %.3f  max %.3f",
		r.Units, r.Summary.MeanLength, r.Summary.StdDevLength, r.Summary.MaxLength)
	for _, key := range sortedPercentileKeys(r.Summary.Percentiles) {
		fmt.Fprintf(w, "  %s %.3f", key, r.Summary.Percentiles[key])
	}
	fmt.Fprintln(w)
	return nil
}

// sortedPercentileKeys orders keys like p50, p85, p98 numerically.
func sortedPercentileKeys(percentiles map[string]float64) []string {
	keys := make([]string, 0, len(percentiles))
	for k := range percentiles {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		pi, _ := strconv.ParseFloat(strings.TrimPrefix(keys[i], "p"), 64)
		pj, _ := strconv.ParseFloat(strings.TrimPrefix(keys[j], "p"), 64)
		return pi < pj
	})
	return keys
}
