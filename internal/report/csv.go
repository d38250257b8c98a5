package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteCSV exports the per-segment rows as CSV. Index and value columns
// appear only when the source trajectory carried them.
func WriteCSV(w io.Writer, r *Report) error {
	cw := csv.NewWriter(w)

	header := []string{"id", "start", "end", "pixels", "length_" + r.Units}
	if r.HasIndex {
		header = append(header, "index_start", "index_end")
	}
	if r.HasValues {
		header = append(header, "value_sum", "value_mean", "value_min", "value_max")
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, seg := range r.Segments {
		row := []string{
			strconv.Itoa(seg.ID),
			strconv.Itoa(seg.Start),
			strconv.Itoa(seg.End),
			strconv.Itoa(seg.Pixels),
			formatFloat(seg.Length),
		}
		if r.HasIndex {
			row = append(row, formatFloat(seg.IndexStart), formatFloat(seg.IndexEnd))
		}
		if r.HasValues {
			row = append(row, formatFloat(seg.ValueSum), formatFloat(seg.ValueMean),
				formatFloat(seg.ValueMin), formatFloat(seg.ValueMax))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row for segment %d: %w", seg.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
