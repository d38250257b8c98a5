package trajectory

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Columns names the CSV columns a trajectory is read from. Empty fields fall
// back to the defaults.
type Columns struct {
	Flag  string
	Value string
	Index string
}

// DefaultColumns returns the column names used when a config names none.
func DefaultColumns() Columns {
	return Columns{Flag: "cloud_flag", Value: "value", Index: "time"}
}

func (c Columns) withDefaults() Columns {
	d := DefaultColumns()
	if c.Flag == "" {
		c.Flag = d.Flag
	}
	if c.Value == "" {
		c.Value = d.Value
	}
	if c.Index == "" {
		c.Index = d.Index
	}
	return c
}

// ReadCSV parses a header-addressed CSV stream into a Series. The flag column
// must exist; the value and index columns are picked up when present and
// skipped otherwise. Ragged rows and non-numeric cells are rejected with the
// offending row and column named.
func ReadCSV(r io.Reader, name string, cols Columns) (*Series, error) {
	cols = cols.withDefaults()

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty CSV: no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	flagIdx, valueIdx, indexIdx := -1, -1, -1
	for i, h := range header {
		switch h {
		case cols.Flag:
			flagIdx = i
		case cols.Value:
			valueIdx = i
		case cols.Index:
			indexIdx = i
		}
	}
	if flagIdx == -1 {
		return nil, fmt.Errorf("flag column %q not found in CSV header %v", cols.Flag, header)
	}

	s := &Series{Name: name}
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// the csv reader rejects ragged rows itself
			return nil, fmt.Errorf("failed to read CSV row %d: %w", row, err)
		}

		flag, err := parseCell(rec, flagIdx, cols.Flag, row)
		if err != nil {
			return nil, err
		}
		s.Flags = append(s.Flags, flag)

		if valueIdx != -1 {
			v, err := parseCell(rec, valueIdx, cols.Value, row)
			if err != nil {
				return nil, err
			}
			s.Values = append(s.Values, v)
		}
		if indexIdx != -1 {
			v, err := parseCell(rec, indexIdx, cols.Index, row)
			if err != nil {
				return nil, err
			}
			s.Index = append(s.Index, v)
		}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// ReadCSVFile opens path and parses it with ReadCSV, naming the series after
// the file unless name is non-empty.
func ReadCSVFile(path, name string, cols Columns) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trajectory file: %w", err)
	}
	defer f.Close()

	if name == "" {
		name = path
	}
	s, err := ReadCSV(f, name, cols)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func parseCell(rec []string, idx int, col string, row int) (float64, error) {
	v, err := strconv.ParseFloat(rec[idx], 64)
	if err != nil {
		return 0, fmt.Errorf("row %d, column %q: invalid number %q", row, col, rec[idx])
	}
	return v, nil
}
