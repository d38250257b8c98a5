// Package trajectory loads aligned per-pixel trajectory columns for cloud
// segment analysis.
package trajectory

import (
	"fmt"

	"github.com/eurec4a/cloudseg/internal/cloudmask"
)

// Series holds one trajectory's aligned columns. Flags is required; Index
// (along-track coordinate, typically time or distance) and Values (auxiliary
// measurement) are optional and, when present, must align with Flags pixel
// for pixel.
type Series struct {
	Name   string
	Index  []float64
	Flags  []float64
	Values []float64
}

// Pixels returns the trajectory length in pixels.
func (s *Series) Pixels() int { return len(s.Flags) }

// HasIndex reports whether an along-track coordinate column was loaded.
func (s *Series) HasIndex() bool { return len(s.Index) > 0 }

// HasValues reports whether an auxiliary measurement column was loaded.
func (s *Series) HasValues() bool { return len(s.Values) > 0 }

// Validate checks that the optional columns align with the flag column.
func (s *Series) Validate() error {
	if s.HasIndex() && len(s.Index) != len(s.Flags) {
		return fmt.Errorf("index column: %w: %d entries for %d flags", cloudmask.ErrShapeMismatch, len(s.Index), len(s.Flags))
	}
	if s.HasValues() && len(s.Values) != len(s.Flags) {
		return fmt.Errorf("value column: %w: %d entries for %d flags", cloudmask.ErrShapeMismatch, len(s.Values), len(s.Flags))
	}
	return nil
}

// Mask coerces the raw flag column into a cloud mask. Flags other than
// exactly 0 or 1 report ErrInvalidMask.
func (s *Series) Mask() (cloudmask.Mask, error) {
	return cloudmask.FromBits(s.Flags)
}
