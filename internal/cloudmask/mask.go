// Package cloudmask detects contiguous cloudy segments in 1-D trajectory
// masks and computes per-segment aggregates. All operations are pure: every
// derived sequence is freshly allocated from the input mask, nothing is
// cached, and caller-owned slices are never mutated, so concurrent callers
// need no coordination.
package cloudmask

import "fmt"

// Mask flags each pixel along a trajectory as cloudy (true) or clear (false).
type Mask []bool

// FromBits converts raw 0/1 flag values into a Mask. Any other value,
// including NaN, reports ErrInvalidMask with the offending pixel.
func FromBits(bits []float64) (Mask, error) {
	m := make(Mask, len(bits))
	for i, v := range bits {
		switch v {
		case 0:
			// clear
		case 1:
			m[i] = true
		default:
			return nil, fmt.Errorf("%w: flag %v at pixel %d is not 0 or 1", ErrInvalidMask, v, i)
		}
	}
	return m, nil
}

// FromRuns builds a mask of n pixels with each half-open [start, end) run set
// cloudy. Runs must be ordered, in bounds and non-overlapping; violations
// report ErrInvalidMask. It is the inverse of CloudBounds.
func FromRuns(starts, ends []int, n int) (Mask, error) {
	if len(starts) != len(ends) {
		return nil, fmt.Errorf("%w: %d starts vs %d ends", ErrInvalidMask, len(starts), len(ends))
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: negative pixel count %d", ErrInvalidMask, n)
	}
	m := make(Mask, n)
	prevEnd := 0
	for k := range starts {
		s, e := starts[k], ends[k]
		if s < prevEnd || s >= e || e > n {
			return nil, fmt.Errorf("%w: run %d spans [%d,%d) in a %d-pixel mask", ErrInvalidMask, k, s, e, n)
		}
		for i := s; i < e; i++ {
			m[i] = true
		}
		prevEnd = e
	}
	return m, nil
}

// CountCloudy returns the number of cloudy pixels.
func (m Mask) CountCloudy() int {
	n := 0
	for _, v := range m {
		if v {
			n++
		}
	}
	return n
}

// CloudFraction returns the cloudy share of the mask, 0 for an empty mask.
func (m Mask) CloudFraction() float64 {
	if len(m) == 0 {
		return 0
	}
	return float64(m.CountCloudy()) / float64(len(m))
}
