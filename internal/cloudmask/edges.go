package cloudmask

import "fmt"

// Edges returns the signed boundary sequence of the mask, one entry per
// pixel-to-pixel transition. Entry 0 compares the first pixel against the
// implicitly clear region before the trajectory and entry len(m) compares the
// implicitly clear region after it, so the result has len(m)+1 entries: +1
// marks a clear-to-cloud transition, -1 a cloud-to-clear transition, 0 no
// change. An empty mask yields an empty sequence.
//
// Every +1 is matched by a later -1, so the edge sequence always encodes
// half-open [start, end) cloud runs.
func (m Mask) Edges() []int8 {
	if len(m) == 0 {
		return []int8{}
	}
	edges := make([]int8, len(m)+1)
	edges[0] = bit(m[0])
	for i := 1; i < len(m); i++ {
		edges[i] = bit(m[i]) - bit(m[i-1])
	}
	edges[len(m)] = -bit(m[len(m)-1])
	return edges
}

// CloudBounds extracts the paired run boundaries from the edge sequence:
// starts[k] is the first pixel of run k, ends[k] the pixel one past its last.
// The pairing is validated rather than assumed; a sequence whose starts and
// ends cannot be paired into ordered disjoint intervals reports
// ErrInvalidMask instead of silently truncating.
func (m Mask) CloudBounds() (starts, ends []int, err error) {
	starts = []int{}
	ends = []int{}
	for i, e := range m.Edges() {
		switch e {
		case 1:
			starts = append(starts, i)
		case -1:
			ends = append(ends, i)
		}
	}
	if len(starts) != len(ends) {
		return nil, nil, fmt.Errorf("%w: %d run starts vs %d run ends", ErrInvalidMask, len(starts), len(ends))
	}
	for k := range starts {
		if starts[k] >= ends[k] {
			return nil, nil, fmt.Errorf("%w: run %d ends at %d before starting at %d", ErrInvalidMask, k, ends[k], starts[k])
		}
		if k > 0 && starts[k] < ends[k-1] {
			return nil, nil, fmt.Errorf("%w: run %d starts at %d inside the previous run", ErrInvalidMask, k, starts[k])
		}
	}
	return starts, ends, nil
}

func bit(v bool) int8 {
	if v {
		return 1
	}
	return 0
}
