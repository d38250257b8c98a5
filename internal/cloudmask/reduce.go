package cloudmask

import (
	"fmt"
	"math"
)

// Built-in reduction names accepted by Reduce.
const (
	ReduceSum   = "sum"
	ReduceCount = "count"
	ReduceMean  = "mean"
	ReduceMin   = "min"
	ReduceMax   = "max"
)

// ValidReductions lists the accepted reduction names for error messages.
const ValidReductions = ReduceSum + ", " + ReduceCount + ", " + ReduceMean + ", " + ReduceMin + ", " + ReduceMax

// IsValidReduction reports whether name is a built-in reduction.
func IsValidReduction(name string) bool {
	switch name {
	case ReduceSum, ReduceCount, ReduceMean, ReduceMin, ReduceMax:
		return true
	}
	return false
}

// CombineFunc folds one pixel value into a segment accumulator. It must be
// insensitive to the order pixels arrive in.
type CombineFunc func(acc, v float64) float64

// Reduce aggregates values per segment and returns the result keyed by
// segment id. values must align with the mask pixel for pixel; a length
// mismatch reports ErrShapeMismatch. includeClear keeps the clear-segment
// entries in the result, otherwise only cloudy segments appear. An empty mask
// yields an empty map.
//
// mean is the grouped sum divided by the grouped count, both computed with
// the same accumulate pass as every other reduction.
func (m Mask) Reduce(values []float64, reduction string, includeClear bool) (map[int]float64, error) {
	if len(values) != len(m) {
		return nil, fmt.Errorf("%w: %d values for %d pixels", ErrShapeMismatch, len(values), len(m))
	}
	if len(m) == 0 {
		return map[int]float64{}, nil
	}
	ids := m.SegmentIDs()
	var out map[int]float64
	switch reduction {
	case ReduceSum:
		out = groupReduce(ids, values, 0, func(acc, v float64) float64 { return acc + v })
	case ReduceCount:
		out = groupReduce(ids, values, 0, func(acc, _ float64) float64 { return acc + 1 })
	case ReduceMean:
		sums := groupReduce(ids, values, 0, func(acc, v float64) float64 { return acc + v })
		counts := groupReduce(ids, values, 0, func(acc, _ float64) float64 { return acc + 1 })
		out = make(map[int]float64, len(sums))
		for id, sum := range sums {
			out[id] = sum / counts[id]
		}
	case ReduceMin:
		out = groupReduce(ids, values, math.Inf(1), math.Min)
	case ReduceMax:
		out = groupReduce(ids, values, math.Inf(-1), math.Max)
	default:
		return nil, fmt.Errorf("unknown reduction %q (valid reductions: %s)", reduction, ValidReductions)
	}
	m.dropClear(ids, out, includeClear)
	return out, nil
}

// ReduceWith aggregates values per segment with a caller-supplied combine
// function, starting each segment accumulator at init. Shape and emptiness
// behave as in Reduce.
func (m Mask) ReduceWith(values []float64, init float64, combine CombineFunc, includeClear bool) (map[int]float64, error) {
	if len(values) != len(m) {
		return nil, fmt.Errorf("%w: %d values for %d pixels", ErrShapeMismatch, len(values), len(m))
	}
	if len(m) == 0 {
		return map[int]float64{}, nil
	}
	ids := m.SegmentIDs()
	out := groupReduce(ids, values, init, combine)
	m.dropClear(ids, out, includeClear)
	return out, nil
}

// groupReduce folds every value into the accumulator of the id it carries.
// Each element contributes exactly once; an indexed write that keeps only the
// last value per id would collapse multi-pixel segments, so the fold below is
// the one aggregation primitive every reduction goes through.
func groupReduce(ids []int, values []float64, init float64, combine CombineFunc) map[int]float64 {
	out := make(map[int]float64)
	for i, id := range ids {
		acc, seen := out[id]
		if !seen {
			acc = init
		}
		out[id] = combine(acc, values[i])
	}
	return out
}

func (m Mask) dropClear(ids []int, out map[int]float64, includeClear bool) {
	if includeClear {
		return
	}
	for i, id := range ids {
		if !m[i] {
			delete(out, id)
		}
	}
}
