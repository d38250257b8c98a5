package cloudmask

import "errors"

var (
	// ErrShapeMismatch reports aligned arrays whose lengths differ.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrInvalidMask reports flag values that are not boolean, or run
	// boundaries that do not pair into disjoint intervals.
	ErrInvalidMask = errors.New("invalid mask")
)
