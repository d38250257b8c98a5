package cloudmask

// Segment describes one maximal run of identical mask values as the half-open
// pixel interval [Start, End).
type Segment struct {
	ID     int
	Start  int
	End    int
	Cloudy bool
}

// Len returns the segment length in pixels.
func (s Segment) Len() int { return s.End - s.Start }

// SegmentIDs labels every pixel with the id of the run it belongs to. Ids are
// the running count of boundaries seen so far (the cumulative sum of absolute
// edge values), so pixels of one run share an id and successive runs get
// strictly increasing ids. A mask starting cloudy numbers its first run 1, one
// starting clear numbers it 0.
func (m Mask) SegmentIDs() []int {
	ids := make([]int, len(m))
	if len(m) == 0 {
		return ids
	}
	edges := m.Edges()
	run := 0
	for i := range m {
		if edges[i] != 0 {
			run++
		}
		ids[i] = run
	}
	return ids
}

// Segments returns descriptors for every run, cloudy and clear, in
// trajectory order.
func (m Mask) Segments() []Segment {
	segs := []Segment{}
	if len(m) == 0 {
		return segs
	}
	ids := m.SegmentIDs()
	start := 0
	for i := 1; i <= len(m); i++ {
		if i == len(m) || ids[i] != ids[start] {
			segs = append(segs, Segment{ID: ids[start], Start: start, End: i, Cloudy: m[start]})
			start = i
		}
	}
	return segs
}

// CloudSegments returns descriptors for the cloudy runs only, built from the
// validated run boundaries.
func (m Mask) CloudSegments() ([]Segment, error) {
	starts, ends, err := m.CloudBounds()
	if err != nil {
		return nil, err
	}
	ids := m.SegmentIDs()
	segs := make([]Segment, 0, len(starts))
	for k := range starts {
		segs = append(segs, Segment{ID: ids[starts[k]], Start: starts[k], End: ends[k], Cloudy: true})
	}
	return segs, nil
}

// CloudLengths returns the pixel length of each cloudy run in trajectory
// order. An empty mask yields an empty slice.
func (m Mask) CloudLengths() ([]int, error) {
	segs, err := m.CloudSegments()
	if err != nil {
		return nil, err
	}
	lengths := make([]int, 0, len(segs))
	for _, s := range segs {
		lengths = append(lengths, s.Len())
	}
	return lengths, nil
}
