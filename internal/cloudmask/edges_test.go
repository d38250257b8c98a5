package cloudmask

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEdges(t *testing.T) {
	tests := []struct {
		mask string
		want []int8
	}{
		{"", []int8{}},
		{".", []int8{0, 0}},
		{"T", []int8{1, -1}},
		{"..", []int8{0, 0, 0}},
		{"TT", []int8{1, 0, -1}},
		{".T", []int8{0, 1, -1}},
		{"T.", []int8{1, -1, 0}},
		{"T.T", []int8{1, -1, 1, -1}},
		{"..TT", []int8{0, 0, 1, 0, -1}},
		{"TT..", []int8{1, 0, -1, 0, 0}},
		{"..TTTT...TT....TTT..", []int8{0, 0, 1, 0, 0, 0, -1, 0, 0, 1, 0, -1, 0, 0, 0, 1, 0, 0, -1, 0, 0}},
	}
	for _, tt := range tests {
		got := maskOf(tt.mask).Edges()
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Edges(%q) mismatch (-want +got):\n%s", tt.mask, diff)
		}
		if tt.mask != "" && len(got) != len(tt.mask)+1 {
			t.Errorf("Edges(%q) has %d entries, want %d", tt.mask, len(got), len(tt.mask)+1)
		}
	}
}

// Edge detection must never mutate the mask it reads.
func TestEdgesLeavesMaskIntact(t *testing.T) {
	m := maskOf("..TTTT...TT....TTT..")
	want := append(Mask{}, m...)
	m.Edges()
	m.SegmentIDs()
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("mask mutated (-want +got):\n%s", diff)
	}
}

func TestEdgesStartsAndEndsBalance(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	masks := []Mask{
		maskOf(""),
		maskOf("T"),
		maskOf("."),
		maskOf("TTTTT"),
		maskOf("..TTTT...TT....TTT.."),
	}
	for i := 0; i < 50; i++ {
		m := make(Mask, rng.Intn(64))
		for j := range m {
			m[j] = rng.Intn(2) == 1
		}
		masks = append(masks, m)
	}
	for _, m := range masks {
		var ups, downs int
		for _, e := range m.Edges() {
			switch e {
			case 1:
				ups++
			case -1:
				downs++
			}
		}
		if ups != downs {
			t.Errorf("mask %v: %d starts vs %d ends", m, ups, downs)
		}

		starts, ends, err := m.CloudBounds()
		if err != nil {
			t.Fatalf("CloudBounds(%v) returned error: %v", m, err)
		}
		if len(starts) != len(ends) {
			t.Fatalf("CloudBounds(%v): %d starts vs %d ends", m, len(starts), len(ends))
		}
		for k := range starts {
			if starts[k] >= ends[k] {
				t.Errorf("mask %v: run %d has start %d >= end %d", m, k, starts[k], ends[k])
			}
			if k > 0 && starts[k] < ends[k-1] {
				t.Errorf("mask %v: run %d overlaps previous run", m, k)
			}
		}
	}
}

func TestCloudBounds(t *testing.T) {
	starts, ends, err := maskOf("..TTTT...TT....TTT..").CloudBounds()
	if err != nil {
		t.Fatalf("CloudBounds returned error: %v", err)
	}
	if diff := cmp.Diff([]int{2, 9, 15}, starts); diff != "" {
		t.Errorf("starts mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{6, 11, 18}, ends); diff != "" {
		t.Errorf("ends mismatch (-want +got):\n%s", diff)
	}
}

// Round trip: run boundaries plus the pixel count reconstruct the mask.
func TestCloudBoundsRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	masks := []Mask{
		maskOf(""),
		maskOf("T"),
		maskOf("TTTTT"),
		maskOf("T...T"),
		maskOf("..TTTT...TT....TTT.."),
	}
	for i := 0; i < 50; i++ {
		m := make(Mask, rng.Intn(64))
		for j := range m {
			m[j] = rng.Intn(2) == 1
		}
		masks = append(masks, m)
	}
	for _, m := range masks {
		starts, ends, err := m.CloudBounds()
		if err != nil {
			t.Fatalf("CloudBounds(%v) returned error: %v", m, err)
		}
		back, err := FromRuns(starts, ends, len(m))
		if err != nil {
			t.Fatalf("FromRuns(%v, %v, %d) returned error: %v", starts, ends, len(m), err)
		}
		if diff := cmp.Diff(m, back); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}
