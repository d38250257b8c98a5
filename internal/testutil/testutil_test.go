package testutil

import (
	"net/http"
	"testing"
)

func TestMustMask(t *testing.T) {
	t.Parallel()

	m := MustMask(t, ".TT.")
	want := []bool{false, true, true, false}
	if len(m) != len(want) {
		t.Fatalf("mask has %d pixels, want %d", len(m), len(want))
	}
	for i := range want {
		if m[i] != want[i] {
			t.Errorf("pixel %d = %v, want %v", i, m[i], want[i])
		}
	}

	if len(MustMask(t, "")) != 0 {
		t.Error("empty literal should give an empty mask")
	}
}

func TestAssertInDelta(t *testing.T) {
	t.Parallel()

	AssertInDelta(t, 1.0000001, 1.0, 1e-3)
	AssertInDelta(t, -2.5, -2.5, 0)
}

func TestAssertStatusCode(t *testing.T) {
	t.Parallel()

	AssertStatusCode(t, http.StatusOK, http.StatusOK)
	AssertStatusCode(t, http.StatusNotFound, http.StatusNotFound)
}

func TestAssertNoError(t *testing.T) {
	t.Parallel()

	AssertNoError(t, nil)
}

func TestNewTestRequest(t *testing.T) {
	t.Parallel()

	req := NewTestRequest("GET", "/api/trajectories")
	if req.Method != "GET" {
		t.Errorf("method = %s, want GET", req.Method)
	}
	if req.URL.Path != "/api/trajectories" {
		t.Errorf("path = %s, want /api/trajectories", req.URL.Path)
	}
}

func TestNewTestRecorder(t *testing.T) {
	t.Parallel()

	if NewTestRecorder() == nil {
		t.Fatal("recorder is nil")
	}
}
