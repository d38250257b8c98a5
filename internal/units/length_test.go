package units

import (
	"testing"

	"github.com/eurec4a/cloudseg/internal/testutil"
)

func TestConvertLength(t *testing.T) {
	tests := []struct {
		name     string
		pixels   float64
		spacingM float64
		units    string
		expected float64
	}{
		{"10 px at 100 m spacing to m", 10.0, 100.0, M, 1000.0},
		{"10 px at 100 m spacing to km", 10.0, 100.0, KM, 1.0},
		{"10 px to px ignores spacing", 10.0, 100.0, PX, 10.0},
		{"unknown units default to px", 10.0, 100.0, "unknown", 10.0},
		{"0 px to m", 0.0, 100.0, M, 0.0},
		{"dropsonde spacing 350 m to km", 4.0, 350.0, KM, 1.4},
		{"fine spacing 7.5 m to m", 3.0, 7.5, M, 22.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ConvertLength(tt.pixels, tt.spacingM, tt.units)
			testutil.AssertInDelta(t, result, tt.expected, 0.0001)
		})
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name     string
		unit     string
		expected bool
	}{
		{"valid px", PX, true},
		{"valid m", M, true},
		{"valid km", KM, true},
		{"invalid unit", "invalid", false},
		{"empty string", "", false},
		{"case sensitive", "KM", false},
		{"case sensitive", "Km", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValid(tt.unit)
			if result != tt.expected {
				t.Errorf("IsValid(%s) = %v, want %v", tt.unit, result, tt.expected)
			}
		})
	}
}

func TestGetValidUnitsString(t *testing.T) {
	expected := "px, m, km"
	result := GetValidUnitsString()
	if result != expected {
		t.Errorf("GetValidUnitsString() = %s, want %s", result, expected)
	}
}
