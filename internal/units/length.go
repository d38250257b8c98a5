// Package units provides shared constants and validation for along-track length units
package units

// Unit constants
const (
	PX = "px"
	M  = "m"
	KM = "km"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{PX, M, KM}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "px, m, km"
}

// ConvertLength converts a pixel count to the target units given the
// along-track pixel spacing in meters. Segment lengths are always computed in
// pixels; conversion happens only at display time.
func ConvertLength(pixels float64, spacingM float64, targetUnits string) float64 {
	switch targetUnits {
	case M:
		return pixels * spacingM
	case KM:
		return pixels * spacingM / 1000.0
	case PX:
		return pixels // no conversion needed
	default:
		return pixels // default to pixels if unknown unit
	}
}
