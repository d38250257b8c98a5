package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/eurec4a/cloudseg/internal/units"
)

// DefaultConfigPath is the path to the canonical analysis defaults file.
// This is the single source of truth for all default analysis values.
const DefaultConfigPath = "config/analysis.defaults.json"

// AnalysisConfig represents the root configuration for segment analysis.
// All fields are optional; the Get* methods supply defaults for anything a
// partial config leaves out.
type AnalysisConfig struct {
	// Report params
	Units         *string   `json:"units,omitempty"`           // px, m or km
	PixelSpacingM *float64  `json:"pixel_spacing_m,omitempty"` // along-track meters per pixel
	Percentiles   []float64 `json:"percentiles,omitempty"`     // segment length distribution quantiles

	// CSV column names
	FlagColumn  *string `json:"flag_column,omitempty"`
	ValueColumn *string `json:"value_column,omitempty"`
	IndexColumn *string `json:"index_column,omitempty"`

	// Chart params
	ChartWidth  *string `json:"chart_width,omitempty"`  // CSS size like "1200px"
	ChartHeight *string `json:"chart_height,omitempty"` // CSS size like "500px"
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }

// EmptyAnalysisConfig returns an AnalysisConfig with all fields unset.
// Use LoadAnalysisConfig to load actual values from a file.
func EmptyAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{}
}

// LoadAnalysisConfig loads an AnalysisConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the
// max file size. Fields omitted from the JSON file fall back to defaults, so
// partial configs are safe.
func LoadAnalysisConfig(path string) (*AnalysisConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyAnalysisConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical analysis defaults from DefaultConfigPath.
// It searches for the file in the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *AnalysisConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath, // from internal/config/
		"../../../" + DefaultConfigPath,
		"../../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadAnalysisConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *AnalysisConfig) Validate() error {
	if c.Units != nil && !units.IsValid(*c.Units) {
		return fmt.Errorf("units must be one of %s, got %q", units.GetValidUnitsString(), *c.Units)
	}

	if c.PixelSpacingM != nil && *c.PixelSpacingM <= 0 {
		return fmt.Errorf("pixel_spacing_m must be positive, got %f", *c.PixelSpacingM)
	}

	for _, p := range c.Percentiles {
		if p <= 0 || p >= 1 {
			return fmt.Errorf("percentiles must be between 0 and 1 exclusive, got %f", p)
		}
	}

	if c.ChartWidth != nil && *c.ChartWidth == "" {
		return fmt.Errorf("chart_width must not be empty when set")
	}
	if c.ChartHeight != nil && *c.ChartHeight == "" {
		return fmt.Errorf("chart_height must not be empty when set")
	}

	return nil
}

// GetUnits returns the display units or the default.
func (c *AnalysisConfig) GetUnits() string {
	if c.Units == nil {
		return units.PX // default
	}
	return *c.Units
}

// GetPixelSpacingM returns the along-track pixel spacing or the default.
func (c *AnalysisConfig) GetPixelSpacingM() float64 {
	if c.PixelSpacingM == nil {
		return 1.0 // default: one meter per pixel
	}
	return *c.PixelSpacingM
}

// GetPercentiles returns the report percentiles or the default set.
func (c *AnalysisConfig) GetPercentiles() []float64 {
	if len(c.Percentiles) == 0 {
		return []float64{0.5, 0.85, 0.98} // default
	}
	out := make([]float64, len(c.Percentiles))
	copy(out, c.Percentiles)
	return out
}

// GetFlagColumn returns the CSV flag column name or the default.
func (c *AnalysisConfig) GetFlagColumn() string {
	if c.FlagColumn == nil {
		return "cloud_flag"
	}
	return *c.FlagColumn
}

// GetValueColumn returns the CSV value column name or the default.
func (c *AnalysisConfig) GetValueColumn() string {
	if c.ValueColumn == nil {
		return "value"
	}
	return *c.ValueColumn
}

// GetIndexColumn returns the CSV index column name or the default.
func (c *AnalysisConfig) GetIndexColumn() string {
	if c.IndexColumn == nil {
		return "time"
	}
	return *c.IndexColumn
}

// GetChartWidth returns the chart width or the default.
func (c *AnalysisConfig) GetChartWidth() string {
	if c.ChartWidth == nil {
		return "1200px"
	}
	return *c.ChartWidth
}

// GetChartHeight returns the chart height or the default.
func (c *AnalysisConfig) GetChartHeight() string {
	if c.ChartHeight == nil {
		return "500px"
	}
	return *c.ChartHeight
}
