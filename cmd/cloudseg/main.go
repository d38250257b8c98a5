// cloudseg analyses one trajectory CSV: it detects contiguous cloudy
// segments, prints the per-segment report table, and optionally exports the
// rows as CSV, the interactive overview as HTML, and the static trace as PNG.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/eurec4a/cloudseg/internal/chart"
	"github.com/eurec4a/cloudseg/internal/cloudmask"
	"github.com/eurec4a/cloudseg/internal/config"
	"github.com/eurec4a/cloudseg/internal/report"
	"github.com/eurec4a/cloudseg/internal/security"
	"github.com/eurec4a/cloudseg/internal/timeutil"
	"github.com/eurec4a/cloudseg/internal/trajectory"
	"github.com/eurec4a/cloudseg/internal/units"
	"github.com/eurec4a/cloudseg/internal/version"
)

func main() {
	var (
		input      string
		name       string
		configPath string

		unitsFlag string
		spacing   float64
		flagCol   string
		valueCol  string
		indexCol  string

		csvOut  string
		htmlOut string
		pngOut  string

		reduction    string
		includeClear bool
		showVersion  bool
	)

	flag.StringVar(&input, "input", "", "trajectory CSV file to analyse")
	flag.StringVar(&name, "name", "", "trajectory name (defaults to the input file name)")
	flag.StringVar(&configPath, "config", "", "analysis config JSON file")
	flag.StringVar(&unitsFlag, "units", "", "report length units, one of "+units.GetValidUnitsString())
	flag.Float64Var(&spacing, "spacing", 0, "along-track meters per pixel")
	flag.StringVar(&flagCol, "flag-col", "", "CSV column holding the 0/1 cloud flags")
	flag.StringVar(&valueCol, "value-col", "", "CSV column holding auxiliary values")
	flag.StringVar(&indexCol, "index-col", "", "CSV column holding the along-track coordinate")
	flag.StringVar(&csvOut, "csv", "", "write the per-segment rows to this CSV file")
	flag.StringVar(&htmlOut, "html", "", "write the interactive overview to this HTML file")
	flag.StringVar(&pngOut, "png", "", "write the static trace plot to this PNG file")
	flag.StringVar(&reduction, "reduction", "", "also print one per-segment value reduction, one of "+cloudmask.ValidReductions)
	flag.BoolVar(&includeClear, "include-clear", false, "include clear segments in the -reduction output")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println("cloudseg", version.String())
		return
	}
	if input == "" {
		log.Fatal("-input is required")
	}
	if reduction != "" && !cloudmask.IsValidReduction(reduction) {
		log.Fatalf("unknown reduction %q (valid reductions: %s)", reduction, cloudmask.ValidReductions)
	}

	cfg := config.EmptyAnalysisConfig()
	if configPath != "" {
		var err error
		cfg, err = config.LoadAnalysisConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	// command-line flags override the config file
	if unitsFlag != "" {
		cfg.Units = &unitsFlag
	}
	if spacing != 0 {
		cfg.PixelSpacingM = &spacing
	}
	if flagCol != "" {
		cfg.FlagColumn = &flagCol
	}
	if valueCol != "" {
		cfg.ValueColumn = &valueCol
	}
	if indexCol != "" {
		cfg.IndexColumn = &indexCol
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid analysis parameters: %v", err)
	}

	if name == "" {
		name = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}

	cols := trajectory.Columns{
		Flag:  cfg.GetFlagColumn(),
		Value: cfg.GetValueColumn(),
		Index: cfg.GetIndexColumn(),
	}
	series, err := trajectory.ReadCSVFile(input, name, cols)
	if err != nil {
		log.Fatalf("failed to read %s: %v", input, err)
	}

	rep, err := report.Build(series, report.OptionsFromConfig(cfg), timeutil.RealClock{})
	if err != nil {
		log.Fatalf("analysis failed: %v", err)
	}

	if err := report.WriteTable(os.Stdout, rep); err != nil {
		log.Fatalf("failed to render report: %v", err)
	}

	if reduction != "" {
		printReduction(series, reduction, includeClear)
	}

	if csvOut != "" {
		exportCSV(rep, csvOut)
	}
	if htmlOut != "" {
		exportHTML(series, rep, cfg, htmlOut)
	}
	if pngOut != "" {
		exportPNG(series, pngOut)
	}
}

// printReduction prints the requested per-segment reduction of the value
// column below the report table. count works without a value column; every
// other reduction needs one.
func printReduction(series *trajectory.Series, reduction string, includeClear bool) {
	values := series.Values
	if !series.HasValues() {
		if reduction != cloudmask.ReduceCount {
			log.Fatalf("-reduction %s needs a value column in the input", reduction)
		}
		values = make([]float64, series.Pixels())
	}

	mask, err := series.Mask()
	if err != nil {
		log.Fatalf("failed to build mask: %v", err)
	}
	out, err := mask.Reduce(values, reduction, includeClear)
	if err != nil {
		log.Fatalf("reduction failed: %v", err)
	}

	ids := make([]int, 0, len(out))
	for id := range out {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	fmt.Printf("\nPer-segment %s:\n", reduction)
	for _, id := range ids {
		fmt.Printf("  segment %d: %g\n", id, out[id])
	}
}

func exportCSV(rep *report.Report, path string) {
	f := createExport(path)
	defer f.Close()
	if err := report.WriteCSV(f, rep); err != nil {
		log.Fatalf("  ✗ CSV export failed: %v", err)
	}
	fmt.Printf("  ✓ wrote segment rows to %s\n", path)
}

func exportHTML(series *trajectory.Series, rep *report.Report, cfg *config.AnalysisConfig, path string) {
	f := createExport(path)
	defer f.Close()
	if err := chart.RenderOverview(f, series, rep, chart.OptionsFromConfig(cfg)); err != nil {
		log.Fatalf("  ✗ HTML export failed: %v", err)
	}
	fmt.Printf("  ✓ wrote overview chart to %s\n", path)
}

func exportPNG(series *trajectory.Series, path string) {
	if err := security.ValidateExportPath(path); err != nil {
		log.Fatalf("  ✗ PNG export failed: %v", err)
	}
	if err := chart.SavePNG(series, path); err != nil {
		log.Fatalf("  ✗ PNG export failed: %v", err)
	}
	fmt.Printf("  ✓ wrote trace plot to %s\n", path)
}

func createExport(path string) *os.File {
	if err := security.ValidateExportPath(path); err != nil {
		log.Fatalf("  ✗ export failed: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("  ✗ export failed: %v", err)
	}
	return f
}
