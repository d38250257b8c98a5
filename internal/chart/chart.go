// Package chart renders trajectory analyses as interactive ECharts HTML
// pages and static PNG plots. Renderers read the derived sequences and never
// modify the trajectory they are given.
package chart

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/eurec4a/cloudseg/internal/config"
	"github.com/eurec4a/cloudseg/internal/report"
	"github.com/eurec4a/cloudseg/internal/trajectory"
)

// Options controls the size and titling of rendered chart pages.
type Options struct {
	// Width and Height are CSS dimensions applied to each chart,
	// e.g. "1200px" and "500px".
	Width  string
	Height string
}

// OptionsFromConfig builds chart options from an analysis config,
// falling back to the config defaults for unset fields.
func OptionsFromConfig(cfg *config.AnalysisConfig) Options {
	return Options{
		Width:  cfg.GetChartWidth(),
		Height: cfg.GetChartHeight(),
	}
}

func (o Options) withDefaults() Options {
	cfg := config.EmptyAnalysisConfig()
	if o.Width == "" {
		o.Width = cfg.GetChartWidth()
	}
	if o.Height == "" {
		o.Height = cfg.GetChartHeight()
	}
	return o
}

// Overview assembles the four-chart trajectory page: the cloud flag trace,
// the signed edge sequence, the segment id staircase, and the per-segment
// length bars. The report must have been built from the same trajectory.
func Overview(series *trajectory.Series, rep *report.Report, o Options) (*components.Page, error) {
	o = o.withDefaults()

	mask, err := series.Mask()
	if err != nil {
		return nil, fmt.Errorf("chart overview: %w", err)
	}

	pixelLabels := make([]string, len(mask))
	flagData := make([]opts.LineData, len(mask))
	for i, cloudy := range mask {
		pixelLabels[i] = strconv.Itoa(i)
		v := 0
		if cloudy {
			v = 1
		}
		flagData[i] = opts.LineData{Value: v}
	}

	flagChart := charts.NewLine()
	flagChart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: fmt.Sprintf("Trajectory %s", series.Name),
			Width:     o.Width,
			Height:    o.Height,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Cloud Mask",
			Subtitle: fmt.Sprintf("%s — %d pixels, %.1f%% cloudy", series.Name, len(mask), mask.CloudFraction()*100),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:         "pixel",
			NameLocation: "middle",
			NameGap:      25,
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: "cloud flag"}),
	)
	flagChart.SetXAxis(pixelLabels).
		AddSeries("cloud flag", flagData,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: "#31688e"}))

	edges := mask.Edges()
	edgeLabels := make([]string, len(edges))
	edgeData := make([]opts.BarData, len(edges))
	for i, e := range edges {
		edgeLabels[i] = strconv.Itoa(i)
		edgeData[i] = opts.BarData{Value: int(e)}
	}

	edgeChart := charts.NewBar()
	edgeChart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  o.Width,
			Height: o.Height,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Edge Sequence",
			Subtitle: "+1 clear to cloudy, -1 cloudy to clear",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:         "boundary",
			NameLocation: "middle",
			NameGap:      25,
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: "edge"}),
	)
	edgeChart.SetXAxis(edgeLabels).
		AddSeries("edges", edgeData,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: "#ff5252"}))

	ids := mask.SegmentIDs()
	idData := make([]opts.LineData, len(ids))
	for i, id := range ids {
		idData[i] = opts.LineData{Value: id}
	}

	idChart := charts.NewLine()
	idChart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  o.Width,
			Height: o.Height,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Segment IDs",
			Subtitle: "running count of edges crossed",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:         "pixel",
			NameLocation: "middle",
			NameGap:      25,
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: "segment id"}),
	)
	idChart.SetXAxis(pixelLabels).
		AddSeries("segment id", idData,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: "#35b779"}))

	lengthLabels := make([]string, len(rep.Segments))
	lengthData := make([]opts.BarData, len(rep.Segments))
	for i, row := range rep.Segments {
		lengthLabels[i] = strconv.Itoa(row.ID)
		lengthData[i] = opts.BarData{Value: row.Length}
	}

	lengthChart := charts.NewBar()
	lengthChart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  o.Width,
			Height: o.Height,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Cloud Segment Lengths",
			Subtitle: fmt.Sprintf("%d cloudy segments", len(rep.Segments)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:         "segment id",
			NameLocation: "middle",
			NameGap:      25,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: fmt.Sprintf("length (%s)", rep.Units),
		}),
	)
	lengthChart.SetXAxis(lengthLabels).
		AddSeries("length", lengthData,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: "#fde725"}),
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}))

	page := components.NewPage()
	page.AddCharts(flagChart, edgeChart, idChart, lengthChart)
	return page, nil
}

// RenderOverview writes the overview page as a standalone HTML document.
func RenderOverview(w io.Writer, series *trajectory.Series, rep *report.Report, o Options) error {
	page, err := Overview(series, rep, o)
	if err != nil {
		return err
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render overview: %w", err)
	}
	return nil
}
