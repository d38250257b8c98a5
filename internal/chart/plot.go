package chart

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/eurec4a/cloudseg/internal/trajectory"
)

var (
	traceColor   = color.RGBA{R: 0x31, G: 0x68, B: 0x8e, A: 0xff}
	segmentColor = color.RGBA{R: 0xff, G: 0x52, B: 0x52, A: 0xff}
)

// SavePNG writes a static trace plot to path. When the trajectory carries a
// value column the values are plotted, otherwise the 0/1 cloud flags; cloudy
// segments are overlaid in red either way. The output format follows the
// file extension, so path should end in ".png".
func SavePNG(series *trajectory.Series, path string) error {
	if series.Pixels() == 0 {
		return fmt.Errorf("save plot: trajectory %q has no pixels", series.Name)
	}

	mask, err := series.Mask()
	if err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	segments, err := mask.CloudSegments()
	if err != nil {
		return fmt.Errorf("save plot: %w", err)
	}

	xAt := func(i int) float64 {
		if series.HasIndex() {
			return series.Index[i]
		}
		return float64(i)
	}
	yAt := func(i int) float64 {
		if series.HasValues() {
			return series.Values[i]
		}
		if mask[i] {
			return 1
		}
		return 0
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Trajectory %s", series.Name)
	if series.HasIndex() {
		p.X.Label.Text = "index"
	} else {
		p.X.Label.Text = "pixel"
	}
	if series.HasValues() {
		p.Y.Label.Text = "value"
	} else {
		p.Y.Label.Text = "cloud flag"
	}

	tracePts := make(plotter.XYs, 0, series.Pixels())
	for i := 0; i < series.Pixels(); i++ {
		tracePts = append(tracePts, plotter.XY{X: xAt(i), Y: yAt(i)})
	}

	traceLine, err := plotter.NewLine(tracePts)
	if err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	traceLine.Color = traceColor
	traceLine.Width = vg.Points(1)
	p.Add(traceLine)
	p.Legend.Add("trace", traceLine)

	legendAdded := false
	for _, seg := range segments {
		segPts := make(plotter.XYs, 0, seg.Len())
		for i := seg.Start; i < seg.End; i++ {
			segPts = append(segPts, plotter.XY{X: xAt(i), Y: yAt(i)})
		}
		if len(segPts) == 0 {
			continue
		}

		segLine, err := plotter.NewLine(segPts)
		if err != nil {
			return fmt.Errorf("save plot: %w", err)
		}
		segLine.Color = segmentColor
		segLine.Width = vg.Points(2)
		p.Add(segLine)
		if !legendAdded {
			p.Legend.Add("cloudy", segLine)
			legendAdded = true
		}
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if err := p.Save(12*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}
