package chart

import (
	"bytes"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var (
	barColor       = color.RGBA{R: 46, G: 117, B: 182, A: 255}
	thresholdColor = color.RGBA{R: 192, G: 0, B: 0, A: 255}
)

// PlotRenderer draws bars with a dashed threshold line using gonum/plot.
type PlotRenderer struct {
	width, height vg.Length
}

// NewPlotRenderer sizes output in pixels at 96 DPI.
func NewPlotRenderer(widthPx, heightPx int) *PlotRenderer {
	return &PlotRenderer{
		width:  vg.Length(widthPx) * vg.Inch / 96,
		height: vg.Length(heightPx) * vg.Inch / 96,
	}
}

func (r *PlotRenderer) Render(s Spec) ([]byte, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = s.Title
	p.X.Label.Text = s.XLabel
	p.Y.Label.Text = s.YLabel

	bars, err := plotter.NewBarChart(plotter.Values(s.Values), vg.Points(28))
	if err != nil {
		return nil, fmt.Errorf("building bars: %w", err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(s.Labels...)
	if s.Series != "" {
		p.Legend.Add(s.Series, bars)
	}

	if s.Threshold != nil {
		last := float64(len(s.Values)) - 0.5
		line, err := plotter.NewLine(plotter.XYs{
			{X: -0.5, Y: s.Threshold.Value},
			{X: last, Y: s.Threshold.Value},
		})
		if err != nil {
			return nil, fmt.Errorf("building threshold line: %w", err)
		}
		line.LineStyle.Color = thresholdColor
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
		p.Add(line)
		p.Legend.Add(s.Threshold.Label, line)
	}
	p.Legend.Top = true
	p.Y.Min = 0

	wt, err := p.WriterTo(r.width, r.height, "png")
	if err != nil {
		return nil, fmt.Errorf("rendering plot: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encoding plot PNG: %w", err)
	}
	return buf.Bytes(), nil
}
