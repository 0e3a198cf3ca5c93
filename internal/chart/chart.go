// Package chart renders monitoring bar charts as PNG images.
package chart

import (
	"errors"
	"fmt"
)

// ErrEmptyChart is returned for a spec without any bars.
var ErrEmptyChart = errors.New("chart has no values")

// Threshold is a horizontal reference line, e.g. a regulatory limit.
type Threshold struct {
	Value float64
	Label string // legend text, e.g. "Standard (200 µg/m³)"
}

// Spec describes one bar chart: one bar per label.
type Spec struct {
	Title     string
	Series    string // name of the measured parameter
	XLabel    string
	YLabel    string
	Labels    []string
	Values    []float64
	Threshold *Threshold
}

func (s Spec) validate() error {
	if len(s.Values) == 0 {
		return ErrEmptyChart
	}
	if len(s.Labels) != len(s.Values) {
		return fmt.Errorf("chart %q: %d labels for %d values", s.Title, len(s.Labels), len(s.Values))
	}
	return nil
}

// Renderer produces a raster image for a chart spec.
type Renderer interface {
	Render(s Spec) ([]byte, error)
}

// Default chart dimensions in pixels.
const (
	DefaultWidth  = 960
	DefaultHeight = 600
)

// New returns the renderer for a backend name: "plot" (default) or "analyze".
func New(backend string) (Renderer, error) {
	switch backend {
	case "", "plot":
		return NewPlotRenderer(DefaultWidth, DefaultHeight), nil
	case "analyze":
		return NewBarRenderer(DefaultWidth, DefaultHeight), nil
	default:
		return nil, fmt.Errorf("unknown chart backend: %q", backend)
	}
}
