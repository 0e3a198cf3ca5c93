package chart

import (
	"fmt"

	"github.com/go-analyze/charts"
)

// thresholdStroke keeps the constant threshold series out of sight so only
// its dashed mark line shows.
const thresholdStroke = 0.01

// BarRenderer draws bars with go-analyze/charts. The threshold is a constant
// line series whose average mark line gives the dashed reference line.
type BarRenderer struct {
	width, height int
}

func NewBarRenderer(width, height int) *BarRenderer {
	return &BarRenderer{width: width, height: height}
}

func (r *BarRenderer) Render(s Spec) ([]byte, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	series, legend := barSeries(s)
	p, err := charts.Render(
		charts.ChartOption{
			SeriesList:      series,
			Symbol:          charts.SymbolNone,
			LineStrokeWidth: thresholdStroke,
		},
		charts.TitleTextOptionFunc(s.Title),
		charts.XAxisLabelsOptionFunc(s.Labels),
		charts.LegendLabelsOptionFunc(legend),
		charts.DimensionsOptionFunc(r.width, r.height),
		charts.PNGOutputOptionFunc(),
	)
	if err != nil {
		return nil, fmt.Errorf("rendering bar chart: %w", err)
	}
	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encoding bar chart PNG: %w", err)
	}
	return buf, nil
}

// barSeries builds the bar series and, when a threshold is set, the line
// series carrying its mark line.
func barSeries(s Spec) (charts.GenericSeriesList, []string) {
	values := make([]float64, len(s.Values))
	copy(values, s.Values)
	series := charts.GenericSeriesList{{
		Type:   charts.ChartTypeBar,
		Name:   s.Series,
		Values: values,
	}}
	legend := []string{s.Series}

	if s.Threshold != nil {
		limit := make([]float64, len(values))
		for i := range limit {
			limit[i] = s.Threshold.Value
		}
		series = append(series, charts.GenericSeries{
			Type:     charts.ChartTypeLine,
			Name:     s.Threshold.Label,
			Values:   limit,
			MarkLine: charts.NewMarkLine(charts.SeriesMarkTypeAverage),
		})
		legend = append(legend, s.Threshold.Label)
	}
	return series, legend
}
