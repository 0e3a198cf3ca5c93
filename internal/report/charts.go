package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dgallion1/envreport/internal/chart"
	"github.com/dgallion1/envreport/internal/standards"
)

// MonitoringType is the display name used in chart titles and captions.
func (s Schema) MonitoringType() string {
	switch s {
	case SchemaAir:
		return "Ambient Air Quality"
	case SchemaNoise:
		return "Noise"
	}
	return ""
}

func (s Schema) axisLabel() string {
	if s == SchemaNoise {
		return "Sound Level (dB(A))"
	}
	return "Concentration (µg/m³)"
}

// ChartSpec builds the bar chart for column col of t: one bar per row keyed
// by monitoring location, with the regulatory limit as a threshold line when
// one is defined. A non-numeric value is an ErrDataShape error.
func ChartSpec(t InjectedTable, col int, limits standards.Standards) (chart.Spec, error) {
	header := t.Header()
	if col < 0 || col >= len(header) {
		return chart.Spec{}, fmt.Errorf("%w: table %q has no column %d", ErrDataShape, t.Title, col)
	}
	param := strings.TrimSpace(header[col])
	loc := t.locationColumn()

	spec := chart.Spec{
		Title:  ChartTitle(t.Schema, param),
		Series: param,
		XLabel: ColLocation,
		YLabel: t.Schema.axisLabel(),
	}
	for i, row := range t.Rows() {
		raw := strings.TrimSpace(row[col])
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return chart.Spec{}, fmt.Errorf("%w: table %q row %d column %q: %q is not a number",
				ErrDataShape, t.Title, i+1, param, raw)
		}
		spec.Labels = append(spec.Labels, row[loc])
		spec.Values = append(spec.Values, v)
	}
	if l, ok := limits.Lookup(t.Schema.String(), param); ok {
		spec.Threshold = &chart.Threshold{Value: l.Value, Label: "Standard (" + l.Label() + ")"}
	}
	return spec, nil
}

// ChartTitle is "{monitoring type} - {parameter} Levels".
func ChartTitle(s Schema, param string) string {
	return s.MonitoringType() + " - " + param + " Levels"
}

// ChartSpecs builds one spec per chart column of t, in header order.
func ChartSpecs(t InjectedTable, limits standards.Standards) ([]chart.Spec, error) {
	cols := t.ChartColumns()
	specs := make([]chart.Spec, 0, len(cols))
	for _, col := range cols {
		s, err := ChartSpec(t, col, limits)
		if err != nil {
			return nil, err
		}
		specs = append(specs, s)
	}
	return specs, nil
}
