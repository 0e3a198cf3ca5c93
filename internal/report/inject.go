package report

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dgallion1/envreport/internal/doctree"
	"github.com/dgallion1/envreport/internal/placeholder"
	"github.com/dgallion1/envreport/internal/standards"
)

// Schema identifies a known table layout.
type Schema int

const (
	SchemaNone Schema = iota
	SchemaLocations
	SchemaAir
	SchemaNoise
)

func (s Schema) String() string {
	switch s {
	case SchemaLocations:
		return "locations"
	case SchemaAir:
		return standards.Air
	case SchemaNoise:
		return standards.Noise
	}
	return "none"
}

// Column names shared by the reading schemas.
const (
	ColLocation = "Monitoring Location"
	ColTime     = "Time"
	ColEQ       = "EQ"
)

var schemaHeaders = []struct {
	schema Schema
	key    string
	header []string
}{
	{SchemaLocations, placeholder.MonitoringLocations, []string{ColLocation, "Description", "Latitude", "Longitude"}},
	{SchemaAir, placeholder.AirMonitoringData, []string{ColLocation, ColTime, "CO", "O3", "NO2", "SO2", "PM2.5", "PM10"}},
	{SchemaNoise, placeholder.NoiseMonitoringData, []string{ColLocation, ColTime, ColEQ, "Max", "AE", "10", "50", "90"}},
}

// MatchSchema compares a header row against the known schemas. Column order
// is ignored; names are compared case-insensitively.
func MatchSchema(header []string) Schema {
	got := normalizeHeader(header)
	for _, s := range schemaHeaders {
		if slices.Equal(got, normalizeHeader(s.header)) {
			return s.schema
		}
	}
	return SchemaNone
}

func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.ToLower(strings.TrimSpace(h))
	}
	slices.Sort(out)
	return out
}

func placeholderKey(s Schema) string {
	for _, h := range schemaHeaders {
		if h.schema == s {
			return h.key
		}
	}
	return ""
}

// InjectedTable is a template table after data injection.
type InjectedTable struct {
	doctree.Table
	Schema   Schema
	Injected bool
}

// InjectTable returns the table to render in place of t. When t's header
// matches a known schema and m holds data for it, the data replaces t's rows.
// Scope of Work sections also replace any table titled "Monitoring
// Locations". The template table is never modified.
func InjectTable(t doctree.Table, m *placeholder.Map, role doctree.Role) (InjectedTable, error) {
	key := placeholderKey(MatchSchema(t.Header()))
	if role == doctree.RoleScopeOfWork && strings.Contains(strings.ToLower(t.Title), "monitoring locations") {
		key = placeholder.MonitoringLocations
	}

	out := InjectedTable{Table: t.Clone()}
	if key != "" {
		if rows, ok := m.Table(key); ok && len(rows) > 0 {
			out.Table = doctree.Table{Title: t.Title, Data: rows}.Clone()
			out.Injected = true
		}
	}
	if err := out.Validate(); err != nil {
		return InjectedTable{}, fmt.Errorf("%w: %w", ErrDataShape, err)
	}
	out.Schema = MatchSchema(out.Header())
	return out, nil
}

// ChartColumns lists the header indexes that get a chart: every measured air
// parameter, or EQ alone for noise. Tables without data rows get none.
func (t InjectedTable) ChartColumns() []int {
	if len(t.Rows()) == 0 {
		return nil
	}
	var cols []int
	for i, name := range t.Header() {
		name = strings.TrimSpace(name)
		switch t.Schema {
		case SchemaAir:
			if !strings.EqualFold(name, ColLocation) && !strings.EqualFold(name, ColTime) {
				cols = append(cols, i)
			}
		case SchemaNoise:
			if strings.EqualFold(name, ColEQ) {
				cols = append(cols, i)
			}
		}
	}
	return cols
}

// locationColumn returns the index of the Monitoring Location column.
func (t InjectedTable) locationColumn() int {
	for i, name := range t.Header() {
		if strings.EqualFold(strings.TrimSpace(name), ColLocation) {
			return i
		}
	}
	return 0
}
