// Package placeholder substitutes {name} tokens in template text.
package placeholder

import (
	"regexp"
	"strings"
)

// Well-known placeholder names.
const (
	TableNumber  = "table_number"
	FigureNumber = "figure_number"

	ReportParameters         = "report_parameters"
	ReportFrequency          = "report_frequency"
	MonitoringLocations      = "monitoring_locations"
	AirMonitoringData        = "air_monitoring_data"
	NoiseMonitoringData      = "noise_monitoring_data"
	MonitoringLocationImages = "monitoring_location_images"
	MonitoringLocationMap    = "monitoring_location_map"
)

var tokenPattern = regexp.MustCompile(`\{([A-Za-z0-9_.\-]+)\}`)

// NamedImage is a location image, kept in entry order.
type NamedImage struct {
	Name string
	Path string
}

// Map is the per-report placeholder set. Only string values are substituted
// into text; tables and images are consumed by data injection and figures.
type Map struct {
	strings map[string]string
	tables  map[string][][]string
	images  []NamedImage
}

// New returns an empty map.
func New() *Map {
	return &Map{
		strings: make(map[string]string),
		tables:  make(map[string][][]string),
	}
}

// Set stores a string value.
func (m *Map) Set(key, value string) {
	m.strings[key] = value
}

// Get returns a string value.
func (m *Map) Get(key string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m.strings[key]
	return v, ok
}

// SetTable stores a table value; row 0 is its header.
func (m *Map) SetTable(key string, rows [][]string) {
	m.tables[key] = rows
}

// Table returns a table value.
func (m *Map) Table(key string) ([][]string, bool) {
	if m == nil {
		return nil, false
	}
	rows, ok := m.tables[key]
	return rows, ok
}

// SetLocationImages stores the per-location images.
func (m *Map) SetLocationImages(images []NamedImage) {
	m.images = append([]NamedImage(nil), images...)
}

// LocationImages returns the per-location images in entry order.
func (m *Map) LocationImages() []NamedImage {
	if m == nil {
		return nil
	}
	return m.images
}

// Parameters splits report_parameters into trimmed, non-empty entries.
func (m *Map) Parameters() []string {
	raw, _ := m.Get(ReportParameters)
	var out []string
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" && !strings.EqualFold(p, "none") {
			out = append(out, p)
		}
	}
	return out
}

// Substitute replaces every {key} token that has a string value. Unknown
// tokens are left as written. Replacement is a single pass, so values are
// never re-expanded.
func Substitute(text string, m *Map) string {
	if text == "" || m == nil {
		return text
	}
	return tokenPattern.ReplaceAllStringFunc(text, func(tok string) string {
		if v, ok := m.strings[tok[1:len(tok)-1]]; ok {
			return v
		}
		return tok
	})
}

// Positional replaces occurrences of {name} left to right with successive
// values. Occurrences beyond len(values) are left as written.
func Positional(text, name string, values []string) string {
	token := "{" + name + "}"
	var b strings.Builder
	i := 0
	for {
		idx := strings.Index(text, token)
		if idx < 0 || i >= len(values) {
			b.WriteString(text)
			return b.String()
		}
		b.WriteString(text[:idx])
		b.WriteString(values[i])
		text = text[idx+len(token):]
		i++
	}
}
