// Package report assembles a monitoring report from a section template,
// collected data and regulatory standards.
package report

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDataShape is returned for ragged tables and non-numeric chart values.
	ErrDataShape = errors.New("malformed report data")

	// ErrUnsupportedReportType is returned for report types that have no
	// section layout.
	ErrUnsupportedReportType = errors.New("unsupported report type")
)

// Report types.
const (
	TypeMonitoring = "monitoring"
	TypeCESMP      = "cesmp"
)

// CheckReportType accepts an empty type as TypeMonitoring.
func CheckReportType(t string) error {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "", TypeMonitoring:
		return nil
	case TypeCESMP:
		return fmt.Errorf("%w: %s reports are not implemented", ErrUnsupportedReportType, TypeCESMP)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedReportType, t)
	}
}

// WarningKind classifies a non-fatal problem found while rendering.
type WarningKind string

const (
	WarnMissingSection    WarningKind = "missing_section"
	WarnMissingStandard   WarningKind = "missing_standard"
	WarnMissingConclusion WarningKind = "missing_conclusion"
	WarnMissingImage      WarningKind = "missing_image"
)

// Warning is a lookup miss or missing resource. Rendering continues past it.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Section string      `json:"section,omitempty"`
	Message string      `json:"message"`
}

func (w Warning) String() string {
	if w.Section == "" {
		return w.Message
	}
	return w.Section + ": " + w.Message
}

// Result describes a rendered report.
type Result struct {
	Path     string    `json:"path,omitempty"`
	Sections int       `json:"sections"` // top-level numbers issued, including misses
	Rendered int       `json:"rendered"` // top-level sections found in the template
	Tables   int       `json:"tables"`
	Figures  int       `json:"figures"`
	Charts   int       `json:"charts"`
	Warnings []Warning `json:"warnings,omitempty"`
}

// Partial reports whether the report completed with warnings.
func (r *Result) Partial() bool {
	return r != nil && len(r.Warnings) > 0
}

var (
	sectionPrefix = []string{"Introduction", "Scope of Work", "Regulatory Standards"}
	sectionSuffix = []string{"Conclusion", "Appendices"}
)

var parameterSections = map[string]string{
	"air":   "Ambient Air Quality Monitoring",
	"noise": "Noise Monitoring",
	"soil":  "Soil Quality Monitoring",
	"water": "Water Quality Monitoring",
}

// FormatParameter maps a monitoring parameter to its section name.
func FormatParameter(parameter string) string {
	p := strings.TrimSpace(parameter)
	if name, ok := parameterSections[strings.ToLower(p)]; ok {
		return name
	}
	return capitalize(p) + " Monitoring"
}

// Sections returns the ordered top-level section names for the selected
// parameters.
func Sections(parameters []string) []string {
	out := make([]string, 0, len(sectionPrefix)+len(parameters)+len(sectionSuffix))
	out = append(out, sectionPrefix...)
	for _, p := range parameters {
		out = append(out, FormatParameter(p))
	}
	return append(out, sectionSuffix...)
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = []rune(strings.ToUpper(string(r[0])))[0]
	return string(r)
}
