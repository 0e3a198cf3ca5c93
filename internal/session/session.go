// Package session holds the data collected for one report.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dgallion1/envreport/internal/placeholder"
)

// ErrIncompleteRow is returned when a collected row has empty fields.
var ErrIncompleteRow = errors.New("all fields are required")

// ErrImagePath is returned by ConfineImages for an image outside the upload
// directory.
var ErrImagePath = errors.New("image path not allowed")

// Fixed column schemas for collected data.
var (
	LocationHeader = []string{"Monitoring Location", "Description", "Latitude", "Longitude"}
	AirHeader      = []string{"Monitoring Location", "Time", "CO", "O3", "NO2", "SO2", "PM2.5", "PM10"}
	NoiseHeader    = []string{"Monitoring Location", "Time", "EQ", "Max", "AE", "10", "50", "90"}
)

// Location is one monitoring location row.
type Location struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Latitude    string `json:"latitude" yaml:"latitude"`
	Longitude   string `json:"longitude" yaml:"longitude"`
	Image       string `json:"image,omitempty" yaml:"image,omitempty"`
}

// Session is the request-scoped state for one report build. It replaces the
// process-wide row accumulators of a form UI.
type Session struct {
	ReportType          string   `json:"report_type,omitempty" yaml:"report_type,omitempty"`
	ContractorName      string   `json:"contractor_name" yaml:"contractor_name"`
	ProjectName         string   `json:"project_name" yaml:"project_name"`
	ProjectNumber       string   `json:"project_number,omitempty" yaml:"project_number,omitempty"`
	ReferenceNumber     string   `json:"reference_number,omitempty" yaml:"reference_number,omitempty"`
	ReportFrequency     string   `json:"report_frequency" yaml:"report_frequency"`
	ReportDate          string   `json:"report_date" yaml:"report_date"`
	ReportNumber        string   `json:"report_number" yaml:"report_number"`
	MonitoringFrequency string   `json:"monitoring_frequency,omitempty" yaml:"monitoring_frequency,omitempty"`
	Parameters          []string `json:"parameters" yaml:"parameters"`

	Locations   []Location `json:"locations,omitempty" yaml:"locations,omitempty"`
	LocationMap string     `json:"location_map,omitempty" yaml:"location_map,omitempty"`
	Air         [][]string `json:"air,omitempty" yaml:"air,omitempty"`
	Noise       [][]string `json:"noise,omitempty" yaml:"noise,omitempty"`
}

// Load reads a YAML or JSON session file.
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	var s Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse session %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("session %s: %w", path, err)
	}
	return &s, nil
}

// Validate checks every collected row.
func (s *Session) Validate() error {
	if strings.TrimSpace(s.ReportFrequency) == "" {
		return fmt.Errorf("report_frequency is required")
	}
	for i, loc := range s.Locations {
		if err := requireAll(loc.Name, loc.Description, loc.Latitude, loc.Longitude); err != nil {
			return fmt.Errorf("location %d: %w", i+1, err)
		}
	}
	for i, row := range s.Air {
		if err := checkReading(row, AirHeader); err != nil {
			return fmt.Errorf("air reading %d: %w", i+1, err)
		}
	}
	for i, row := range s.Noise {
		if err := checkReading(row, NoiseHeader); err != nil {
			return fmt.Errorf("noise reading %d: %w", i+1, err)
		}
	}
	return nil
}

// ConfineImages resolves the location map and location images under root.
// Paths must be relative and must not leave root. An empty root accepts no
// image paths at all.
func (s *Session) ConfineImages(root string) error {
	confine := func(field, path string) (string, error) {
		if path == "" {
			return "", nil
		}
		if root == "" {
			return "", fmt.Errorf("%s: %w: no upload directory configured", field, ErrImagePath)
		}
		if !filepath.IsLocal(path) {
			return "", fmt.Errorf("%s %q: %w", field, path, ErrImagePath)
		}
		return filepath.Join(root, path), nil
	}

	mapPath, err := confine("location_map", s.LocationMap)
	if err != nil {
		return err
	}
	images := make([]string, len(s.Locations))
	for i, loc := range s.Locations {
		if images[i], err = confine(fmt.Sprintf("location %d image", i+1), loc.Image); err != nil {
			return err
		}
	}
	s.LocationMap = mapPath
	for i := range s.Locations {
		s.Locations[i].Image = images[i]
	}
	return nil
}

// AddLocation appends a monitoring location. Every field is required.
func (s *Session) AddLocation(loc Location) error {
	if err := requireAll(loc.Name, loc.Description, loc.Latitude, loc.Longitude); err != nil {
		return err
	}
	s.Locations = append(s.Locations, loc)
	return nil
}

// AddAirReading appends an air-quality row in AirHeader order.
func (s *Session) AddAirReading(row []string) error {
	if err := checkReading(row, AirHeader); err != nil {
		return err
	}
	s.Air = append(s.Air, append([]string(nil), row...))
	return nil
}

// AddNoiseReading appends a noise row in NoiseHeader order.
func (s *Session) AddNoiseReading(row []string) error {
	if err := checkReading(row, NoiseHeader); err != nil {
		return err
	}
	s.Noise = append(s.Noise, append([]string(nil), row...))
	return nil
}

// ImportAir appends rows from an imported table whose header matches
// AirHeader in any column order. Rows are reordered to AirHeader.
func (s *Session) ImportAir(table [][]string) error {
	rows, err := reorder(table, AirHeader)
	if err != nil {
		return fmt.Errorf("air readings: %w", err)
	}
	for i, row := range rows {
		if err := s.AddAirReading(row); err != nil {
			return fmt.Errorf("air readings row %d: %w", i+1, err)
		}
	}
	return nil
}

// ImportNoise appends rows from an imported noise table.
func (s *Session) ImportNoise(table [][]string) error {
	rows, err := reorder(table, NoiseHeader)
	if err != nil {
		return fmt.Errorf("noise readings: %w", err)
	}
	for i, row := range rows {
		if err := s.AddNoiseReading(row); err != nil {
			return fmt.Errorf("noise readings row %d: %w", i+1, err)
		}
	}
	return nil
}

// FormattedParameters joins the parameters for the report_parameters
// placeholder, or "None" when nothing is selected.
func (s *Session) FormattedParameters() string {
	var ps []string
	for _, p := range s.Parameters {
		if p = strings.TrimSpace(p); p != "" {
			ps = append(ps, p)
		}
	}
	if len(ps) == 0 {
		return "None"
	}
	return strings.Join(ps, ", ")
}

// Placeholders builds the placeholder map for this session.
func (s *Session) Placeholders(consultancy string) *placeholder.Map {
	m := placeholder.New()
	m.Set("consultancy_name", consultancy)
	m.Set("contractor_name", s.ContractorName)
	m.Set("project_name", s.ProjectName)
	m.Set("project_number", s.ProjectNumber)
	m.Set("reference_number", s.ReferenceNumber)
	m.Set(placeholder.ReportFrequency, s.ReportFrequency)
	m.Set("report_date", s.ReportDate)
	m.Set("report_number", s.ReportNumber)
	m.Set("monitoring_frequency", s.MonitoringFrequency)
	m.Set(placeholder.ReportParameters, s.FormattedParameters())
	if s.LocationMap != "" {
		m.Set(placeholder.MonitoringLocationMap, s.LocationMap)
	}

	locations := [][]string{LocationHeader}
	var images []placeholder.NamedImage
	for _, loc := range s.Locations {
		locations = append(locations, []string{loc.Name, loc.Description, loc.Latitude, loc.Longitude})
		if loc.Image != "" {
			images = append(images, placeholder.NamedImage{Name: loc.Name, Path: loc.Image})
		}
	}
	m.SetTable(placeholder.MonitoringLocations, locations)
	m.SetTable(placeholder.AirMonitoringData, withHeader(AirHeader, s.Air))
	m.SetTable(placeholder.NoiseMonitoringData, withHeader(NoiseHeader, s.Noise))
	m.SetLocationImages(images)
	return m
}

func withHeader(header []string, rows [][]string) [][]string {
	out := make([][]string, 0, len(rows)+1)
	out = append(out, append([]string(nil), header...))
	for _, row := range rows {
		out = append(out, append([]string(nil), row...))
	}
	return out
}

func requireAll(fields ...string) error {
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return ErrIncompleteRow
		}
	}
	return nil
}

func checkReading(row, header []string) error {
	if len(row) != len(header) {
		return fmt.Errorf("expected %d fields, got %d", len(header), len(row))
	}
	return requireAll(row...)
}

// reorder maps imported rows onto the canonical column order.
func reorder(table [][]string, header []string) ([][]string, error) {
	if len(table) == 0 {
		return nil, nil
	}
	index := make(map[string]int, len(table[0]))
	for i, name := range table[0] {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	cols := make([]int, len(header))
	for i, name := range header {
		j, ok := index[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
		cols[i] = j
	}
	out := make([][]string, 0, len(table)-1)
	for r, row := range table[1:] {
		next := make([]string, len(header))
		for i, j := range cols {
			if j >= len(row) {
				return nil, fmt.Errorf("row %d: missing value for %q", r+1, header[i])
			}
			next[i] = row[j]
		}
		out = append(out, next)
	}
	return out, nil
}
