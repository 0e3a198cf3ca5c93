package session

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/dgallion1/envreport/internal/placeholder"
)

func TestAddLocation_RequiresAllFields(t *testing.T) {
	var s Session
	err := s.AddLocation(Location{Name: "ML-01", Description: "Gate", Latitude: "26.1"})
	if !errors.Is(err, ErrIncompleteRow) {
		t.Fatalf("expected ErrIncompleteRow, got %v", err)
	}
	if len(s.Locations) != 0 {
		t.Error("expected incomplete location to be rejected")
	}
	if err := s.AddLocation(Location{Name: "ML-01", Description: "Gate", Latitude: "26.1", Longitude: "36.2"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAddAirReading_Validation(t *testing.T) {
	var s Session
	if err := s.AddAirReading([]string{"ML-01", "t1", "1016.4"}); err == nil {
		t.Error("expected error for short row")
	}
	if err := s.AddAirReading([]string{"ML-01", "t1", "1016.4", "", "88.8", "41.4", "14.3", "120.9"}); !errors.Is(err, ErrIncompleteRow) {
		t.Errorf("expected ErrIncompleteRow, got %v", err)
	}
	if err := s.AddAirReading([]string{"ML-01", "t1", "1016.4", "51", "88.8", "41.4", "14.3", "120.9"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Air) != 1 {
		t.Errorf("expected 1 air row, got %d", len(s.Air))
	}
}

func TestImportNoise_ReordersColumns(t *testing.T) {
	var s Session
	table := [][]string{
		{"Time", "Monitoring Location", "EQ", "Max", "AE", "10", "50", "90"},
		{"08:00", "ML-02", "61.2", "70", "80", "55", "58", "60"},
	}
	if err := s.ImportNoise(table); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"ML-02", "08:00", "61.2", "70", "80", "55", "58", "60"}
	if !reflect.DeepEqual(s.Noise[0], want) {
		t.Errorf("expected %v, got %v", want, s.Noise[0])
	}
}

func TestImportAir_MissingColumn(t *testing.T) {
	var s Session
	err := s.ImportAir([][]string{{"Monitoring Location", "Time", "CO"}})
	if err == nil {
		t.Error("expected error for missing columns")
	}
}

func TestPlaceholders(t *testing.T) {
	s := Session{
		ContractorName:  "Amala",
		ReportFrequency: "Weekly",
		Parameters:      []string{"Air", " Noise "},
		LocationMap:     "map.png",
		Locations: []Location{
			{Name: "ML-01", Description: "Gate", Latitude: "1", Longitude: "2", Image: "ml01.png"},
			{Name: "ML-02", Description: "Yard", Latitude: "3", Longitude: "4"},
		},
		Air: [][]string{{"ML-01", "t1", "1016.4", "51", "88.8", "41.4", "14.3", "120.9"}},
	}
	m := s.Placeholders("Green Fields")

	if v, _ := m.Get("consultancy_name"); v != "Green Fields" {
		t.Errorf("unexpected consultancy %q", v)
	}
	if v, _ := m.Get(placeholder.ReportParameters); v != "Air, Noise" {
		t.Errorf("unexpected parameters %q", v)
	}
	if v, _ := m.Get(placeholder.MonitoringLocationMap); v != "map.png" {
		t.Errorf("unexpected map %q", v)
	}
	locs, _ := m.Table(placeholder.MonitoringLocations)
	if len(locs) != 3 || !reflect.DeepEqual(locs[0], LocationHeader) {
		t.Errorf("unexpected locations table %v", locs)
	}
	air, _ := m.Table(placeholder.AirMonitoringData)
	if len(air) != 2 || air[1][2] != "1016.4" {
		t.Errorf("unexpected air table %v", air)
	}
	noise, _ := m.Table(placeholder.NoiseMonitoringData)
	if len(noise) != 1 {
		t.Errorf("expected header-only noise table, got %v", noise)
	}
	imgs := m.LocationImages()
	if len(imgs) != 1 || imgs[0].Name != "ML-01" {
		t.Errorf("unexpected location images %v", imgs)
	}
}

func TestFormattedParameters_None(t *testing.T) {
	var s Session
	if got := s.FormattedParameters(); got != "None" {
		t.Errorf("expected None, got %q", got)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	data := `contractor_name: Amala
project_name: Concrete structure work
report_frequency: Monthly
report_date: 06th January 2025
report_number: Twenty-third
parameters: [Air, Noise]
locations:
  - {name: ML-01, description: Gate, latitude: "26.1", longitude: "36.2"}
air:
  - [ML-01, t1, "1016.4", "51", "88.8", "41.4", "14.3", "120.9"]
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ReportFrequency != "Monthly" || len(s.Parameters) != 2 || len(s.Air) != 1 {
		t.Errorf("unexpected session %+v", s)
	}
}

func TestLoad_RejectsBadRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	data := `{"report_frequency": "Weekly", "noise": [["ML-01", "t1", "60"]]}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for short noise row")
	}
}

func TestConfineImages(t *testing.T) {
	root := filepath.Join(t.TempDir(), "uploads")
	s := Session{
		LocationMap: "maps/site.png",
		Locations: []Location{
			{Name: "ML-01", Image: "ml01.png"},
			{Name: "ML-02"},
		},
	}
	if err := s.ConfineImages(root); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.LocationMap != filepath.Join(root, "maps", "site.png") {
		t.Errorf("unexpected location map %q", s.LocationMap)
	}
	if s.Locations[0].Image != filepath.Join(root, "ml01.png") || s.Locations[1].Image != "" {
		t.Errorf("unexpected location images %+v", s.Locations)
	}
}

func TestConfineImages_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		root    string
		session Session
	}{
		{"absolute map", "uploads", Session{LocationMap: "/etc/passwd"}},
		{"escaping map", "uploads", Session{LocationMap: "../secrets/key.png"}},
		{"escaping location image", "uploads", Session{Locations: []Location{{Name: "ML-01", Image: "a/../../b.png"}}}},
		{"no upload directory", "", Session{LocationMap: "site.png"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.session
			before := s.LocationMap
			if err := s.ConfineImages(tt.root); !errors.Is(err, ErrImagePath) {
				t.Fatalf("expected ErrImagePath, got %v", err)
			}
			if s.LocationMap != before {
				t.Errorf("expected session untouched on error, got %q", s.LocationMap)
			}
		})
	}
}

func TestConfineImages_NoImages(t *testing.T) {
	s := Session{Locations: []Location{{Name: "ML-01"}}}
	if err := s.ConfineImages(""); err != nil {
		t.Errorf("expected sessions without images to pass, got %v", err)
	}
}
