package workbook

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/dgallion1/envreport/internal/session"
)

func TestPath(t *testing.T) {
	if got := Path("out", "weekly"); got != filepath.Join("out", "Weekly_Monitoring_Data.xlsx") {
		t.Errorf("unexpected path %q", got)
	}
}

func TestExport(t *testing.T) {
	s := &session.Session{
		ReportFrequency: "Monthly",
		Locations: []session.Location{
			{Name: "ML-01", Description: "Gate", Latitude: "26.1", Longitude: "36.2"},
		},
		Air: [][]string{{"ML-01", "t1", "1016.4", "51", "88.8", "41.4", "14.3", "120.9"}},
	}
	path := filepath.Join(t.TempDir(), "data", "Monthly_Monitoring_Data.xlsx")
	if err := Export(s, path); err != nil {
		t.Fatalf("export: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetList(); !reflect.DeepEqual(got, []string{SheetLocations, SheetAir, SheetNoise}) {
		t.Errorf("unexpected sheets %v", got)
	}
	rows, err := f.GetRows(SheetAir)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || !reflect.DeepEqual(rows[0], session.AirHeader) {
		t.Fatalf("unexpected air rows %v", rows)
	}
	if rows[1][0] != "ML-01" || rows[1][2] != "1016.4" {
		t.Errorf("unexpected air data %v", rows[1])
	}
	noise, err := f.GetRows(SheetNoise)
	if err != nil {
		t.Fatal(err)
	}
	if len(noise) != 1 {
		t.Errorf("expected header-only noise sheet, got %v", noise)
	}
}
