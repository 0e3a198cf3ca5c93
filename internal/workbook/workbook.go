// Package workbook exports collected monitoring data to an Excel workbook.
package workbook

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dgallion1/envreport/internal/session"
)

// Sheet names, in workbook order.
const (
	SheetLocations = "Monitoring Locations"
	SheetAir       = "Air Quality"
	SheetNoise     = "Noise"
)

// Path is where the data workbook for frequency is written, next to the
// report.
func Path(dir, frequency string) string {
	f := strings.ToLower(strings.TrimSpace(frequency))
	if f != "" {
		f = strings.ToUpper(f[:1]) + f[1:]
	}
	return filepath.Join(dir, f+"_Monitoring_Data.xlsx")
}

// Export writes the session's locations and readings to path, one sheet per
// table. Numeric cells are stored as numbers.
func Export(s *session.Session, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	locations := make([][]string, 0, len(s.Locations))
	for _, loc := range s.Locations {
		locations = append(locations, []string{loc.Name, loc.Description, loc.Latitude, loc.Longitude})
	}
	sheets := []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{SheetLocations, session.LocationHeader, locations},
		{SheetAir, session.AirHeader, s.Air},
		{SheetNoise, session.NoiseHeader, s.Noise},
	}

	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sh.name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			return fmt.Errorf("create sheet %q: %w", sh.name, err)
		}
		if err := writeRow(f, sh.name, 1, sh.header, false); err != nil {
			return err
		}
		if err := f.SetRowStyle(sh.name, 1, 1, header); err != nil {
			return fmt.Errorf("style sheet %q: %w", sh.name, err)
		}
		for r, row := range sh.rows {
			if err := writeRow(f, sh.name, r+2, row, true); err != nil {
				return err
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, cells []string, numeric bool) error {
	values := make([]any, len(cells))
	for i, c := range cells {
		if v, err := strconv.ParseFloat(strings.TrimSpace(c), 64); numeric && err == nil {
			values[i] = v
		} else {
			values[i] = c
		}
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}
