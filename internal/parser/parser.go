package parser

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SupportedReadingExtensions lists file extensions ReadReadings can import.
var SupportedReadingExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
}

// ReadReadings imports a table of reading rows. Row 0 is the header.
func ReadReadings(path string) ([][]string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv":
		return readCSV(path)
	case ".xlsx":
		return readXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported readings file extension: %s", ext)
	}
}

// IsSupportedReadings checks if a readings file extension is supported.
func IsSupportedReadings(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedReadingExtensions[ext]
}
