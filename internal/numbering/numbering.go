// Package numbering assigns table and figure numbers per top-level section.
package numbering

import (
	"strconv"
	"strings"
)

// Tracker counts tables and figures per top-level section number. Counters
// only increase for the life of the tracker; use one tracker per report.
type Tracker struct {
	tables  map[string]int
	figures map[string]int
}

// NewTracker returns a tracker with every counter at zero.
func NewTracker() *Tracker {
	return &Tracker{
		tables:  make(map[string]int),
		figures: make(map[string]int),
	}
}

// NextTable returns the next table number, e.g. "4.2".
func (t *Tracker) NextTable(main string) string {
	t.tables[main]++
	return main + "." + strconv.Itoa(t.tables[main])
}

// NextFigure returns the next figure number, e.g. "4.3".
func (t *Tracker) NextFigure(main string) string {
	t.figures[main]++
	return main + "." + strconv.Itoa(t.figures[main])
}

// Tables returns how many table numbers were issued under main.
func (t *Tracker) Tables(main string) int {
	return t.tables[main]
}

// Figures returns how many figure numbers were issued under main.
func (t *Tracker) Figures(main string) int {
	return t.figures[main]
}

// MainNumber extracts the top-level number: "4" from "4.1.2".
func MainNumber(sectionNumber string) string {
	main, _, _ := strings.Cut(sectionNumber, ".")
	return main
}

// Level is the heading level of a section number: dots plus one.
func Level(sectionNumber string) int {
	return strings.Count(sectionNumber, ".") + 1
}

// Child returns the number of the idx-th (1-based) child section.
func Child(parent string, idx int) string {
	return parent + "." + strconv.Itoa(idx)
}
