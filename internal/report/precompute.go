package report

import (
	"strings"

	"github.com/dgallion1/envreport/internal/doctree"
	"github.com/dgallion1/envreport/internal/numbering"
	"github.com/dgallion1/envreport/internal/placeholder"
)

// Content is a section's tables and figures after injection and placeholder
// resolution, in render order.
type Content struct {
	Tables  []InjectedTable
	Figures []doctree.Figure
}

// Charts returns the number of derived chart figures.
func (c Content) Charts() int {
	n := 0
	for _, t := range c.Tables {
		n += len(t.ChartColumns())
	}
	return n
}

// Resolve injects collected data into n's tables and resolves its static
// figures. A figure whose path is {monitoring_location_images} expands into
// one figure per location image.
func Resolve(n *doctree.SectionNode, m *placeholder.Map) (Content, error) {
	var c Content
	for _, t := range n.Tables {
		it, err := InjectTable(t, m, n.Role)
		if err != nil {
			return Content{}, err
		}
		c.Tables = append(c.Tables, it)
	}
	for _, f := range n.StaticFigures() {
		if strings.TrimSpace(f.Path) == "{"+placeholder.MonitoringLocationImages+"}" {
			for _, img := range m.LocationImages() {
				c.Figures = append(c.Figures, doctree.Figure{Path: img.Path, Description: img.Name})
			}
			continue
		}
		c.Figures = append(c.Figures, doctree.Figure{
			Path:        placeholder.Substitute(f.Path, m),
			Description: placeholder.Substitute(f.Description, m),
		})
	}
	return c, nil
}

// Precompute issues the table and figure numbers c will consume under
// section number. Figure numbers cover every chart first, in table and
// column order, then the static figures.
func Precompute(c Content, number string, tracker *numbering.Tracker) (tables, figures []string) {
	main := numbering.MainNumber(number)
	for range c.Tables {
		tables = append(tables, tracker.NextTable(main))
	}
	for range c.Charts() {
		figures = append(figures, tracker.NextFigure(main))
	}
	for range c.Figures {
		figures = append(figures, tracker.NextFigure(main))
	}
	return tables, figures
}
