package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dgallion1/envreport/internal/docsink"
	"github.com/dgallion1/envreport/internal/doctree"
	"github.com/dgallion1/envreport/internal/numbering"
	"github.com/dgallion1/envreport/internal/placeholder"
)

// renderer holds the state of one report render. It is not shared between
// reports.
type renderer struct {
	g       *Generator
	ctx     context.Context
	sink    docsink.Sink
	m       *placeholder.Map
	params  []string
	tracker *numbering.Tracker
	result  *Result
	log     *slog.Logger
}

func (r *renderer) warn(kind WarningKind, section, format string, args ...any) {
	w := Warning{Kind: kind, Section: section, Message: fmt.Sprintf(format, args...)}
	r.result.Warnings = append(r.result.Warnings, w)
	r.log.Warn(w.Message, "kind", string(kind), "section", section)
}

// section renders n as number and recurses into its subsections.
func (r *renderer) section(n *doctree.SectionNode, title, number string) error {
	if err := r.ctx.Err(); err != nil {
		return err
	}
	level := numbering.Level(number)
	if level == 1 {
		r.sink.PageBreak()
	}
	r.sink.Heading(number+". "+title, level)

	content, err := Resolve(n, r.m)
	if err != nil {
		return fmt.Errorf("section %s %s: %w", number, title, err)
	}
	tables, figures := Precompute(content, number, r.tracker)

	text := placeholder.Positional(n.Text, placeholder.TableNumber, tables)
	text = placeholder.Positional(text, placeholder.FigureNumber, figures)
	if text = placeholder.Substitute(text, r.m); strings.TrimSpace(text) != "" {
		r.sink.Paragraph(text)
	}

	subsections := n.Subsections
	switch n.Role {
	case doctree.RoleScopeOfWork:
		for _, p := range r.params {
			r.sink.Bullet(FormatParameter(p))
		}
	case doctree.RoleRegulatoryStandards:
		subsections = r.filterStandards(n, title)
	case doctree.RoleConclusion:
		r.conclusion(title)
	}

	for _, b := range n.Bullets {
		r.sink.Bullet(placeholder.Substitute(b, r.m))
	}

	fig := 0
	for i, t := range content.Tables {
		if err := r.table(t, tables[i]); err != nil {
			return fmt.Errorf("section %s %s: %w", number, title, err)
		}
		specs, err := ChartSpecs(t, r.g.limits)
		if err != nil {
			return fmt.Errorf("section %s %s: %w", number, title, err)
		}
		for _, spec := range specs {
			png, err := r.g.charts.Render(spec)
			if err != nil {
				return fmt.Errorf("section %s %s: render chart %q: %w", number, title, spec.Title, err)
			}
			if err := r.sink.Picture(png, r.g.imageWidth); err != nil {
				return fmt.Errorf("section %s %s: embed chart %q: %w", number, title, spec.Title, err)
			}
			r.sink.Caption(fmt.Sprintf("Figure %s - %s", figures[fig], spec.Title))
			fig++
			r.result.Charts++
			r.result.Figures++
		}
	}

	for _, f := range content.Figures {
		r.staticFigure(f, figures[fig], title)
		fig++
	}

	for i, child := range subsections {
		if err := r.section(child, child.DisplayTitle(), numbering.Child(number, i+1)); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) table(t InjectedTable, number string) error {
	caption := placeholder.Substitute(t.Title, r.m)
	if caption == "" {
		caption = "Table {table_number}"
	}
	r.sink.Caption(strings.ReplaceAll(caption, "{"+placeholder.TableNumber+"}", number))

	rows := make([][]string, len(t.Data))
	for i, row := range t.Data {
		rows[i] = make([]string, len(row))
		for j, cell := range row {
			rows[i][j] = placeholder.Substitute(cell, r.m)
		}
	}
	if err := r.sink.Table(rows); err != nil {
		return fmt.Errorf("%w: table %q: %w", ErrDataShape, t.Title, err)
	}
	r.result.Tables++
	return nil
}

// staticFigure embeds a template image. Unreadable images are skipped with a
// warning; their number stays consumed.
func (r *renderer) staticFigure(f doctree.Figure, number, section string) {
	path := r.g.resolvePath(f.Path)
	data, err := os.ReadFile(path)
	if err != nil {
		r.warn(WarnMissingImage, section, "figure %s: image %q not found", number, f.Path)
		return
	}
	if err := r.sink.Picture(data, r.g.imageWidth); err != nil {
		r.warn(WarnMissingImage, section, "figure %s: image %q: %v", number, f.Path, err)
		return
	}
	caption := "Figure " + number
	if f.Description != "" {
		caption += " - " + f.Description
	}
	r.sink.Caption(caption)
	r.result.Figures++
}

// filterStandards keeps the subsections whose key names a selected
// parameter, in template order.
func (r *renderer) filterStandards(n *doctree.SectionNode, title string) []*doctree.SectionNode {
	selected := make(map[string]bool, len(r.params))
	for _, p := range r.params {
		selected[doctree.NormalizeKey(p)] = true
	}
	var out []*doctree.SectionNode
	found := make(map[string]bool)
	for _, sub := range n.Subsections {
		key := doctree.NormalizeKey(sub.Key)
		if selected[key] {
			out = append(out, sub)
			found[key] = true
		}
	}
	for _, p := range r.params {
		if !found[doctree.NormalizeKey(p)] {
			r.warn(WarnMissingStandard, title, "no regulatory standard for parameter %q", p)
		}
	}
	return out
}

func (r *renderer) conclusion(title string) {
	var paras []string
	for _, p := range r.params {
		if text, ok := r.g.constants.Conclusion(p); ok {
			paras = append(paras, placeholder.Substitute(text, r.m))
		}
	}
	if len(paras) == 0 {
		r.warn(WarnMissingConclusion, title, "no conclusion text for parameters %v", r.params)
		return
	}
	r.sink.Paragraph(strings.Join(paras, "\n\n"))
	r.sink.Paragraph(placeholder.Substitute(r.g.constants.Verdict(), r.m))
}
