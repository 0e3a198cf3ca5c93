package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dgallion1/envreport/internal/chart"
	"github.com/dgallion1/envreport/internal/config"
	"github.com/dgallion1/envreport/internal/docsink"
	"github.com/dgallion1/envreport/internal/doctree"
	"github.com/dgallion1/envreport/internal/numbering"
	"github.com/dgallion1/envreport/internal/placeholder"
	"github.com/dgallion1/envreport/internal/standards"
)

// DefaultImageWidth is the display width of figures in inches.
const DefaultImageWidth = 5.0

// Options configures a Generator. Zero values select defaults.
type Options struct {
	Charts           chart.Renderer
	ImageWidthInches float64
	AssetDir         string // fallback directory for relative image paths
	Logger           *slog.Logger
}

// Generator renders reports from one template and constants set. It holds no
// per-report state and is safe for concurrent use.
type Generator struct {
	template   *doctree.Template
	constants  *config.Constants
	limits     standards.Standards
	charts     chart.Renderer
	imageWidth float64
	assetDir   string
	log        *slog.Logger
}

// NewGenerator returns a Generator for tmpl.
func NewGenerator(tmpl *doctree.Template, consts *config.Constants, opts Options) *Generator {
	g := &Generator{
		template:   tmpl,
		constants:  consts,
		limits:     consts.Limits(),
		charts:     opts.Charts,
		imageWidth: opts.ImageWidthInches,
		assetDir:   opts.AssetDir,
		log:        opts.Logger,
	}
	if g.charts == nil {
		g.charts = chart.NewPlotRenderer(chart.DefaultWidth, chart.DefaultHeight)
	}
	if g.imageWidth <= 0 {
		g.imageWidth = DefaultImageWidth
	}
	if g.log == nil {
		g.log = slog.Default()
	}
	return g
}

// Request is one report to render.
type Request struct {
	ReportType   string
	Placeholders *placeholder.Map
	OutputDir    string // overrides the constants output_dir when set
}

func (req Request) frequency() (string, error) {
	f, _ := req.Placeholders.Get(placeholder.ReportFrequency)
	if strings.TrimSpace(f) == "" {
		return "", errors.New("report_frequency is required")
	}
	return capitalize(strings.TrimSpace(f)), nil
}

// OutputPath is where a report for frequency is written.
func OutputPath(dir, frequency string) string {
	return filepath.Join(dir, capitalize(frequency)+"_Monitoring_Report.docx")
}

// Render writes the title page, table of contents and every section to doc.
// Missing sections, standards, conclusions and images are reported as
// warnings; configuration and data errors abort the render.
func (g *Generator) Render(ctx context.Context, doc docsink.Document, req Request) (*Result, error) {
	if g.template == nil {
		return nil, fmt.Errorf("%w: no report template loaded", config.ErrConfig)
	}
	if err := CheckReportType(req.ReportType); err != nil {
		return nil, err
	}
	freq, err := req.frequency()
	if err != nil {
		return nil, err
	}

	params := req.Placeholders.Parameters()
	names := Sections(params)
	r := &renderer{
		g:       g,
		ctx:     ctx,
		sink:    doc,
		m:       req.Placeholders,
		params:  params,
		tracker: numbering.NewTracker(),
		result:  &Result{Sections: len(names)},
		log:     g.log.With("frequency", freq),
	}

	doc.Title(freq + " Monitoring Report")
	doc.PageBreak()
	doc.TableOfContents()

	for i, name := range names {
		number := strconv.Itoa(i + 1)
		node, ok := g.template.Lookup(name)
		if !ok {
			r.warn(WarnMissingSection, name, "section %q not found in template", name)
			continue
		}
		title := node.Title
		if title == "" {
			title = name
		}
		if err := r.section(node, title, number); err != nil {
			return nil, err
		}
		r.result.Rendered++
	}
	return r.result, nil
}

// Generate renders a Word report and saves it to the output path, replacing
// any earlier report with the same frequency.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	freq, err := req.frequency()
	if err != nil {
		return nil, err
	}
	dir := req.OutputDir
	if dir == "" && g.constants != nil {
		dir = g.constants.OutputDir
	}

	doc := docsink.NewWord()
	res, err := g.Render(ctx, doc, req)
	if err != nil {
		return nil, err
	}
	res.Path = OutputPath(dir, freq)
	if err := doc.Save(res.Path); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}
	g.log.Info("report generated",
		"path", res.Path,
		"sections", res.Rendered,
		"tables", res.Tables,
		"figures", res.Figures,
		"warnings", len(res.Warnings),
	)
	return res, nil
}

func (g *Generator) resolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) || g.assetDir == "" {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return filepath.Join(g.assetDir, path)
}
