package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/dgallion1/envreport/internal/report"
	"github.com/dgallion1/envreport/internal/workbook"
)

// Worker renders report jobs one at a time.
type Worker struct {
	gen         *report.Generator
	consultancy string
	outputRoot  string
	stats       *RenderStats
	log         *slog.Logger
}

func NewWorker(gen *report.Generator, consultancy, outputRoot string, stats *RenderStats, log *slog.Logger) *Worker {
	return &Worker{
		gen:         gen,
		consultancy: consultancy,
		outputRoot:  outputRoot,
		stats:       stats,
		log:         log,
	}
}

// Process renders the report and exports its data workbook.
func (w *Worker) Process(ctx context.Context, job *Job) {
	s := job.Session()
	log := w.log.With("job_id", job.ID, "frequency", s.ReportFrequency)

	dir := filepath.Join(w.outputRoot, job.ID)
	job.setDir(dir)

	// Phase 1: Render
	job.SetStatus(StatusRendering, "rendering")
	start := time.Now()
	res, err := w.gen.Generate(ctx, report.Request{
		ReportType:   s.ReportType,
		Placeholders: s.Placeholders(w.consultancy),
		OutputDir:    dir,
	})
	w.stats.Record(time.Since(start))
	if err != nil {
		log.Error("render failed", "error", err)
		job.AddError(fmt.Sprintf("render: %s", err))
		job.SetStatus(StatusFailed, "rendering")
		return
	}
	job.SetResult(res)
	log.Info("report rendered",
		"path", res.Path,
		"charts", res.Charts,
		"warnings", len(res.Warnings),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	// Phase 2: Export collected data
	job.SetStatus(StatusExporting, "exporting")
	hadErrors := false
	dataPath := workbook.Path(dir, s.ReportFrequency)
	if err := workbook.Export(s, dataPath); err != nil {
		log.Warn("data export failed", "error", err)
		job.AddError(fmt.Sprintf("export: %s", err))
		hadErrors = true
	} else {
		job.SetDataPath(dataPath)
	}

	if hadErrors || res.Partial() {
		job.SetStatus(StatusPartial, "done")
	} else {
		job.SetStatus(StatusCompleted, "done")
	}
}
