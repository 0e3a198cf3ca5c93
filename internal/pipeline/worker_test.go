package pipeline

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/envreport/internal/chart"
	"github.com/dgallion1/envreport/internal/config"
	"github.com/dgallion1/envreport/internal/parser"
	"github.com/dgallion1/envreport/internal/report"
	"github.com/dgallion1/envreport/internal/session"
)

const workerTemplate = `{
	"introduction": {"text": "Prepared by {consultancy_name} for {contractor_name}."},
	"ambient_air_quality_monitoring": {
		"table": {
			"title": "Table {table_number}: Air Quality",
			"data": [["Monitoring Location", "Time", "CO", "O3", "NO2", "SO2", "PM2.5", "PM10"]]
		}
	},
	"conclusion": {"text": "Done."}
}`

type pngCharts struct{}

func (pngCharts) Render(chart.Spec) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 16, 8))); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func testGenerator(t *testing.T) (*report.Generator, *config.Constants) {
	t.Helper()
	tmpl, err := parser.ParseTemplate(strings.NewReader(workerTemplate))
	if err != nil {
		t.Fatalf("parse template: %v", err)
	}
	consts := &config.Constants{
		ConsultancyName: "Green Fields",
		Conclusions:     map[string]string{"air": "Air complied."},
	}
	log := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return report.NewGenerator(tmpl, consts, report.Options{Charts: pngCharts{}, Logger: log}), consts
}

func testSession() *session.Session {
	return &session.Session{
		ContractorName:  "Amala",
		ReportFrequency: "Weekly",
		Parameters:      []string{"Air"},
		Air:             [][]string{{"ML-01", "t1", "1016.4", "51", "88.8", "41.4", "14.3", "120.9"}},
	}
}

func TestWorker_Process(t *testing.T) {
	gen, consts := testGenerator(t)
	root := t.TempDir()
	log := slog.New(slog.NewJSONHandler(io.Discard, nil))
	w := NewWorker(gen, consts.ConsultancyName, root, NewRenderStats(time.Hour), log)

	job := NewJob(testSession())
	w.Process(context.Background(), job)

	snap := job.Snapshot()
	// Scope of Work, Regulatory Standards and Appendices are not in the template.
	if snap.Status != StatusPartial {
		t.Fatalf("expected partial status, got %s (errors %v)", snap.Status, snap.Progress.Errors)
	}
	if snap.Progress.Charts != 6 || snap.Progress.Sections != 6 || snap.Progress.Rendered != 3 {
		t.Errorf("unexpected progress %+v", snap.Progress)
	}
	if !strings.HasPrefix(job.ReportPath(), job.Dir()) || !strings.HasSuffix(job.ReportPath(), "Weekly_Monitoring_Report.docx") {
		t.Errorf("unexpected report path %q", job.ReportPath())
	}
	for _, p := range []string{job.ReportPath(), job.DataPath()} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected output %q: %v", p, err)
		}
	}
}

func TestWorker_ProcessFailure(t *testing.T) {
	gen, consts := testGenerator(t)
	log := slog.New(slog.NewJSONHandler(io.Discard, nil))
	w := NewWorker(gen, consts.ConsultancyName, t.TempDir(), NewRenderStats(time.Hour), log)

	s := testSession()
	s.Air[0][2] = "n/a"
	job := NewJob(s)
	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusFailed {
		t.Fatalf("expected failed status, got %s", snap.Status)
	}
	if len(snap.Progress.Errors) != 1 || !strings.Contains(snap.Progress.Errors[0], "not a number") {
		t.Errorf("unexpected errors %v", snap.Progress.Errors)
	}
}

func TestOrchestrator_RunsJobs(t *testing.T) {
	gen, consts := testGenerator(t)
	cfg := config.Config{WorkerCount: 2, MaxQueueSize: 4, JobTTL: time.Hour}
	log := slog.New(slog.NewJSONHandler(io.Discard, nil))
	orch := NewOrchestrator(cfg, gen, consts, t.TempDir(), log)
	orch.Start(context.Background())
	defer orch.Stop()

	jobs := []*Job{NewJob(testSession()), NewJob(testSession())}
	for _, j := range jobs {
		if err := orch.Submit(j); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	deadline := time.Now().Add(30 * time.Second)
	for _, j := range jobs {
		for !j.Snapshot().Status.Done() {
			if time.Now().After(deadline) {
				t.Fatalf("job %s did not finish", j.ID)
			}
			time.Sleep(10 * time.Millisecond)
		}
		if orch.GetJob(j.ID) != j {
			t.Errorf("expected job %s in store", j.ID)
		}
	}
	if jobs[0].ReportPath() == jobs[1].ReportPath() {
		t.Error("expected concurrent jobs to write separate reports")
	}
	if orch.Stats().Snapshot().Count != 2 {
		t.Errorf("expected 2 render samples, got %d", orch.Stats().Snapshot().Count)
	}
}

func TestOrchestrator_QueueFull(t *testing.T) {
	gen, consts := testGenerator(t)
	cfg := config.Config{WorkerCount: 1, MaxQueueSize: 1, JobTTL: time.Hour}
	log := slog.New(slog.NewJSONHandler(io.Discard, nil))
	orch := NewOrchestrator(cfg, gen, consts, t.TempDir(), log)

	// Not started: nothing drains the queue.
	if err := orch.Submit(NewJob(testSession())); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	job := NewJob(testSession())
	if err := orch.Submit(job); err == nil {
		t.Fatal("expected queue full error")
	}
	if job.Snapshot().Status != StatusFailed {
		t.Errorf("expected rejected job to be failed, got %s", job.Snapshot().Status)
	}
	if orch.QueueDepth() != 1 {
		t.Errorf("expected queue depth 1, got %d", orch.QueueDepth())
	}
}
