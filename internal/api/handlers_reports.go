package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dgallion1/envreport/internal/docsink"
	"github.com/dgallion1/envreport/internal/pipeline"
	"github.com/dgallion1/envreport/internal/report"
	"github.com/dgallion1/envreport/internal/session"
	"github.com/go-chi/chi/v5"
)

const (
	docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	var sess session.Session
	if err := json.NewDecoder(r.Body).Decode(&sess); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("request exceeds max size (%d bytes)", s.cfg.MaxBodyBytes), http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "invalid session json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := report.CheckReportType(sess.ReportType); err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if err := sess.Validate(); err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if err := sess.ConfineImages(s.cfg.UploadDir); err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	job := pipeline.NewJob(&sess)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"status":   pipeline.StatusQueued,
		"poll_url": fmt.Sprintf("/api/reports/%s/status", job.ID),
	})
}

func (s *Server) handleReportStatus(w http.ResponseWriter, r *http.Request) {
	job := s.lookupJob(w, r)
	if job == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

func (s *Server) handleReportDownload(w http.ResponseWriter, r *http.Request) {
	job := s.finishedJob(w, r)
	if job == nil {
		return
	}
	serveArtifact(w, r, job.ReportPath(), docxContentType)
}

func (s *Server) handleReportData(w http.ResponseWriter, r *http.Request) {
	job := s.finishedJob(w, r)
	if job == nil {
		return
	}
	serveArtifact(w, r, job.DataPath(), xlsxContentType)
}

// handleReportOutline lists the headings of a finished report.
func (s *Server) handleReportOutline(w http.ResponseWriter, r *http.Request) {
	job := s.finishedJob(w, r)
	if job == nil {
		return
	}
	path := job.ReportPath()
	if path == "" {
		jsonError(w, "report not available", http.StatusNotFound)
		return
	}
	f, err := os.Open(path)
	if err != nil {
		jsonError(w, "report not available", http.StatusNotFound)
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		jsonError(w, "failed to read report", http.StatusInternalServerError)
		return
	}
	outline, err := docsink.Outline(f, info.Size())
	if err != nil {
		s.log.Error("outline failed", "job_id", job.ID, "error", err)
		jsonError(w, "failed to read report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"headings": outline,
	})
}

func (s *Server) lookupJob(w http.ResponseWriter, r *http.Request) *pipeline.Job {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
	}
	return job
}

// finishedJob is lookupJob for endpoints that need the job's output.
func (s *Server) finishedJob(w http.ResponseWriter, r *http.Request) *pipeline.Job {
	job := s.lookupJob(w, r)
	if job == nil {
		return nil
	}
	if status := job.Snapshot().Status; !status.Done() {
		jsonError(w, fmt.Sprintf("job is %s", status), http.StatusConflict)
		return nil
	}
	return job
}

func serveArtifact(w http.ResponseWriter, r *http.Request, path, contentType string) {
	if path == "" {
		jsonError(w, "file not available", http.StatusNotFound)
		return
	}
	if _, err := os.Stat(path); err != nil {
		jsonError(w, "file not available", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	http.ServeFile(w, r, path)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
