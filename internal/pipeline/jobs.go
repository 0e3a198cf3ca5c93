package pipeline

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/envreport/internal/report"
	"github.com/dgallion1/envreport/internal/session"
)

// JobStatus represents the state of a report job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusRendering JobStatus = "rendering"
	StatusExporting JobStatus = "exporting"
	StatusCompleted JobStatus = "completed"
	StatusPartial   JobStatus = "partial"
	StatusFailed    JobStatus = "failed"
)

// Done reports whether the status is terminal.
func (s JobStatus) Done() bool {
	return s == StatusCompleted || s == StatusPartial || s == StatusFailed
}

// Job tracks the state of a single report build.
type Job struct {
	mu sync.Mutex

	ID string `json:"job_id"`

	Status    JobStatus `json:"status"`
	Phase     string    `json:"phase"`
	Frequency string    `json:"frequency"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	session    *session.Session
	dir        string
	reportPath string
	dataPath   string
	errors     []string
}

// Progress summarizes the rendered report.
type Progress struct {
	Sections int      `json:"sections"`
	Rendered int      `json:"rendered"`
	Tables   int      `json:"tables"`
	Figures  int      `json:"figures"`
	Charts   int      `json:"charts"`
	Warnings []string `json:"warnings"`
	Errors   []string `json:"errors"`
}

// NewJob returns a queued job for s with a fresh ID.
func NewJob(s *session.Session) *Job {
	now := time.Now()
	return &Job{
		ID:        uuid.New().String(),
		Status:    StatusQueued,
		Phase:     "queued",
		Frequency: s.ReportFrequency,
		CreatedAt: now,
		UpdatedAt: now,
		session:   s,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs and returns them.
func (s *JobStore) Cleanup() []*Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	var expired []*Job
	for id, job := range s.jobs {
		job.mu.Lock()
		updated := job.UpdatedAt
		job.mu.Unlock()
		if now.Sub(updated) > s.ttl {
			delete(s.jobs, id)
			expired = append(expired, job)
		}
	}
	return expired
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetResult records the rendered report.
func (j *Job) SetResult(res *report.Result) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.reportPath = res.Path
	j.Progress.Sections = res.Sections
	j.Progress.Rendered = res.Rendered
	j.Progress.Tables = res.Tables
	j.Progress.Figures = res.Figures
	j.Progress.Charts = res.Charts
	j.Progress.Warnings = j.Progress.Warnings[:0]
	for _, w := range res.Warnings {
		j.Progress.Warnings = append(j.Progress.Warnings, w.String())
	}
	j.UpdatedAt = time.Now()
}

// SetDataPath records the exported data workbook.
func (j *Job) SetDataPath(path string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.dataPath = path
	j.UpdatedAt = time.Now()
}

// Session returns the collected data the job renders.
func (j *Job) Session() *session.Session {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.session
}

// Dir returns the job's output directory, empty until the job runs.
func (j *Job) Dir() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.dir
}

func (j *Job) setDir(dir string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.dir = dir
}

// ReportPath returns the generated .docx path, empty until rendered.
func (j *Job) ReportPath() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.reportPath
}

// DataPath returns the exported .xlsx path, empty until exported.
func (j *Job) DataPath() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.dataPath
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string    `json:"job_id"`
	Status    JobStatus `json:"status"`
	Phase     string    `json:"phase"`
	Frequency string    `json:"frequency"`
	Progress  Progress  `json:"progress"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	return JobSnapshot{
		ID:        j.ID,
		Status:    j.Status,
		Phase:     j.Phase,
		Frequency: j.Frequency,
		Progress: Progress{
			Sections: j.Progress.Sections,
			Rendered: j.Progress.Rendered,
			Tables:   j.Progress.Tables,
			Figures:  j.Progress.Figures,
			Charts:   j.Progress.Charts,
			Warnings: nonNil(j.Progress.Warnings),
			Errors:   nonNil(j.Progress.Errors),
		},
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}

func nonNil(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
