package indexer

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Job states.
const (
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// FileResult records the outcome for one file within an upload job.
type FileResult struct {
	Filename string `json:"filename"`
	Chunks   int    `json:"chunks,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Job tracks the progress of one background upload batch.
type Job struct {
	ID             string       `json:"job_id"`
	AgentName      string       `json:"agent_name"`
	Status         string       `json:"status"`
	Progress       int          `json:"progress"`
	TotalFiles     int          `json:"total_files"`
	Message        string       `json:"message"`
	ProcessedFiles []FileResult `json:"processed_files"`
	SkippedFiles   []FileResult `json:"skipped_files"`
	FailedFiles    []FileResult `json:"failed_files"`
	TotalChunks    int          `json:"total_chunks"`
	StartedAt      time.Time    `json:"started_at"`
	CompletedAt    *time.Time   `json:"completed_at,omitempty"`
}

// JobTracker holds upload jobs in memory for status polling. Jobs live for
// the process lifetime; there is no persistence across restarts.
type JobTracker struct {
	mu   sync.Mutex
	jobs map[string]*Job
}

// NewJobTracker creates an empty tracker.
func NewJobTracker() *JobTracker {
	return &JobTracker{jobs: make(map[string]*Job)}
}

// Start registers a new processing job and returns its ID.
func (t *JobTracker) Start(agentName string, totalFiles int) string {
	id := uuid.NewString()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.jobs[id] = &Job{
		ID:             id,
		AgentName:      agentName,
		Status:         JobStatusProcessing,
		TotalFiles:     totalFiles,
		ProcessedFiles: []FileResult{},
		SkippedFiles:   []FileResult{},
		FailedFiles:    []FileResult{},
		StartedAt:      time.Now().UTC(),
	}
	return id
}

// Get returns a copy of the job, or nil if unknown.
func (t *JobTracker) Get(id string) *Job {
	t.mu.Lock()
	defer t.mu.Unlock()

	job, ok := t.jobs[id]
	if !ok {
		return nil
	}
	copied := *job
	return &copied
}

// Update applies fn to the job under the tracker lock.
func (t *JobTracker) Update(id string, fn func(*Job)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if job, ok := t.jobs[id]; ok {
		fn(job)
	}
}

// Complete marks the job finished with a summary message.
func (t *JobTracker) Complete(id, message string) {
	now := time.Now().UTC()
	t.Update(id, func(job *Job) {
		job.Status = JobStatusCompleted
		job.Progress = job.TotalFiles
		job.Message = message
		job.CompletedAt = &now
	})
}

// Fail marks the job failed with an error message.
func (t *JobTracker) Fail(id, message string) {
	now := time.Now().UTC()
	t.Update(id, func(job *Job) {
		job.Status = JobStatusFailed
		job.Message = message
		job.CompletedAt = &now
	})
}
