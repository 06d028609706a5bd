package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"techdesk-ai/internal/contextutil"
	"techdesk-ai/internal/indexer"
	"techdesk-ai/internal/storage"
)

// maxUploadBytes bounds one upload request (all files combined).
const maxUploadBytes = 100 << 20

// Ingester runs the document ingest pipeline. *indexer.Pipeline satisfies
// this.
type Ingester interface {
	IngestPDF(ctx context.Context, agentName, path, filename string) (int, error)
	RemoveFile(ctx context.Context, agentName, filename string) (int, error)
}

// UploadHandler accepts PDF uploads for an agent and processes them in the
// background, exposing job progress for polling.
type UploadHandler struct {
	agents     storage.AgentStore
	ingester   Ingester
	jobs       *indexer.JobTracker
	uploadsDir string
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(agents storage.AgentStore, ingester Ingester, jobs *indexer.JobTracker, uploadsDir string) *UploadHandler {
	return &UploadHandler{
		agents:     agents,
		ingester:   ingester,
		jobs:       jobs,
		uploadsDir: uploadsDir,
	}
}

// Upload handles POST /api/agents/{name}/upload. Files are saved to disk
// synchronously; parsing and indexing run in the background under a job ID
// the client polls.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)
	agentName := chi.URLParam(r, "name")

	if _, err := h.agents.GetByName(ctx, agentName); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, ctx, http.StatusNotFound, "Agent not found")
			return
		}
		writeError(w, ctx, http.StatusInternalServerError, "Failed to resolve agent")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, ctx, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeError(w, ctx, http.StatusBadRequest, "No files provided")
		return
	}
	for _, header := range files {
		if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
			writeError(w, ctx, http.StatusBadRequest, fmt.Sprintf("Only PDF files are supported: %s", header.Filename))
			return
		}
	}

	saved, err := h.saveUploads(files)
	if err != nil {
		logger.ErrorContext(ctx, "failed to save uploads", "error", err)
		writeError(w, ctx, http.StatusInternalServerError, "Failed to save uploaded files")
		return
	}

	jobID := h.jobs.Start(agentName, len(saved))

	// Detach from the request context: the job outlives the HTTP exchange.
	bgCtx := contextutil.WithLogger(context.Background(), contextutil.LoggerFromContext(ctx))
	go h.processFiles(bgCtx, jobID, agentName, saved)

	writeJSON(w, ctx, http.StatusAccepted, map[string]any{
		"job_id":  jobID,
		"message": fmt.Sprintf("Processing %d file(s) for agent '%s'", len(saved), agentName),
	})
}

// JobStatus handles GET /api/upload-status/{jobID}.
func (h *UploadHandler) JobStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	jobID := chi.URLParam(r, "jobID")

	job := h.jobs.Get(jobID)
	if job == nil {
		writeError(w, ctx, http.StatusNotFound, "Job not found")
		return
	}
	writeJSON(w, ctx, http.StatusOK, job)
}

// DeleteFile handles DELETE /api/agents/{name}/files/{filename}.
func (h *UploadHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	agentName := chi.URLParam(r, "name")
	filename := chi.URLParam(r, "filename")

	removed, err := h.ingester.RemoveFile(ctx, agentName, filename)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, ctx, http.StatusNotFound, "Agent not found")
		return
	}
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to remove file", "error", err)
		writeError(w, ctx, http.StatusInternalServerError, "Failed to remove file")
		return
	}

	writeJSON(w, ctx, http.StatusOK, map[string]any{
		"message":        fmt.Sprintf("Removed %s", filename),
		"chunks_removed": removed,
	})
}

type savedUpload struct {
	path     string
	filename string
}

// saveUploads writes the uploaded files under uploadsDir with unique names.
func (h *UploadHandler) saveUploads(files []*multipart.FileHeader) ([]savedUpload, error) {
	if err := os.MkdirAll(h.uploadsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads dir: %w", err)
	}

	saved := make([]savedUpload, 0, len(files))
	for _, header := range files {
		src, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open upload %s: %w", header.Filename, err)
		}

		filename := filepath.Base(header.Filename)
		path := filepath.Join(h.uploadsDir, uuid.NewString()+"_"+filename)
		dst, err := os.Create(path)
		if err != nil {
			src.Close()
			return nil, fmt.Errorf("failed to create %s: %w", path, err)
		}

		_, err = io.Copy(dst, src)
		src.Close()
		if closeErr := dst.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}

		saved = append(saved, savedUpload{path: path, filename: filename})
	}
	return saved, nil
}

// processFiles runs the ingest pipeline for each saved file, updating job
// progress as it goes. Saved files are deleted once processed.
func (h *UploadHandler) processFiles(ctx context.Context, jobID, agentName string, files []savedUpload) {
	logger := contextutil.LoggerFromContext(ctx)

	for i, file := range files {
		h.jobs.Update(jobID, func(job *indexer.Job) {
			job.Progress = i
			job.Message = fmt.Sprintf("Processing %s...", file.filename)
		})

		chunks, err := h.ingester.IngestPDF(ctx, agentName, file.path, file.filename)
		switch {
		case errors.Is(err, indexer.ErrDuplicateFile):
			h.jobs.Update(jobID, func(job *indexer.Job) {
				job.SkippedFiles = append(job.SkippedFiles, indexer.FileResult{
					Filename: file.filename,
					Error:    "already processed for this agent",
				})
			})
		case err != nil:
			logger.ErrorContext(ctx, "file ingest failed", "filename", file.filename, "error", err)
			h.jobs.Update(jobID, func(job *indexer.Job) {
				job.FailedFiles = append(job.FailedFiles, indexer.FileResult{
					Filename: file.filename,
					Error:    err.Error(),
				})
			})
		default:
			h.jobs.Update(jobID, func(job *indexer.Job) {
				job.ProcessedFiles = append(job.ProcessedFiles, indexer.FileResult{
					Filename: file.filename,
					Chunks:   chunks,
				})
				job.TotalChunks += chunks
			})
		}

		if err := os.Remove(file.path); err != nil {
			logger.WarnContext(ctx, "failed to remove upload", "path", file.path, "error", err)
		}
	}

	h.jobs.Complete(jobID, h.summarize(jobID, agentName))
}

// summarize builds the completion message from the job's file tallies.
func (h *UploadHandler) summarize(jobID, agentName string) string {
	job := h.jobs.Get(jobID)
	if job == nil {
		return ""
	}

	var parts []string
	if n := len(job.ProcessedFiles); n > 0 {
		parts = append(parts, fmt.Sprintf("Successfully processed %d new file(s)", n))
	}
	if n := len(job.SkippedFiles); n > 0 {
		parts = append(parts, fmt.Sprintf("Skipped %d file(s)", n))
	}
	if n := len(job.FailedFiles); n > 0 {
		parts = append(parts, fmt.Sprintf("Failed to process %d file(s)", n))
	}
	if len(parts) == 0 {
		parts = append(parts, "Processed 0 file(s)")
	}
	return strings.Join(parts, " and ") + fmt.Sprintf(" for agent '%s'.", agentName)
}
