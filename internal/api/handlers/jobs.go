package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/voskhttp/voskhttp/internal/job"
	"github.com/voskhttp/voskhttp/internal/models"
	"github.com/voskhttp/voskhttp/internal/queue"
	"github.com/voskhttp/voskhttp/internal/summary"
	"github.com/voskhttp/voskhttp/internal/transcript"
)

type JobsHandler struct {
	jobs        *job.Service
	queueClient *queue.Client
	summarizer  *summary.Service
}

func NewJobsHandler(jobs *job.Service, qc *queue.Client, summarizer *summary.Service) *JobsHandler {
	return &JobsHandler{jobs: jobs, queueClient: qc, summarizer: summarizer}
}

func (h *JobsHandler) available(w http.ResponseWriter) bool {
	if h.jobs == nil || h.queueClient == nil {
		writeError(w, http.StatusServiceUnavailable, "job queue not configured")
		return false
	}
	return true
}

type createJobRequest struct {
	FilePath string `json:"file_path"`
	Language string `json:"language,omitempty"`
}

func (h *JobsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	var req createJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FilePath == "" {
		writeError(w, http.StatusBadRequest, "file_path required")
		return
	}
	if _, err := os.Stat(req.FilePath); err != nil {
		writeError(w, http.StatusBadRequest, "file not found: "+req.FilePath)
		return
	}

	j, err := h.jobs.Create(r.Context(), job.CreateRequest{
		FilePath: req.FilePath,
		Language: req.Language,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := h.queueClient.EnqueueTranscriptionProcess(queue.TranscriptionProcessPayload{JobID: j.ID.String()}); err != nil {
		_ = h.jobs.SetError(r.Context(), j.ID, "enqueue failed: "+err.Error())
		writeError(w, http.StatusInternalServerError, "enqueue failed")
		return
	}

	writeJSON(w, http.StatusAccepted, j)
}

func (h *JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	jobs, err := h.jobs.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"jobs": jobs, "count": len(jobs)})
}

func (h *JobsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	j, ok := h.jobByID(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, j)
}

func (h *JobsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid job ID")
		return
	}

	err = h.jobs.Delete(r.Context(), id)
	if errors.Is(err, job.ErrNotFound) {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Summary condenses a finished transcript through the summarizer backend.
func (h *JobsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}
	if h.summarizer == nil {
		writeError(w, http.StatusServiceUnavailable, "summaries not configured")
		return
	}

	j, ok := h.jobByID(w, r)
	if !ok {
		return
	}
	if j.Status != models.JobStatusDone || len(j.Result) == 0 {
		writeError(w, http.StatusConflict, "job has no transcript yet")
		return
	}

	var doc transcript.Document
	if err := json.Unmarshal(j.Result, &doc); err != nil {
		writeError(w, http.StatusInternalServerError, "stored transcript is unreadable")
		return
	}

	text, err := h.summarizer.Summarize(r.Context(), doc.PlainText())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"job_id": j.ID.String(), "summary": text})
}

func (h *JobsHandler) jobByID(w http.ResponseWriter, r *http.Request) (*models.TranscriptionJob, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid job ID")
		return nil, false
	}

	j, err := h.jobs.GetByID(r.Context(), id)
	if errors.Is(err, job.ErrNotFound) {
		writeError(w, http.StatusNotFound, "job not found")
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}

	return j, true
}
