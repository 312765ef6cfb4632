package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/voskhttp/voskhttp/internal/job"
	"github.com/voskhttp/voskhttp/internal/models"
	"github.com/voskhttp/voskhttp/internal/queue"
	"github.com/voskhttp/voskhttp/internal/transcribe"
)

type TranscribeWorker struct {
	jobs        *job.Service
	svc         *transcribe.Service
	queueClient *queue.Client
	embed       bool
}

func NewTranscribeWorker(jobs *job.Service, svc *transcribe.Service, qc *queue.Client, embed bool) *TranscribeWorker {
	return &TranscribeWorker{
		jobs:        jobs,
		svc:         svc,
		queueClient: qc,
		embed:       embed,
	}
}

func (w *TranscribeWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.TranscriptionProcessPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	jobID, err := uuid.Parse(payload.JobID)
	if err != nil {
		return fmt.Errorf("parse job ID: %w", err)
	}

	slog.Info("processing transcription job", "job_id", jobID)

	j, err := w.jobs.GetByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("get job: %w", err)
	}

	if err := w.jobs.UpdateStatus(ctx, jobID, models.JobStatusProcessing); err != nil {
		return fmt.Errorf("update status to processing: %w", err)
	}

	doc, err := w.svc.TranscribeFile(ctx, j.FilePath, j.Language)
	if err != nil {
		if serr := w.jobs.SetError(ctx, jobID, err.Error()); serr != nil {
			slog.Error("failed to record job error", "job_id", jobID, "error", serr)
		}
		return fmt.Errorf("transcribe %s: %w", j.FilePath, err)
	}

	result, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	if err := w.jobs.SetResult(ctx, jobID, result); err != nil {
		return fmt.Errorf("set result: %w", err)
	}

	if w.embed && w.queueClient != nil {
		if err := w.queueClient.EnqueueTranscriptEmbed(queue.TranscriptEmbedPayload{JobID: jobID.String()}); err != nil {
			slog.Warn("failed to enqueue embedding", "job_id", jobID, "error", err)
		}
	}

	slog.Info("transcription job done", "job_id", jobID, "utterances", len(doc.Text))
	return nil
}
