package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusDone       JobStatus = "done"
	JobStatusFailed     JobStatus = "failed"
)

// TranscriptionJob is one queued transcription of an audio file.
type TranscriptionJob struct {
	ID        uuid.UUID       `json:"id"`
	FilePath  string          `json:"file_path"`
	Language  string          `json:"language,omitempty"`
	Status    JobStatus       `json:"status"`
	Result    json.RawMessage `json:"result,omitempty"` // monologues document JSON
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
