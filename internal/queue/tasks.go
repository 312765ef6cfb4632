package queue

const (
	TypeTranscriptionProcess = "transcription:process"
	TypeTranscriptEmbed      = "transcript:embed"
)

type TranscriptionProcessPayload struct {
	JobID string `json:"job_id"`
}

type TranscriptEmbedPayload struct {
	JobID string `json:"job_id"`
}
