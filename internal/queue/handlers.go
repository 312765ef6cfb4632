package queue

import (
	"github.com/hibiken/asynq"
)

// Mux routes the two transcription task types to their workers.
type Mux struct {
	mux *asynq.ServeMux
}

func NewMux() *Mux {
	return &Mux{mux: asynq.NewServeMux()}
}

// HandleTranscriptionProcess registers the worker that decodes queued jobs.
func (m *Mux) HandleTranscriptionProcess(h asynq.Handler) {
	m.mux.Handle(TypeTranscriptionProcess, h)
}

// HandleTranscriptEmbed registers the worker that embeds finished transcripts.
// Left unregistered when embeddings are not configured; such tasks then fail
// and retry until they expire.
func (m *Mux) HandleTranscriptEmbed(h asynq.Handler) {
	m.mux.Handle(TypeTranscriptEmbed, h)
}

// ServeMux exposes the underlying handler for asynq's server.
func (m *Mux) ServeMux() *asynq.ServeMux {
	return m.mux
}
