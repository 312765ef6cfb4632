package stt

import (
	"context"
	"errors"
)

// ErrEmptyAudio means the input decoded to zero samples, typically a file that
// is not audio at all.
var ErrEmptyAudio = errors.New("no audio samples decoded")

// Request holds the audio to transcribe. PCM carries mono s16le samples at
// SampleRate; FilePath points at the original (pre-resample) file for backends
// that upload it as-is.
type Request struct {
	FilePath   string
	PCM        []byte
	SampleRate float64
	Language   string
}

// Word is a single recognized word with timing and confidence.
type Word struct {
	Word       string  `json:"word"`
	Confidence float64 `json:"conf"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
}

// Segment is one recognized utterance.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Words []Word  `json:"words,omitempty"`
}

// Result holds the transcription output.
type Result struct {
	Text     string    `json:"text"`
	Segments []Segment `json:"segments"`
	Language string    `json:"language,omitempty"`
	Duration float64   `json:"duration"`
}

// Provider is the interface for speech-to-text backends.
type Provider interface {
	Transcribe(ctx context.Context, req Request) (*Result, error)
	Name() string
}
