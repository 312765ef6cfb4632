package stt

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// WhisperConfig holds configuration for the hosted Whisper backend.
type WhisperConfig struct {
	APIKey  string
	BaseURL string // default: OpenAI's API, or any compatible server
	Model   string // default: "whisper-1"
}

// WhisperProvider transcribes audio through the OpenAI audio API or a
// compatible endpoint such as a local whisper.cpp server.
type WhisperProvider struct {
	client *openai.Client
	model  string
}

func NewWhisperProvider(cfg WhisperConfig) *WhisperProvider {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = openai.Whisper1
	}

	return &WhisperProvider{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
	}
}

func (p *WhisperProvider) Name() string { return "whisper" }

// Transcribe uploads the original file; the API does its own resampling.
func (p *WhisperProvider) Transcribe(ctx context.Context, req Request) (*Result, error) {
	if len(req.PCM) == 0 {
		return nil, ErrEmptyAudio
	}

	resp, err := p.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    p.model,
		FilePath: req.FilePath,
		Language: req.Language,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("whisper transcription: %w", err)
	}

	result := &Result{
		Text:     resp.Text,
		Language: resp.Language,
		Duration: resp.Duration,
	}
	for _, s := range resp.Segments {
		result.Segments = append(result.Segments, Segment{
			Text:  s.Text,
			Start: s.Start,
			End:   s.End,
		})
	}

	return result, nil
}
