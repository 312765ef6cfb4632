// Package transcribe wires media decoding, the STT backend, result formatting
// and the result cache into one synchronous operation shared by the HTTP
// handlers and the queue worker.
package transcribe

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/voskhttp/voskhttp/internal/cache"
	"github.com/voskhttp/voskhttp/internal/stt"
	"github.com/voskhttp/voskhttp/internal/transcript"
)

const defaultCacheTTL = 24 * time.Hour

// Resampler decodes an audio file to mono s16le PCM at the given rate.
type Resampler interface {
	ResamplePCM(ctx context.Context, filePath string, sampleRate float64) ([]byte, error)
}

type Service struct {
	provider   stt.Provider
	resampler  Resampler
	cache      *cache.Cache // nil disables caching
	sampleRate float64
	cacheTTL   time.Duration
}

func NewService(provider stt.Provider, resampler Resampler, c *cache.Cache, sampleRate float64) *Service {
	return &Service{
		provider:   provider,
		resampler:  resampler,
		cache:      c,
		sampleRate: sampleRate,
		cacheTTL:   defaultCacheTTL,
	}
}

// TranscribeFile transcribes the audio file at path and returns the formatted
// monologues document. Missing files surface fs.ErrNotExist; files that decode
// to zero samples surface stt.ErrEmptyAudio.
func (s *Service) TranscribeFile(ctx context.Context, path, language string) (*transcript.Document, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("input file: %w", err)
	}

	slog.Info("recognizing", "path", path, "backend", s.provider.Name())
	start := time.Now()

	pcm, err := s.resampler.ResamplePCM(ctx, path, s.sampleRate)
	if err != nil {
		return nil, fmt.Errorf("resampling: %w", err)
	}
	if len(pcm) == 0 {
		return nil, stt.ErrEmptyAudio
	}

	key := cache.TranscriptKey(pcm, s.provider.Name(), language)
	if s.cache != nil {
		var doc transcript.Document
		err := s.cache.Get(ctx, key, &doc)
		if err == nil {
			slog.Info("transcript cache hit", "path", path)
			return &doc, nil
		}
		if !cache.IsMiss(err) {
			slog.Warn("transcript cache read failed", "error", err)
		}
	}

	result, err := s.provider.Transcribe(ctx, stt.Request{
		FilePath:   path,
		PCM:        pcm,
		SampleRate: s.sampleRate,
		Language:   language,
	})
	if err != nil {
		return nil, err
	}

	doc := transcript.FromResult(result)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, doc, s.cacheTTL); err != nil {
			slog.Warn("transcript cache write failed", "error", err)
		}
	}

	slog.Info("recognized", "path", path, "elapsed", time.Since(start).Seconds(),
		"utterances", len(doc.Text))

	return doc, nil
}
