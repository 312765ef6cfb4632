package vosk

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	voskapi "github.com/alphacep/vosk-api/go"

	"github.com/voskhttp/voskhttp/internal/stt"
)

// Config holds settings for the Vosk engine.
type Config struct {
	ModelPath  string
	SampleRate float64
	ChunkSize  int
}

// Engine transcribes audio through libvosk. The model is loaded once and
// shared; a recognizer is created per request.
type Engine struct {
	model      *voskapi.VoskModel
	sampleRate float64
	chunkSize  int
}

// NewEngine loads the acoustic model from cfg.ModelPath.
func NewEngine(cfg Config) (*Engine, error) {
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("model path %s: %w", cfg.ModelPath, err)
	}

	voskapi.SetLogLevel(-1)

	model, err := voskapi.NewModel(cfg.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("loading model: %w", err)
	}

	sampleRate := cfg.SampleRate
	if sampleRate == 0 {
		sampleRate = 16000
	}
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = 4000
	}

	return &Engine{
		model:      model,
		sampleRate: sampleRate,
		chunkSize:  chunkSize,
	}, nil
}

func (e *Engine) Name() string { return "vosk" }

// SampleRate reports the rate the engine expects PCM input at.
func (e *Engine) SampleRate() float64 { return e.sampleRate }

func (e *Engine) Close() {
	e.model.Free()
}

// recognizer is the slice of the libvosk recognizer Transcribe depends on.
type recognizer interface {
	AcceptWaveform([]byte) int
	Result() string
	FinalResult() string
}

// Transcribe feeds req.PCM to a fresh recognizer in chunks and collects the
// accepted results plus the final flush.
func (e *Engine) Transcribe(ctx context.Context, req stt.Request) (*stt.Result, error) {
	if len(req.PCM) == 0 {
		return nil, stt.ErrEmptyAudio
	}

	rec, err := voskapi.NewRecognizer(e.model, e.sampleRate)
	if err != nil {
		return nil, fmt.Errorf("creating recognizer: %w", err)
	}
	defer rec.Free()

	rec.SetWords(1)

	start := time.Now()

	raw, err := e.feed(ctx, rec, req.PCM)
	if err != nil {
		return nil, err
	}

	result := assembleResult(raw)
	result.Duration = float64(len(req.PCM)) / (2 * e.sampleRate)

	elapsed := time.Since(start)
	slog.Info("decode finished",
		"elapsed", elapsed.Seconds(),
		"xrt", elapsed.Seconds()*(2*e.sampleRate)/float64(len(req.PCM)))

	return result, nil
}

// feed streams pcm through rec. AcceptWaveform returns negative on recognizer
// failure and positive at an utterance boundary.
func (e *Engine) feed(ctx context.Context, rec recognizer, pcm []byte) ([]recognizerResult, error) {
	var raw []recognizerResult

	for off := 0; off < len(pcm); off += e.chunkSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := off + e.chunkSize
		if end > len(pcm) {
			end = len(pcm)
		}

		switch n := rec.AcceptWaveform(pcm[off:end]); {
		case n < 0:
			return nil, fmt.Errorf("recognizer failed at byte offset %d", off)
		case n > 0:
			res, err := parseResult(rec.Result())
			if err != nil {
				return nil, err
			}
			if res.Text != "" {
				slog.Info("accepted utterance", "text", res.Text)
			}
			raw = append(raw, *res)
		}
	}

	final, err := parseResult(rec.FinalResult())
	if err != nil {
		return nil, err
	}
	return append(raw, *final), nil
}

func assembleResult(raw []recognizerResult) *stt.Result {
	result := &stt.Result{}

	var texts []string
	for _, r := range raw {
		if r.Text == "" && len(r.Result) == 0 {
			continue
		}
		if r.Text != "" {
			texts = append(texts, r.Text)
		}

		// Text with no word array still becomes a segment so it survives
		// into the document's text list.
		seg := stt.Segment{Text: r.Text}
		if len(r.Result) > 0 {
			seg.Start = r.Result[0].Start
			seg.End = r.Result[len(r.Result)-1].End
			for _, w := range r.Result {
				seg.Words = append(seg.Words, stt.Word{
					Word:       w.Word,
					Confidence: w.Conf,
					Start:      w.Start,
					End:        w.End,
				})
			}
		}
		result.Segments = append(result.Segments, seg)
	}

	result.Text = strings.Join(texts, " ")
	return result
}
