package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voskhttp/voskhttp/internal/media"
	"github.com/voskhttp/voskhttp/internal/stt"
	"github.com/voskhttp/voskhttp/internal/transcribe"
)

type fakeResampler struct {
	pcm []byte
	err error
}

func (f *fakeResampler) ResamplePCM(_ context.Context, _ string, _ float64) ([]byte, error) {
	return f.pcm, f.err
}

type fakeProvider struct {
	result *stt.Result
	err    error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Transcribe(_ context.Context, _ stt.Request) (*stt.Result, error) {
	return f.result, f.err
}

func newTestHandler(t *testing.T, provider stt.Provider, pcm []byte) *TranscribeHandler {
	t.Helper()
	svc := transcribe.NewService(provider, &fakeResampler{pcm: pcm}, nil, 16000)
	return NewTranscribeHandler(svc, 1<<20)
}

func tempAudioFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "speech.wav")
	require.NoError(t, os.WriteFile(path, []byte("riff"), 0o644))
	return path
}

func TestRecognizePath(t *testing.T) {
	provider := &fakeProvider{
		result: &stt.Result{
			Text: "hello world",
			Segments: []stt.Segment{
				{
					Text: "hello world",
					Words: []stt.Word{
						{Word: "hello", Confidence: 1, Start: 0.1, End: 0.5},
						{Word: "world", Confidence: 0.9, Start: 0.6, End: 1.0},
					},
				},
			},
		},
	}
	h := newTestHandler(t, provider, []byte{1, 2, 3, 4})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tempAudioFile(t)))
	rec := httptest.NewRecorder()
	h.RecognizePath(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, `"schemaVersion":"2.0"`)
	assert.Contains(t, body, "hello world")
}

func TestRecognizePathMissingFile(t *testing.T) {
	h := newTestHandler(t, &fakeProvider{}, []byte{1})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("/no/such/file.wav"))
	rec := httptest.NewRecorder()
	h.RecognizePath(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "File not found: /no/such/file.wav")
}

func TestRecognizePathEmptyAudio(t *testing.T) {
	h := newTestHandler(t, &fakeProvider{}, nil)

	path := tempAudioFile(t)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(path))
	rec := httptest.NewRecorder()
	h.RecognizePath(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid file: "+path)
}

func TestRecognizePathUndecodableFile(t *testing.T) {
	svc := transcribe.NewService(&fakeProvider{}, &fakeResampler{err: media.ErrUndecodable}, nil, 16000)
	h := NewTranscribeHandler(svc, 1<<20)

	path := tempAudioFile(t)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(path))
	rec := httptest.NewRecorder()
	h.RecognizePath(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid file: "+path)
}

func TestRecognizePathProviderFailureBodyIsOpaque(t *testing.T) {
	provider := &fakeProvider{err: errors.New("kaldi blew up at frame 42")}
	h := newTestHandler(t, provider, []byte{1, 2})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tempAudioFile(t)))
	rec := httptest.NewRecorder()
	h.RecognizePath(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "kaldi")
}

func TestRecognizePathEmptyBody(t *testing.T) {
	h := newTestHandler(t, &fakeProvider{}, []byte{1})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("  "))
	rec := httptest.NewRecorder()
	h.RecognizePath(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateJSON(t *testing.T) {
	provider := &fakeProvider{result: &stt.Result{Text: "ok"}}
	h := newTestHandler(t, provider, []byte{1, 2})

	body := `{"file_path": "` + tempAudioFile(t) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transcriptions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"text":["ok"]`)
}

func TestCreateMissingFilePath(t *testing.T) {
	h := newTestHandler(t, &fakeProvider{}, []byte{1})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transcriptions", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "file_path required")
}

func TestJobsUnavailable(t *testing.T) {
	h := NewJobsHandler(nil, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", strings.NewReader(`{"file_path":"x"}`))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSearchUnavailable(t *testing.T) {
	h := NewSearchHandler(nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", strings.NewReader(`{"query":"x"}`))
	rec := httptest.NewRecorder()
	h.Query(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
