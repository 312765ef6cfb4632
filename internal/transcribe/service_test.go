package transcribe

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voskhttp/voskhttp/internal/stt"
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
	calls  int
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Transcribe(_ context.Context, _ stt.Request) (*stt.Result, error) {
	f.calls++
	return f.result, f.err
}

func writeTempAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audio.wav")
	require.NoError(t, os.WriteFile(path, []byte("riff"), 0o644))
	return path
}

func TestTranscribeFile(t *testing.T) {
	provider := &fakeProvider{
		result: &stt.Result{
			Text: "hello there",
			Segments: []stt.Segment{
				{
					Text: "hello there",
					Words: []stt.Word{
						{Word: "hello", Confidence: 1, Start: 0.1, End: 0.4},
						{Word: "there", Confidence: 0.9, Start: 0.5, End: 0.8},
					},
				},
			},
		},
	}
	svc := NewService(provider, &fakeResampler{pcm: []byte{1, 2, 3, 4}}, nil, 16000)

	doc, err := svc.TranscribeFile(context.Background(), writeTempAudio(t), "")
	require.NoError(t, err)

	assert.Equal(t, []string{"hello there"}, doc.Text)
	require.Len(t, doc.Monologues, 1)
	assert.Equal(t, 1, provider.calls)
}

func TestTranscribeFileMissing(t *testing.T) {
	svc := NewService(&fakeProvider{}, &fakeResampler{}, nil, 16000)

	_, err := svc.TranscribeFile(context.Background(), "/does/not/exist.wav", "")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestTranscribeFileEmptyAudio(t *testing.T) {
	svc := NewService(&fakeProvider{}, &fakeResampler{pcm: nil}, nil, 16000)

	_, err := svc.TranscribeFile(context.Background(), writeTempAudio(t), "")
	assert.ErrorIs(t, err, stt.ErrEmptyAudio)
}
