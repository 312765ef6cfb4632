package media

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadAllLimit(t *testing.T) {
	out, err := readAllLimit(strings.NewReader("hello"), 10)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), out)
}

func TestReadAllLimitExceeded(t *testing.T) {
	out, err := readAllLimit(strings.NewReader("hello world"), 5)
	assert.ErrorIs(t, err, ErrOutputLimitReached)
	assert.Len(t, out, 5)
}

func TestResamplePCMUndecodableInput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stub")
	}

	// A binary that exits nonzero without writing samples, the way ffmpeg
	// behaves on a file that isn't audio.
	stub := filepath.Join(t.TempDir(), "ffmpeg-stub")
	require.NoError(t, os.WriteFile(stub, []byte("#!/bin/sh\nexit 1\n"), 0o755))

	f := NewFFmpeg(WithBinary(stub))
	_, err := f.ResamplePCM(context.Background(), "notes.txt", 16000)
	assert.ErrorIs(t, err, ErrUndecodable)
}

func TestResamplePCMKeepsPartialOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stub")
	}

	// Truncated containers: ffmpeg writes samples, then exits nonzero.
	stub := filepath.Join(t.TempDir(), "ffmpeg-stub")
	require.NoError(t, os.WriteFile(stub, []byte("#!/bin/sh\nprintf 'pcm!'\nexit 1\n"), 0o755))

	f := NewFFmpeg(WithBinary(stub))
	out, err := f.ResamplePCM(context.Background(), "cut-short.ogg", 16000)
	require.NoError(t, err)
	assert.Equal(t, []byte("pcm!"), out)
}

func TestResamplePCMMissingBinary(t *testing.T) {
	f := NewFFmpeg(WithBinary("definitely-not-ffmpeg-binary"))

	_, err := f.ResamplePCM(context.Background(), "input.wav", 16000)
	assert.ErrorIs(t, err, ErrFFmpegNotFound)
}

func TestOptions(t *testing.T) {
	f := NewFFmpeg()
	assert.Equal(t, DefaultFFmpegBinary, f.binary)
	assert.Equal(t, DefaultCommandTimeout, f.commandTimeout)

	f = NewFFmpeg(WithBinary("avconv"), WithMaxOutputBytes(42))
	assert.Equal(t, "avconv", f.binary)
	assert.Equal(t, 42, f.maxOutputBytes)
}
