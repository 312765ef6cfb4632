package media

import (
	"time"
)

const DefaultFFmpegBinary = "ffmpeg"

const DefaultCommandTimeout = 5 * time.Minute

// DefaultMaxOutputBytes bounds how much decoded PCM a single file may produce.
const DefaultMaxOutputBytes = 512 << 20

type Option func(*FFmpeg)

type FFmpeg struct {
	binary         string
	commandTimeout time.Duration
	maxOutputBytes int
}

func WithBinary(binary string) Option {
	return func(f *FFmpeg) {
		f.binary = binary
	}
}

func WithCommandTimeout(timeout time.Duration) Option {
	return func(f *FFmpeg) {
		f.commandTimeout = timeout
	}
}

func WithMaxOutputBytes(n int) Option {
	return func(f *FFmpeg) {
		f.maxOutputBytes = n
	}
}

func NewFFmpeg(options ...Option) *FFmpeg {
	f := &FFmpeg{
		binary:         DefaultFFmpegBinary,
		commandTimeout: DefaultCommandTimeout,
		maxOutputBytes: DefaultMaxOutputBytes,
	}

	for _, option := range options {
		option(f)
	}

	return f
}
