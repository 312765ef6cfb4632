package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
)

var (
	// ErrFFmpegNotFound means the ffmpeg binary is not installed or not on PATH.
	ErrFFmpegNotFound = errors.New("ffmpeg binary not found")

	// ErrUndecodable means ffmpeg could not extract any audio from the file.
	ErrUndecodable = errors.New("file could not be decoded")

	ErrOutputLimitReached = errors.New("decoded audio exceeds size limit")
)

// ResamplePCM decodes the input file to mono signed 16-bit little-endian PCM at
// the given sample rate, reading the samples from ffmpeg's stdout.
func (f *FFmpeg) ResamplePCM(ctx context.Context, filePath string, sampleRate float64) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.commandTimeout)
	defer cancel()

	if _, err := exec.LookPath(f.binary); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFFmpegNotFound, f.binary)
	}

	cmd := exec.CommandContext(ctx,
		f.binary,
		"-nostdin",
		"-loglevel", "quiet",
		"-i", filePath,
		"-ar", strconv.FormatFloat(sampleRate, 'f', -1, 64),
		"-ac", "1",
		"-f", "s16le",
		"-",
	)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("creating stdout pipe: %w", err)
	}

	err = cmd.Start()
	if err != nil {
		return nil, fmt.Errorf("starting ffmpeg: %w", err)
	}

	output, err := readAllLimit(stdout, f.maxOutputBytes)
	if err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return nil, fmt.Errorf("reading output: %w", err)
	}

	if err := cmd.Wait(); err != nil {
		// A nonzero exit with no samples means the input isn't audio ffmpeg
		// understands. With partial output the decode still counts: the
		// container may be truncated but the samples are usable.
		if len(output) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrUndecodable, filePath)
		}
		slog.Warn("ffmpeg exited with error after producing samples",
			"file", filePath, "bytes", len(output), "error", err)
	}

	return output, nil
}

func readAllLimit(r io.Reader, n int) ([]byte, error) {
	limit := n + 1
	buf, err := io.ReadAll(io.LimitReader(r, int64(limit)))
	if err != nil {
		return buf, err
	}
	if len(buf) >= limit {
		return buf[:limit-1], ErrOutputLimitReached
	}
	return buf, nil
}
