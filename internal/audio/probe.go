// Package audio measures synthesized clips and fits them to the time window
// of the sentence they replace.
package audio

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/Reaganramsarup/dubber-poc/internal/ffmpeg"

	"github.com/go-audio/wav"
)

// ClipDuration returns the playback length in seconds of encoded audio bytes.
// WAV is decoded in-process; compressed formats go through ffprobe on a
// temporary file.
func ClipDuration(ctx context.Context, data []byte) (float64, error) {
	if isWAV(data) {
		return wavDuration(data)
	}

	f, err := os.CreateTemp("", "dubber-clip-*")
	if err != nil {
		return 0, fmt.Errorf("create temp clip: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(data); err != nil {
		f.Close()
		return 0, fmt.Errorf("write temp clip: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("close temp clip: %w", err)
	}

	info, err := ffmpeg.ProbeMedia(ctx, f.Name())
	if err != nil {
		return 0, err
	}
	return info.Duration, nil
}

func isWAV(data []byte) bool {
	return len(data) >= 12 &&
		bytes.Equal(data[:4], []byte("RIFF")) &&
		bytes.Equal(data[8:12], []byte("WAVE"))
}

func wavDuration(data []byte) (float64, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	d, err := dec.Duration()
	if err != nil {
		return 0, fmt.Errorf("decode wav: %w", err)
	}
	return d.Seconds(), nil
}
