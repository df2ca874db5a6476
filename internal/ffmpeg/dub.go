package ffmpeg

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
)

// Overlay places one dubbed clip on the base audio track.
type Overlay struct {
	// Path is the clip file.
	Path string
	// StartSec is the placement offset on the timeline.
	StartSec float64
	// Duration is the clip length in seconds; it bounds the window in which
	// the base track is attenuated under this overlay.
	Duration float64
}

// RenderDub mixes the overlays onto the base media's audio track, attenuating
// the original audio under each overlay by gainDB, muxes the result with the
// untouched video stream, optionally burns in subtitles, and encodes to
// outPath with libx264/aac.
func RenderDub(ctx context.Context, videoPath string, overlays []Overlay, gainDB float64, srtPath, outPath string) error {
	slog.Info("rendering dubbed video",
		"input", filepath.Base(videoPath),
		"overlays", len(overlays),
		"output", filepath.Base(outPath))

	args := []string{"-i", videoPath}
	for _, ov := range overlays {
		args = append(args, "-i", ov.Path)
	}

	filter := buildDubFilter(overlays, gainDB)
	videoMap := "0:v"
	if srtPath != "" {
		filter += ";" + buildSubtitleFilter(srtPath)
		videoMap = "[vout]"
	}

	args = append(args,
		"-filter_complex", filter,
		"-map", videoMap,
		"-map", "[aout]",
		"-c:v", "libx264",
		"-c:a", "aac",
		"-y", outPath,
	)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg render failed: %w\n%s", err, string(out))
	}
	return nil
}

// buildDubFilter builds the audio filter graph: the base track gets one
// independent attenuation window per overlay, each clip is delayed to its
// sentence's start time, and everything is mixed without renormalization.
func buildDubFilter(overlays []Overlay, gainDB float64) string {
	var sb strings.Builder

	sb.WriteString("[0:a]")
	if len(overlays) == 0 {
		sb.WriteString("anull[aout]")
		return sb.String()
	}
	for i, ov := range overlays {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "volume=volume=%.1fdB:enable='between(t,%.3f,%.3f)'",
			gainDB, ov.StartSec, ov.StartSec+ov.Duration)
	}
	sb.WriteString("[base]")

	for i, ov := range overlays {
		delayMS := int(ov.StartSec * 1000)
		fmt.Fprintf(&sb, ";[%d:a]adelay=%d|%d[d%d]", i+1, delayMS, delayMS, i)
	}

	sb.WriteString(";[base]")
	for i := range overlays {
		fmt.Fprintf(&sb, "[d%d]", i)
	}
	fmt.Fprintf(&sb, "amix=inputs=%d:duration=first:normalize=0[aout]", len(overlays)+1)

	return sb.String()
}

// buildSubtitleFilter burns the cue file into the video, bottom-center.
func buildSubtitleFilter(srtPath string) string {
	return fmt.Sprintf("[0:v]subtitles=filename='%s':force_style='Alignment=2,MarginV=40'[vout]",
		escapeFilterPath(srtPath))
}

// escapeFilterPath escapes the characters ffmpeg's filter parser treats
// specially in filenames.
func escapeFilterPath(p string) string {
	r := strings.NewReplacer(`\`, `\\`, `:`, `\:`, `'`, `\'`)
	return r.Replace(p)
}
