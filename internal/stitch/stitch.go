// Package stitch lays the per-sentence dubbed clips back onto the video
// timeline and renders the final dubbed file.
package stitch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/Reaganramsarup/dubber-poc/internal/ffmpeg"
	"github.com/Reaganramsarup/dubber-poc/internal/pipeline"
)

// DefaultOverlayGainDB is how much the original track is attenuated under
// each dubbed clip.
const DefaultOverlayGainDB = -30.0

// Options configures one stitch run.
type Options struct {
	Sentences []pipeline.Sentence
	// ClipsDir holds the numbered clip files; the number is the ordering key.
	ClipsDir  string
	VideoFile string
	OutFile   string
	// SRTPath, when set, is burned into the video.
	SRTPath       string
	OverlayGainDB float64
}

// Run pairs clips with sentences by position, mixes them over the base track
// at each sentence's start time, and writes the dubbed video. The output is
// written to a temporary path and moved into place on success so a failed run
// leaves nothing at OutFile.
func Run(ctx context.Context, opts Options) error {
	clips, err := loadClips(opts.ClipsDir)
	if err != nil {
		return err
	}
	// Pairing is positional: the nth sentence's time window anchors the nth
	// clip. A length mismatch makes that pairing undefined.
	if len(clips) != len(opts.Sentences) {
		return fmt.Errorf("stitch %s: %d clips in %s but %d sentences",
			filepath.Base(opts.OutFile), len(clips), opts.ClipsDir, len(opts.Sentences))
	}

	overlays := make([]ffmpeg.Overlay, len(clips))
	for i, clip := range clips {
		info, err := ffmpeg.ProbeMedia(ctx, clip)
		if err != nil {
			return fmt.Errorf("probe clip %d: %w", i, err)
		}
		overlays[i] = ffmpeg.Overlay{
			Path:     clip,
			StartSec: opts.Sentences[i].Start,
			Duration: info.Duration,
		}
	}

	// Keep the container extension last so ffmpeg can pick the muxer.
	tmp := opts.OutFile + ".partial" + filepath.Ext(opts.OutFile)
	if err := ffmpeg.RenderDub(ctx, opts.VideoFile, overlays, opts.OverlayGainDB, opts.SRTPath, tmp); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, opts.OutFile); err != nil {
		return fmt.Errorf("move output into place: %w", err)
	}

	slog.Info("dubbed video written", "output", opts.OutFile)
	return nil
}

// loadClips returns the clip paths in numeric filename order: "10.mp3" sorts
// after "9.mp3", not between "1.mp3" and "2.mp3".
func loadClips(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read clips dir: %w", err)
	}

	type clip struct {
		index int
		path  string
	}
	clips := make([]clip, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		idx, err := strconv.Atoi(stem)
		if err != nil {
			return nil, fmt.Errorf("clip %s in %s is not numbered", name, dir)
		}
		clips = append(clips, clip{index: idx, path: filepath.Join(dir, name)})
	}

	sort.Slice(clips, func(i, j int) bool {
		return clips[i].index < clips[j].index
	})

	paths := make([]string, len(clips))
	for i, c := range clips {
		paths[i] = c.path
	}
	return paths, nil
}
