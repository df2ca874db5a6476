package ffmpeg

import (
	"strings"
	"testing"
)

func TestBuildDubFilter_NoOverlays(t *testing.T) {
	got := buildDubFilter(nil, -30)
	if got != "[0:a]anull[aout]" {
		t.Errorf("got %q", got)
	}
}

func TestBuildDubFilter_SingleOverlay(t *testing.T) {
	got := buildDubFilter([]Overlay{
		{Path: "0.mp3", StartSec: 1.5, Duration: 2.0},
	}, -30)

	want := "[0:a]volume=volume=-30.0dB:enable='between(t,1.500,3.500)'[base]" +
		";[1:a]adelay=1500|1500[d0]" +
		";[base][d0]amix=inputs=2:duration=first:normalize=0[aout]"
	if got != want {
		t.Errorf("filter graph mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestBuildDubFilter_IndependentAttenuationWindows(t *testing.T) {
	// Adjacent overlays each get their own enable window on the base track.
	got := buildDubFilter([]Overlay{
		{Path: "0.mp3", StartSec: 0, Duration: 1.0},
		{Path: "1.mp3", StartSec: 2.0, Duration: 1.25},
	}, -30)

	if !strings.Contains(got, "between(t,0.000,1.000)") {
		t.Errorf("missing first attenuation window in %q", got)
	}
	if !strings.Contains(got, "between(t,2.000,3.250)") {
		t.Errorf("missing second attenuation window in %q", got)
	}
	if !strings.Contains(got, "amix=inputs=3") {
		t.Errorf("expected 3-input mix in %q", got)
	}
}

func TestEscapeFilterPath(t *testing.T) {
	got := escapeFilterPath(`C:\out\subtitles.srt`)
	if got != `C\:\\out\\subtitles.srt` {
		t.Errorf("got %q", got)
	}
}
