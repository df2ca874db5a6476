package audio

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// ErrEmptySynthesis reports that the synthesis service returned a clip with
// no audio data. It is a contract violation, not a transient fault.
var ErrEmptySynthesis = errors.New("synthesis returned empty audio")

// MaxSpeakingRate is the synthesis service's practical ceiling for
// intelligible sped-up speech.
const MaxSpeakingRate = 4.0

// SynthesizeFunc produces encoded audio for text at the given speaking rate.
// Language and voice are bound by the caller.
type SynthesizeFunc func(ctx context.Context, text string, speakingRate float64) ([]byte, error)

// ProbeFunc measures the playback length of encoded audio bytes.
type ProbeFunc func(ctx context.Context, data []byte) (float64, error)

// Fitter adjusts synthesized speech to fit a sentence's time window.
type Fitter struct {
	Synthesize SynthesizeFunc
	// Probe defaults to ClipDuration.
	Probe ProbeFunc
}

// Fit synthesizes text so it does not exceed targetSeconds. The text is
// synthesized once at the default rate; if it already fits it is returned
// unchanged. Otherwise one corrected synthesis is made at actual/target,
// rounded to one decimal and clamped to MaxSpeakingRate. The corrected clip
// is not re-measured; single-shot correction is the accepted trade-off here,
// since an iterative solver would change observable output.
func (f *Fitter) Fit(ctx context.Context, text string, targetSeconds float64) ([]byte, error) {
	probe := f.Probe
	if probe == nil {
		probe = ClipDuration
	}

	clip, err := f.Synthesize(ctx, text, 1.0)
	if err != nil {
		return nil, err
	}
	if len(clip) == 0 {
		// A silent zero-duration clip would silently desync the dub.
		return nil, fmt.Errorf("%w for %q", ErrEmptySynthesis, text)
	}

	actual, err := probe(ctx, clip)
	if err != nil {
		return nil, fmt.Errorf("measure synthesized clip: %w", err)
	}

	ratio := actual / targetSeconds
	if ratio <= 1 {
		return clip, nil
	}

	ratio = math.Round(ratio*10) / 10
	if ratio > MaxSpeakingRate {
		ratio = MaxSpeakingRate
	}
	return f.Synthesize(ctx, text, ratio)
}
