package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Reaganramsarup/dubber-poc/internal/api"
	"github.com/Reaganramsarup/dubber-poc/internal/audio"
	"github.com/Reaganramsarup/dubber-poc/internal/config"
	"github.com/Reaganramsarup/dubber-poc/internal/pipeline"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// synthesizeLanguage produces one duration-fitted clip per sentence. Calls
// run on a bounded, rate-limited group; clip files are named by sentence
// index, so ordering never depends on completion order.
func synthesizeLanguage(ctx context.Context, cfg *config.Config, client *api.Client, sentences []pipeline.Sentence, lang, langDir string) error {
	voice := cfg.Job.Voices[lang]
	encoding := cfg.Job.AudioEncoding

	// The clip extension follows the encoding; LINEAR16 clips are plain WAV
	// and get measured in-process instead of through ffprobe.
	clipExt := ".mp3"
	if encoding == api.EncodingLinear16 {
		clipExt = ".wav"
	}

	fitter := &audio.Fitter{
		Synthesize: func(ctx context.Context, text string, speakingRate float64) ([]byte, error) {
			return client.Synthesize(ctx, api.SynthesizeRequest{
				Text:         text,
				LanguageCode: lang,
				Voice:        voice,
				SpeakingRate: speakingRate,
				Encoding:     encoding,
			})
		},
	}

	limiter := rate.NewLimiter(rate.Limit(float64(cfg.APIRateLimitPerMin)/60.0), 1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.MaxConcurrent)

	for i, sentence := range sentences {
		text, ok := sentence.Text[lang]
		if !ok {
			return fmt.Errorf("sentence %d has no %s text; translation incomplete", i, lang)
		}
		target := sentence.Duration()

		i, text := i, text
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				return fmt.Errorf("rate limiter: %w", err)
			}

			clip, err := fitWithRetry(gctx, fitter, text, target, i, cfg.MaxRetries)
			if err != nil {
				return err
			}

			clipPath := filepath.Join(langDir, strconv.Itoa(i)+clipExt)
			if err := os.WriteFile(clipPath, clip, 0644); err != nil {
				return fmt.Errorf("write clip %d: %w", i, err)
			}
			slog.Debug("clip written", "lang", lang, "sentence", i, "target_sec", target)
			return nil
		})
	}

	return g.Wait()
}

// fitWithRetry retries transient synthesis failures with exponential backoff.
// An empty-audio contract violation from the fitter aborts immediately; the
// caller then aborts the language pass.
func fitWithRetry(ctx context.Context, fitter *audio.Fitter, text string, target float64, index, maxRetries int) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		clip, err := fitter.Fit(ctx, text, target)
		if err == nil {
			return clip, nil
		}
		if errors.Is(err, audio.ErrEmptySynthesis) {
			// Retrying repeats the same call with the same empty result.
			return nil, fmt.Errorf("sentence %d: %w", index, err)
		}
		lastErr = err

		if attempt < maxRetries-1 {
			backoff := 1 << uint(attempt) // 1s, 2s, 4s...
			slog.Warn("synthesis failed, retrying",
				"sentence", index,
				"attempt", attempt+1,
				"backoff_sec", backoff,
				"err", err)

			timer := time.NewTimer(time.Duration(backoff) * time.Second)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
	}

	return nil, fmt.Errorf("sentence %d failed after %d attempts: %w", index, maxRetries, lastErr)
}
