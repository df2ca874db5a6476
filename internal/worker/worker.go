// Package worker orchestrates one dubbing run: extraction, transcription,
// segmentation, subtitles, translation, fitted synthesis, and stitching.
// Each step leaves an artifact in the output directory and is skipped when
// that artifact already exists, so interrupted runs resume at the failure.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Reaganramsarup/dubber-poc/internal/api"
	"github.com/Reaganramsarup/dubber-poc/internal/config"
	"github.com/Reaganramsarup/dubber-poc/internal/ffmpeg"
	"github.com/Reaganramsarup/dubber-poc/internal/pipeline"
	"github.com/Reaganramsarup/dubber-poc/internal/stitch"
	"github.com/Reaganramsarup/dubber-poc/internal/storage"

	"github.com/google/uuid"
)

// Run executes the full pipeline for one job.
func Run(ctx context.Context, cfg *config.Config) error {
	job := cfg.Job
	baseName := strings.TrimSuffix(filepath.Base(job.VideoFile), filepath.Ext(job.VideoFile))

	if job.Fresh {
		if err := os.RemoveAll(job.OutputDir); err != nil {
			return fmt.Errorf("wipe output dir: %w", err)
		}
	}
	if err := os.MkdirAll(job.OutputDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	client := api.New(api.Config{APIKey: cfg.APIKey})

	// Extract the audio track.
	wavPath := filepath.Join(job.OutputDir, baseName+".wav")
	if !fileExists(wavPath) {
		if err := ffmpeg.ExtractAudio(ctx, job.VideoFile, wavPath); err != nil {
			return fmt.Errorf("extract audio: %w", err)
		}
		slog.Info("audio extracted", "path", wavPath)
	}

	// Transcribe and segment.
	transcriptPath := filepath.Join(job.OutputDir, "transcript.json")
	sentencesPath := filepath.Join(job.OutputDir, baseName+".json")
	if !fileExists(transcriptPath) {
		if err := transcribe(ctx, cfg, client, wavPath, transcriptPath, sentencesPath); err != nil {
			return fmt.Errorf("transcribe: %w", err)
		}
	}

	// Subtitles come straight from the raw transcript, not the sentences.
	srtPath := ""
	if job.Subtitles {
		srtPath = filepath.Join(job.OutputDir, "subtitles.srt")
		if !fileExists(srtPath) {
			sections, err := pipeline.LoadSections(transcriptPath)
			if err != nil {
				return fmt.Errorf("load transcript: %w", err)
			}
			cues := pipeline.BuildCues(sections, pipeline.DefaultCharsPerLine)
			if err := os.WriteFile(srtPath, []byte(pipeline.RenderSRT(cues)), 0644); err != nil {
				return fmt.Errorf("write subtitles: %w", err)
			}
			slog.Info("subtitles written", "path", srtPath, "cues", len(cues))
		}
	}

	sentences, err := pipeline.LoadSentences(sentencesPath)
	if err != nil {
		return fmt.Errorf("load sentences: %w", err)
	}
	if len(sentences) == 0 {
		return fmt.Errorf("transcript produced no sentences")
	}

	// Translate.
	if !job.NoTranslate {
		for _, lang := range job.TargetLangs {
			if err := translate(ctx, client, sentences, job.SourceLang, lang); err != nil {
				return err
			}
		}
		if err := pipeline.SaveSentences(sentencesPath, sentences); err != nil {
			return fmt.Errorf("save sentences: %w", err)
		}
	}

	targets := append([]string{}, job.TargetLangs...)
	if job.DubSource {
		targets = append(targets, job.SourceLang)
	}

	// Synthesize fitted clips per language.
	clipRoot := filepath.Join(job.OutputDir, "audioClips")
	for _, lang := range targets {
		langDir := filepath.Join(clipRoot, lang)
		if dirExists(langDir) {
			if !job.RegenerateAudio {
				slog.Info("clips exist, skipping synthesis", "lang", lang)
				continue
			}
			if err := os.RemoveAll(langDir); err != nil {
				return fmt.Errorf("clear clips for %s: %w", lang, err)
			}
		}
		if err := os.MkdirAll(langDir, 0755); err != nil {
			return fmt.Errorf("create clips dir for %s: %w", lang, err)
		}

		slog.Info("synthesizing audio", "lang", lang, "sentences", len(sentences))
		if err := synthesizeLanguage(ctx, cfg, client, sentences, lang, langDir); err != nil {
			return fmt.Errorf("synthesize %s: %w", lang, err)
		}
	}

	// Stitch, one independent pass per language.
	dubbedDir := filepath.Join(job.OutputDir, "dubbedVideos")
	if err := os.MkdirAll(dubbedDir, 0755); err != nil {
		return fmt.Errorf("create dubbed dir: %w", err)
	}
	for _, lang := range targets {
		outFile := filepath.Join(dubbedDir, lang+".mp4")
		slog.Info("dubbing video", "lang", lang, "output", outFile)
		err := stitch.Run(ctx, stitch.Options{
			Sentences:     sentences,
			ClipsDir:      filepath.Join(clipRoot, lang),
			VideoFile:     job.VideoFile,
			OutFile:       outFile,
			SRTPath:       srtPath,
			OverlayGainDB: stitch.DefaultOverlayGainDB,
		})
		if err != nil {
			return fmt.Errorf("stitch %s: %w", lang, err)
		}
	}

	return nil
}

// transcribe stages the extracted audio, runs recognition, and writes both
// the raw transcript and the sentence checkpoint.
func transcribe(ctx context.Context, cfg *config.Config, client *api.Client, wavPath, transcriptPath, sentencesPath string) error {
	job := cfg.Job
	if job.StorageBucket == "" {
		return fmt.Errorf("no staging bucket: set storage_bucket in the config or DUBBER_STORAGE_BUCKET")
	}

	stager, err := storage.New(ctx, storage.Config{Bucket: job.StorageBucket, Region: cfg.AWSRegion})
	if err != nil {
		return err
	}

	key := "tmp/" + uuid.NewString() + ".wav"
	slog.Info("staging audio", "bucket", job.StorageBucket, "key", key)
	uri, err := stager.Upload(ctx, key, wavPath, "audio/wav")
	if err != nil {
		return err
	}
	defer func() {
		if err := stager.Delete(ctx, key); err != nil {
			slog.Warn("failed to delete staged audio", "key", key, "err", err)
		}
	}()

	sections, err := client.Transcribe(ctx, uri, job.SourceLang, api.TranscribeOptions{
		PhraseHints:  job.PhraseHints,
		SpeakerCount: job.SpeakerCount,
	})
	if err != nil {
		return err
	}
	if err := pipeline.SaveSections(transcriptPath, sections); err != nil {
		return err
	}

	sentences := pipeline.Segment(sections, job.SourceLang)
	if err := pipeline.SaveSentences(sentencesPath, sentences); err != nil {
		return err
	}
	slog.Info("transcript segmented", "sections", len(sections), "sentences", len(sentences))
	return nil
}

// translate fills in the target-language text for every sentence that does
// not have it yet.
func translate(ctx context.Context, client *api.Client, sentences []pipeline.Sentence, sourceLang, lang string) error {
	slog.Info("translating", "lang", lang)
	for i := range sentences {
		if _, ok := sentences[i].Text[lang]; ok {
			continue
		}
		src, ok := sentences[i].Text[sourceLang]
		if !ok {
			return fmt.Errorf("sentence %d has no %s source text", i, sourceLang)
		}
		translated, err := client.Translate(ctx, src, lang, sourceLang)
		if err != nil {
			return fmt.Errorf("translate sentence %d to %s: %w", i, lang, err)
		}
		sentences[i].Text[lang] = translated
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
