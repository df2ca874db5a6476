package api

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Reaganramsarup/dubber-poc/internal/pipeline"
)

// TranscribeOptions tunes a recognition job.
type TranscribeOptions struct {
	PhraseHints  []string
	SpeakerCount int
	// EnhancedModel selects an enhanced recognition model, e.g. "video".
	// English always uses "video" regardless.
	EnhancedModel string
}

// phraseHintBoost is the recognition boost weight for supplied phrase hints.
const phraseHintBoost = 15

type speechContext struct {
	Phrases []string `json:"phrases"`
	Boost   int      `json:"boost"`
}

type diarizationConfig struct {
	EnableSpeakerDiarization bool `json:"enableSpeakerDiarization"`
}

type recognitionConfig struct {
	LanguageCode               string            `json:"languageCode"`
	EnableAutomaticPunctuation bool              `json:"enableAutomaticPunctuation"`
	EnableWordTimeOffsets      bool              `json:"enableWordTimeOffsets"`
	ProfanityFilter            bool              `json:"profanityFilter"`
	SpeechContexts             []speechContext   `json:"speechContexts,omitempty"`
	DiarizationConfig          diarizationConfig `json:"diarizationConfig"`
	UseEnhanced                bool              `json:"useEnhanced,omitempty"`
	Model                      string            `json:"model,omitempty"`
}

type recognizeRequest struct {
	Config recognitionConfig `json:"config"`
	Audio  struct {
		URI string `json:"uri"`
	} `json:"audio"`
}

type recognizeWord struct {
	Word       string `json:"word"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	SpeakerTag int    `json:"speakerTag"`
}

type recognizeAlternative struct {
	Transcript string          `json:"transcript"`
	Words      []recognizeWord `json:"words"`
}

type recognizeResult struct {
	Alternatives []recognizeAlternative `json:"alternatives"`
}

type operationResponse struct {
	Name  string `json:"name"`
	Done  bool   `json:"done"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Response struct {
		Results []recognizeResult `json:"results"`
	} `json:"response"`
}

// Transcribe starts a long-running recognition job for the staged audio at
// uri and polls it to completion, returning the word-timed, speaker-tagged
// transcript sections.
func (c *Client) Transcribe(ctx context.Context, uri, langCode string, opts TranscribeOptions) ([]pipeline.Section, error) {
	cfg := recognitionConfig{
		LanguageCode:               langCode,
		EnableAutomaticPunctuation: true,
		EnableWordTimeOffsets:      true,
		ProfanityFilter:            true,
		DiarizationConfig: diarizationConfig{
			EnableSpeakerDiarization: opts.SpeakerCount > 1,
		},
	}
	if langCode == "en" {
		cfg.LanguageCode = "en-US"
		opts.EnhancedModel = "video"
	}
	if opts.EnhancedModel != "" {
		cfg.UseEnhanced = true
		cfg.Model = opts.EnhancedModel
	}
	if len(opts.PhraseHints) > 0 {
		cfg.SpeechContexts = []speechContext{{Phrases: opts.PhraseHints, Boost: phraseHintBoost}}
	}

	req := recognizeRequest{Config: cfg}
	req.Audio.URI = uri

	var op operationResponse
	if err := c.postJSON(ctx, c.cfg.SpeechURL+"/speech:longrunningrecognize", req, &op); err != nil {
		return nil, fmt.Errorf("start recognition: %w", err)
	}

	opName := op.Name
	slog.Info("transcription started", "operation", opName)

	// Await the single final result. There is no cancel path beyond ctx.
	for !op.Done {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pollInterval):
		}

		op = operationResponse{}
		if err := c.getJSON(ctx, c.cfg.SpeechURL+"/operations/"+opName, &op); err != nil {
			return nil, fmt.Errorf("poll recognition: %w", err)
		}
		slog.Debug("polled transcription", "done", op.Done)
	}

	if op.Error != nil {
		return nil, fmt.Errorf("recognition failed: %s (code %d)", op.Error.Message, op.Error.Code)
	}

	return sectionsFromResults(op.Response.Results)
}

func sectionsFromResults(results []recognizeResult) ([]pipeline.Section, error) {
	var sections []pipeline.Section
	for _, res := range results {
		if len(res.Alternatives) == 0 {
			continue
		}
		alt := res.Alternatives[0]
		sec := pipeline.Section{Transcript: alt.Transcript}
		for _, w := range alt.Words {
			start, err := parseAPIDuration(w.StartTime)
			if err != nil {
				return nil, fmt.Errorf("word %q: %w", w.Word, err)
			}
			end, err := parseAPIDuration(w.EndTime)
			if err != nil {
				return nil, fmt.Errorf("word %q: %w", w.Word, err)
			}
			sec.Words = append(sec.Words, pipeline.Word{
				Text:       w.Word,
				Start:      start,
				End:        end,
				SpeakerTag: w.SpeakerTag,
			})
		}
		sections = append(sections, sec)
	}
	return sections, nil
}

// parseAPIDuration parses the service's "12.345s" duration strings.
func parseAPIDuration(s string) (float64, error) {
	trimmed := strings.TrimSuffix(s, "s")
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return v, nil
}
