package api

import (
	"context"
	"encoding/base64"
	"fmt"
)

// Audio encodings accepted by the synthesis service.
const (
	EncodingMP3      = "MP3"
	EncodingLinear16 = "LINEAR16"
)

// SynthesizeRequest describes one synthesis call.
type SynthesizeRequest struct {
	Text         string
	LanguageCode string
	// Voice is a named voice; empty selects a neutral default voice.
	Voice string
	// SpeakingRate is the rate multiplier; 0 means the service default of 1.0.
	SpeakingRate float64
	// Encoding is the output audio encoding; empty means MP3.
	Encoding string
}

type ttsVoice struct {
	LanguageCode string `json:"languageCode"`
	Name         string `json:"name,omitempty"`
	SSMLGender   string `json:"ssmlGender,omitempty"`
}

type ttsAudioConfig struct {
	AudioEncoding string  `json:"audioEncoding"`
	SpeakingRate  float64 `json:"speakingRate,omitempty"`
}

type ttsRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice       ttsVoice       `json:"voice"`
	AudioConfig ttsAudioConfig `json:"audioConfig"`
}

type ttsResponse struct {
	AudioContent string `json:"audioContent"`
}

// Synthesize converts text to encoded audio bytes.
func (c *Client) Synthesize(ctx context.Context, req SynthesizeRequest) ([]byte, error) {
	body := ttsRequest{
		Voice: ttsVoice{
			LanguageCode: req.LanguageCode,
			Name:         req.Voice,
		},
		AudioConfig: ttsAudioConfig{
			AudioEncoding: req.Encoding,
			SpeakingRate:  req.SpeakingRate,
		},
	}
	body.Input.Text = req.Text
	if req.Voice == "" {
		body.Voice.SSMLGender = "NEUTRAL"
	}
	if body.AudioConfig.AudioEncoding == "" {
		body.AudioConfig.AudioEncoding = EncodingMP3
	}

	var resp ttsResponse
	if err := c.postJSON(ctx, c.cfg.TTSURL+"/text:synthesize", body, &resp); err != nil {
		return nil, fmt.Errorf("synthesize %s: %w", req.LanguageCode, err)
	}

	audio, err := base64.StdEncoding.DecodeString(resp.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("decode synthesized audio: %w", err)
	}
	return audio, nil
}
