// Package api holds the REST clients for the pipeline's external
// collaborators: transcription, translation, and speech synthesis. The core
// never retries; transient failures propagate to the caller.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultSpeechURL    = "https://speech.googleapis.com/v1p1beta1"
	defaultTranslateURL = "https://translation.googleapis.com/language/translate/v2"
	defaultTTSURL       = "https://texttospeech.googleapis.com/v1"

	requestTimeout = 5 * time.Minute
	pollInterval   = 10 * time.Second
)

// Config carries collaborator credentials and endpoints. It is passed in at
// construction; clients never read process environment.
type Config struct {
	APIKey string

	// Endpoint overrides, used by tests. Empty means the public endpoints.
	SpeechURL    string
	TranslateURL string
	TTSURL       string

	HTTPClient *http.Client
}

// Client talks to the transcription, translation, and synthesis services.
type Client struct {
	cfg  Config
	http *http.Client
}

// New creates a Client, filling endpoint and transport defaults.
func New(cfg Config) *Client {
	if cfg.SpeechURL == "" {
		cfg.SpeechURL = defaultSpeechURL
	}
	if cfg.TranslateURL == "" {
		cfg.TranslateURL = defaultTranslateURL
	}
	if cfg.TTSURL == "" {
		cfg.TTSURL = defaultTTSURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}
	return &Client{cfg: cfg, http: httpClient}
}

// postJSON sends a JSON body to url and decodes the JSON response into out.
func (c *Client) postJSON(ctx context.Context, url string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.withKey(url), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

// getJSON fetches url and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.withKey(url), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) withKey(url string) string {
	if c.cfg.APIKey == "" {
		return url
	}
	sep := "?"
	for _, r := range url {
		if r == '?' {
			sep = "&"
			break
		}
	}
	return url + sep + "key=" + c.cfg.APIKey
}
