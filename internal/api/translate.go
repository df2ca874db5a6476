package api

import (
	"context"
	"fmt"
	"html"
)

type translateRequest struct {
	Q      string `json:"q"`
	Target string `json:"target"`
	Source string `json:"source,omitempty"`
	Format string `json:"format"`
}

type translateResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
}

// Translate translates text into targetLang. An empty sourceLang lets the
// service auto-detect. HTML entities in the response are decoded before use.
func (c *Client) Translate(ctx context.Context, text, targetLang, sourceLang string) (string, error) {
	req := translateRequest{
		Q:      text,
		Target: targetLang,
		Source: sourceLang,
		Format: "text",
	}

	var resp translateResponse
	if err := c.postJSON(ctx, c.cfg.TranslateURL, req, &resp); err != nil {
		return "", fmt.Errorf("translate to %s: %w", targetLang, err)
	}
	if len(resp.Data.Translations) == 0 {
		return "", fmt.Errorf("translate to %s: empty response", targetLang)
	}

	return html.UnescapeString(resp.Data.Translations[0].TranslatedText), nil
}
