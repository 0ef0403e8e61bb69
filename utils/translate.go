package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const translateEndpoint = "https://translate.googleapis.com/translate_a/single"

// Language names the translation rule accepts, mapped to target codes.
var languageCodes = map[string]string{
	"english":             "en",
	"chinese":             "zh-CN",
	"chinese simplified":  "zh-CN",
	"chinese traditional": "zh-TW",
	"mandarin":            "zh-CN",
}

// LanguageCode resolves a spoken language name to a translation target.
func LanguageCode(name string) (string, bool) {
	code, ok := languageCodes[strings.ToLower(strings.TrimSpace(name))]
	return code, ok
}

type TranslateClient struct {
	Client *http.Client
}

func NewTranslateClient() *TranslateClient {
	return &TranslateClient{
		Client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Translate sends the text through the public translate endpoint with
// source auto-detection and returns the translated string.
func (c *TranslateClient) Translate(ctx context.Context, text, targetCode string) (string, error) {
	endpoint := fmt.Sprintf("%s?client=gtx&sl=auto&tl=%s&dt=t&q=%s",
		translateEndpoint, url.QueryEscape(targetCode), url.QueryEscape(text))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	// The endpoint answers with nested arrays; the first element holds the
	// translated segments as [translated, original, ...] tuples.
	var payload []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode translation response: %w", err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("empty translation response")
	}

	var segments [][]interface{}
	if err := json.Unmarshal(payload[0], &segments); err != nil {
		return "", fmt.Errorf("failed to decode translation segments: %w", err)
	}

	var builder strings.Builder
	for _, segment := range segments {
		if len(segment) == 0 {
			continue
		}
		if translated, ok := segment[0].(string); ok {
			builder.WriteString(translated)
		}
	}
	if builder.Len() == 0 {
		return "", fmt.Errorf("no translated text in response")
	}
	return builder.String(), nil
}
