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

const instantAnswerEndpoint = "https://api.duckduckgo.com/"

type SearchClient struct {
	Client *http.Client

	endpoint string
}

func NewSearchClient() *SearchClient {
	return &SearchClient{
		Client:   &http.Client{Timeout: 15 * time.Second},
		endpoint: instantAnswerEndpoint,
	}
}

type instantAnswerResponse struct {
	Heading       string `json:"Heading"`
	AbstractText  string `json:"AbstractText"`
	AbstractURL   string `json:"AbstractURL"`
	RelatedTopics []struct {
		Text     string `json:"Text"`
		FirstURL string `json:"FirstURL"`
	} `json:"RelatedTopics"`
}

// Search queries the DuckDuckGo instant answer API and summarizes the top
// results. An empty result set is reported in the string, not as an error.
func (c *SearchClient) Search(ctx context.Context, query string) (string, error) {
	answer, err := c.lookup(ctx, query)
	if err != nil {
		return "", err
	}

	if answer.AbstractText != "" {
		return fmt.Sprintf("Here is what I found:\n- %s: %s\n(%s)",
			answer.Heading, answer.AbstractText, answer.AbstractURL), nil
	}

	lines := []string{"Here is what I found:"}
	for i, topic := range answer.RelatedTopics {
		if topic.Text == "" || i >= 3 {
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s\n(%s)", topic.Text, topic.FirstURL))
	}
	if len(lines) == 1 {
		return "I couldn't find anything on the web for that.", nil
	}
	return strings.Join(lines, "\n"), nil
}

// News reuses the instant answer API with a news-slanted query.
func (c *SearchClient) News(ctx context.Context, topic string) (string, error) {
	answer, err := c.lookup(ctx, topic+" news")
	if err != nil {
		return "", err
	}

	lines := []string{"Latest News:"}
	if answer.AbstractText != "" {
		lines = append(lines, fmt.Sprintf("- %s\n  %s", answer.AbstractText, answer.AbstractURL))
	}
	for i, t := range answer.RelatedTopics {
		if t.Text == "" || i >= 3 {
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s\n  %s", t.Text, t.FirstURL))
	}
	if len(lines) == 1 {
		return "No recent news found.", nil
	}
	return strings.Join(lines, "\n"), nil
}

func (c *SearchClient) lookup(ctx context.Context, query string) (*instantAnswerResponse, error) {
	endpoint := fmt.Sprintf("%s?q=%s&format=json&no_html=1&skip_disambig=1",
		c.endpoint, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var answer instantAnswerResponse
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	return &answer, nil
}
