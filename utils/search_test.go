package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSearchTestClient(body string) (*SearchClient, func()) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))

	c := NewSearchClient()
	c.Client = server.Client()
	c.endpoint = server.URL
	return c, server.Close
}

func TestSearchWithAbstract(t *testing.T) {
	c, done := newSearchTestClient(`{
		"Heading": "Black hole",
		"AbstractText": "A region of spacetime.",
		"AbstractURL": "https://en.wikipedia.org/wiki/Black_hole",
		"RelatedTopics": []
	}`)
	defer done()

	result, err := c.Search(context.Background(), "black holes")
	require.NoError(t, err)
	assert.Equal(t, "Here is what I found:\n- Black hole: A region of spacetime.\n(https://en.wikipedia.org/wiki/Black_hole)", result)
}

func TestSearchFallsBackToRelatedTopics(t *testing.T) {
	c, done := newSearchTestClient(`{
		"RelatedTopics": [
			{"Text": "First result", "FirstURL": "https://example.com/1"},
			{"Text": "Second result", "FirstURL": "https://example.com/2"}
		]
	}`)
	defer done()

	result, err := c.Search(context.Background(), "anything")
	require.NoError(t, err)
	assert.Contains(t, result, "Here is what I found:")
	assert.Contains(t, result, "First result")
	assert.Contains(t, result, "Second result")
}

func TestSearchWithNoResults(t *testing.T) {
	c, done := newSearchTestClient(`{"RelatedTopics": []}`)
	defer done()

	result, err := c.Search(context.Background(), "complete nonsense")
	require.NoError(t, err)
	assert.Equal(t, "I couldn't find anything on the web for that.", result)
}

func TestNewsWithNoResults(t *testing.T) {
	c, done := newSearchTestClient(`{}`)
	defer done()

	result, err := c.News(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Equal(t, "No recent news found.", result)
}
