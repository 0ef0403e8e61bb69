package skills

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// MusicQueue is the process-wide playback queue behind the m! commands. It
// is handed to the dispatcher as an explicit collaborator, never reached as
// ambient state, and guards itself with a mutex since sessions and timers
// may call in concurrently.
type MusicQueue struct {
	mu      sync.Mutex
	mode    string
	queue   []string
	history []string
	logger  *zap.Logger
}

func NewMusicQueue() *MusicQueue {
	return &MusicQueue{
		mode:   "Spotify",
		logger: zap.L().Named("music"),
	}
}

// SetMode switches the playback source between Spotify and YouTube.
func (q *MusicQueue) SetMode(mode string) string {
	if mode != "Spotify" && mode != "YouTube" {
		return "Invalid mode."
	}
	q.mu.Lock()
	q.mode = mode
	q.mu.Unlock()
	return fmt.Sprintf("Music source switched to %s.", mode)
}

func (q *MusicQueue) AddToQueue(query string) string {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.queue = append(q.queue, query)
	q.logger.Debug("Track queued", zap.String("query", query), zap.Int("queue_len", len(q.queue)))
	return fmt.Sprintf("Added to queue: %s (position %d)", query, len(q.queue))
}

func (q *MusicQueue) PlayNow(query string) string {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.history = append(q.history, query)
	return fmt.Sprintf("Now playing: %s\n%s", query, q.trackLink(query))
}

func (q *MusicQueue) StartLoop() string {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.queue) == 0 {
		return "Queue is empty. Add tracks with m!add first."
	}

	q.history = append(q.history, q.queue...)
	first := q.queue[0]
	return fmt.Sprintf("Looping %d queued track(s), starting with: %s\n%s",
		len(q.queue), first, q.trackLink(first))
}

func (q *MusicQueue) ClearQueue() string {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.queue = nil
	return "Queue cleared."
}

func (q *MusicQueue) History() string {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.history) == 0 {
		return "No playback history yet."
	}
	lines := make([]string, 0, len(q.history)+1)
	lines = append(lines, "Playback history:")
	for i, track := range q.history {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, track))
	}
	return strings.Join(lines, "\n")
}

// trackLink turns a query into something the GUI can open. Direct links are
// passed through; otherwise a search URL for the active source is built.
// Callers must hold q.mu.
func (q *MusicQueue) trackLink(query string) string {
	if strings.HasPrefix(query, "http") {
		return query
	}
	if q.mode == "Spotify" {
		return "https://open.spotify.com/search/" + url.PathEscape(query)
	}
	return "https://www.youtube.com/results?search_query=" + url.QueryEscape(query)
}
