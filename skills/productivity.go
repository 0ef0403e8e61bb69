// Package skills implements the action handlers the dispatcher is wired to:
// the productivity store, the music queue, OS actuators, application
// launching, timers and the web-backed services. Every public method returns
// the reply string shown to the user and catches its own failures.
package skills

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Deskmate-Labs/deskmate-go-core/models"
)

const (
	tasksKey      = "deskmate:tasks"
	scratchpadKey = "deskmate:scratchpad"
	storeTimeout  = 5 * time.Second
)

// ProductivityStore keeps tasks and the scratchpad in Redis. It owns its
// consistency: every mutation is written through before the reply is built.
type ProductivityStore struct {
	client *redis.Client
	logger *zap.Logger
}

func NewProductivityStore(client *redis.Client) *ProductivityStore {
	return &ProductivityStore{
		client: client,
		logger: zap.L().Named("productivity"),
	}
}

func (s *ProductivityStore) AddTask(title, date, start, end string, reminder bool, category string) string {
	task := models.Task{
		ID:        uuid.NewString(),
		Title:     title,
		Date:      date,
		Time:      start,
		EndTime:   end,
		Reminder:  reminder,
		Category:  category,
		CreatedAt: time.Now(),
	}

	payload, err := json.Marshal(task)
	if err != nil {
		return "Error saving task: " + err.Error()
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if err := s.client.HSet(ctx, tasksKey, task.ID, payload).Err(); err != nil {
		s.logger.Error("Failed to persist task", zap.Error(err), zap.String("title", title))
		return "Error saving task: " + err.Error()
	}

	s.logger.Info("Task stored",
		zap.String("task_id", task.ID),
		zap.String("date", date),
		zap.String("category", category))

	label := strings.ToLower(category)
	if start != "" {
		reply := fmt.Sprintf("Scheduled %s: '%s' on %s at %s", label, title, date, start)
		if end != "" {
			reply += "-" + end
		}
		return reply
	}
	return fmt.Sprintf("Added %s: %s for %s", label, title, date)
}

func (s *ProductivityStore) AppendNote(content string) string {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	current, err := s.client.Get(ctx, scratchpadKey).Result()
	if err != nil && err != redis.Nil {
		s.logger.Error("Failed to read scratchpad", zap.Error(err))
		return "Error saving note: " + err.Error()
	}

	updated := content
	if current != "" {
		updated = current + "\n" + content
	}

	if err := s.client.Set(ctx, scratchpadKey, updated, 0).Err(); err != nil {
		s.logger.Error("Failed to write scratchpad", zap.Error(err))
		return "Error saving note: " + err.Error()
	}
	return "Note saved to scratchpad."
}

// DueReminders returns reminder tasks whose date is today and whose start
// time has been reached, marking each as notified so it is delivered once.
func (s *ProductivityStore) DueReminders(ctx context.Context, now time.Time) ([]models.Task, error) {
	entries, err := s.client.HGetAll(ctx, tasksKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read tasks: %w", err)
	}

	var due []models.Task
	for _, raw := range entries {
		var task models.Task
		if err := json.Unmarshal([]byte(raw), &task); err != nil {
			s.logger.Warn("Skipping malformed task entry", zap.Error(err))
			continue
		}
		if !reminderDue(task, now) {
			continue
		}

		task.Notified = true
		payload, err := json.Marshal(task)
		if err != nil {
			continue
		}
		if err := s.client.HSet(ctx, tasksKey, task.ID, payload).Err(); err != nil {
			s.logger.Error("Failed to mark task notified", zap.Error(err), zap.String("task_id", task.ID))
			continue
		}
		due = append(due, task)
	}
	return due, nil
}

// reminderDue reports whether a reminder task should fire at now: today's
// date, start time reached, not yet completed or delivered.
func reminderDue(task models.Task, now time.Time) bool {
	if !task.Reminder || task.Completed || task.Notified {
		return false
	}
	if task.Date != now.Format("2006-01-02") {
		return false
	}
	hour, minute, ok := parseClock(task.Time)
	if !ok {
		return false
	}
	startAt := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	return !now.Before(startAt)
}

var clockPattern = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?(am|pm)?$`)

// parseClock understands the loose time forms the extractor passes through:
// "2pm", "2:30pm", "14:00", "9".
func parseClock(value string) (hour, minute int, ok bool) {
	m := clockPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(value)))
	if m == nil {
		return 0, 0, false
	}
	hour, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	switch m[3] {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	if hour > 23 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}
