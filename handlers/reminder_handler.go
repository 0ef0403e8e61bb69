package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Deskmate-Labs/deskmate-go-core/skills"
)

const reminderInterval = 30 * time.Second

// ReminderHandler periodically scans the productivity store for reminder
// tasks that have come due and pushes them to the client. It runs alongside
// the command loop, so replies and reminders may interleave on the socket.
type ReminderHandler struct {
	session *AssistantSession
	store   *skills.ProductivityStore
	stop    chan struct{}
}

func InitReminderHandler(session *AssistantSession, store *skills.ProductivityStore) *ReminderHandler {
	session.Logger.Info("Initializing Reminder Handler...")

	handler := &ReminderHandler{
		session: session,
		store:   store,
		stop:    make(chan struct{}),
	}

	go handler.run()
	return handler
}

func (h *ReminderHandler) run() {
	h.session.Logger.Info("Reminder handler goroutine started", zap.Duration("interval", reminderInterval))

	ticker := time.NewTicker(reminderInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			h.scan()
		case <-h.stop:
			h.session.Logger.Info("Reminder handler goroutine stopped")
			return
		}
	}
}

func (h *ReminderHandler) scan() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	due, err := h.store.DueReminders(ctx, time.Now())
	if err != nil {
		h.session.Logger.Error("Failed to scan for due reminders", zap.Error(err))
		return
	}

	for _, task := range due {
		h.session.Logger.Info("Delivering reminder",
			zap.String("task_id", task.ID),
			zap.String("title", task.Title))
		h.session.sendMessage("reminder", task)
	}
}

func (h *ReminderHandler) Close() {
	select {
	case <-h.stop:
	default:
		close(h.stop)
	}
}
