package models

import (
	"time"
)

const (
	SESSION_END = "<SESSION_END>"
)

// Task categories used by the scheduling rules.
const (
	CategoryEvent    = "Event"
	CategoryDeadline = "Deadline"
)

// ClassificationResult is the outcome of one classifier lookup. Label is
// empty when no intent cleared the confidence floor.
type ClassificationResult struct {
	Label string
	Score float64
}

// Task is one scheduled item in the productivity store. Date is YYYY-MM-DD;
// Time and EndTime are kept in the loose form the user typed ("2pm", "14:00").
type Task struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Date      string    `json:"date"`
	Time      string    `json:"time,omitempty"`
	EndTime   string    `json:"end_time,omitempty"`
	Reminder  bool      `json:"reminder"`
	Category  string    `json:"category"`
	Completed bool      `json:"completed"`
	Notified  bool      `json:"notified"`
	CreatedAt time.Time `json:"created_at"`
}

// TimerEvent is pushed to the client when a countdown timer fires.
type TimerEvent struct {
	Message  string        `json:"message"`
	Duration time.Duration `json:"duration"`
	FiredAt  time.Time     `json:"fired_at"`
}
