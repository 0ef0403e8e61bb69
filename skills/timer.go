package skills

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Deskmate-Labs/deskmate-go-core/models"
)

var (
	hoursPattern   = regexp.MustCompile(`(\d+)\s*(?:hour|hr)`)
	minutesPattern = regexp.MustCompile(`(\d+)\s*(?:minute|min)`)
	secondsPattern = regexp.MustCompile(`(\d+)\s*(?:second|sec)`)
)

// Notifier receives the event when a timer fires; the session layer pushes
// it to the client as a notification message.
type Notifier interface {
	Notify(event models.TimerEvent)
}

// TimerSkill parses "set timer for 10 minutes" style requests and runs the
// countdowns. Each timer is its own goroutine; completion is delivered
// through the injected notifier.
type TimerSkill struct {
	notifier Notifier
	after    func(d time.Duration, f func()) *time.Timer
	logger   *zap.Logger
}

func NewTimerSkill(notifier Notifier) *TimerSkill {
	return &TimerSkill{
		notifier: notifier,
		after:    time.AfterFunc,
		logger:   zap.L().Named("timer"),
	}
}

func (t *TimerSkill) SetTimer(request string) string {
	duration := parseTimerDuration(request)
	if duration == 0 {
		return "I couldn't understand the duration. Try 'set timer for 5 minutes'."
	}

	t.after(duration, func() {
		t.logger.Info("Timer fired", zap.Duration("duration", duration))
		t.notifier.Notify(models.TimerEvent{
			Message:  "Your timer has finished!",
			Duration: duration,
			FiredAt:  time.Now(),
		})
	})

	t.logger.Info("Timer set", zap.Duration("duration", duration))
	return fmt.Sprintf("Timer set for %s.", duration)
}

// parseTimerDuration sums the hour/minute/second components found anywhere
// in the request; zero means no duration was understood.
func parseTimerDuration(request string) time.Duration {
	var seconds int
	if m := hoursPattern.FindStringSubmatch(request); m != nil {
		n, _ := strconv.Atoi(m[1])
		seconds += n * 3600
	}
	if m := minutesPattern.FindStringSubmatch(request); m != nil {
		n, _ := strconv.Atoi(m[1])
		seconds += n * 60
	}
	if m := secondsPattern.FindStringSubmatch(request); m != nil {
		n, _ := strconv.Atoi(m[1])
		seconds += n
	}
	return time.Duration(seconds) * time.Second
}
