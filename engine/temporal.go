package engine

import (
	"regexp"
	"strings"
	"time"

	"github.com/Deskmate-Labs/deskmate-go-core/models"
)

// ScheduleDetails is what the scheduling rules pull out of a free-text
// fragment: a cleaned title, a calendar date, optional start/end times and
// the Event/Deadline category.
type ScheduleDetails struct {
	Title    string
	Date     string
	Start    string
	End      string
	Category string
}

const dateLayout = "2006-01-02"

var (
	tomorrowPattern    = regexp.MustCompile(`(?i)\btomorrow\b`)
	todayPattern       = regexp.MustCompile(`(?i)\btoday\b`)
	timeRangePattern   = regexp.MustCompile(`(?i)(?:at|from)\s+(\d{1,2}(?::\d{2})?(?:am|pm)?)\s+(?:to|until|-)\s+(\d{1,2}(?::\d{2})?(?:am|pm)?)`)
	singleTimePattern  = regexp.MustCompile(`(?i)(?:at|by)\s+(\d{1,2}(?::\d{2})?(?:am|pm)?)`)
	leadingPrepPattern = regexp.MustCompile(`(?i)^(?:for|on|at|about)\s+`)
)

// parseSchedule resolves the date words, extracts a time range or single
// time, and cleans the remaining text into a title. "tomorrow"/"today" are
// relative to now; absence of either defaults to today. Matched keywords and
// time tokens are stripped from the title, then one leading preposition.
func parseSchedule(fragment string, deadline bool, now time.Time) ScheduleDetails {
	title := fragment
	date := now.Format(dateLayout)

	if tomorrowPattern.MatchString(fragment) {
		date = now.AddDate(0, 0, 1).Format(dateLayout)
		title = tomorrowPattern.ReplaceAllString(title, "")
	} else if todayPattern.MatchString(fragment) {
		title = todayPattern.ReplaceAllString(title, "")
	}

	var start, end string
	if m := timeRangePattern.FindStringSubmatch(title); m != nil {
		start, end = m[1], m[2]
		title = strings.Replace(title, m[0], "", 1)
	} else if m := singleTimePattern.FindStringSubmatch(title); m != nil {
		start = m[1]
		title = strings.Replace(title, m[0], "", 1)
	}

	title = strings.TrimSpace(title)
	title = leadingPrepPattern.ReplaceAllString(title, "")
	title = strings.TrimSpace(title)

	category := models.CategoryEvent
	if deadline {
		category = models.CategoryDeadline
	}

	return ScheduleDetails{
		Title:    title,
		Date:     date,
		Start:    start,
		End:      end,
		Category: category,
	}
}
