package tasksync

import (
	"fmt"
	"strings"
	"time"
)

// deadlineLayouts are tried in order; all but RFC 3339 use the local zone
var deadlineLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// DisplayLayout is the format deadlines and timestamps are shown in
const DisplayLayout = "Jan 2, 2006 15:04"

// ParseDeadline reads a user-typed deadline. Blank input means no deadline.
func ParseDeadline(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range deadlineLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid deadline %q: use YYYY-MM-DD or YYYY-MM-DD HH:MM", s)
}

// EditableDeadline renders a deadline the way ParseDeadline reads it back
func EditableDeadline(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}

// FormatTime renders t for display
func FormatTime(t time.Time) string {
	return t.Local().Format(DisplayLayout)
}
