package util

import (
	"fmt"
	"strings"
	"time"
)

var clockFormats = []string{"15:04", "3:04PM", "3:04 PM", "03:04PM", "03:04 PM"}

// ParseClock parses a wall-clock time in 24-hour ("23:30") or 12-hour
// ("11:30PM") form and returns that time on the day of now.
func ParseClock(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	for _, layout := range clockFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return today.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time format: %s\n\nValid formats:\n"+
		"• 24-hour format: HH:MM (e.g., '23:30', '09:45')\n"+
		"• 12-hour format: HH:MM[AM|PM] (e.g., '11:30PM', '9:45 AM')", s)
}

// UntilClock returns how long it is from now until the next occurrence of
// the wall-clock time s. A time that already passed today means tomorrow.
func UntilClock(s string, now time.Time) (time.Duration, error) {
	t, err := ParseClock(s, now)
	if err != nil {
		return 0, err
	}
	if !t.After(now) {
		t = t.AddDate(0, 0, 1)
	}
	return t.Sub(now), nil
}
