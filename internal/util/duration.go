package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDuration parses a run length. A bare integer is a number of minutes;
// anything else must be a Go duration string such as "1h30m".
func ParseDuration(input string) (time.Duration, error) {
	return parseWithUnit(input, time.Minute, "minutes")
}

// ParseInterval parses a click interval. A bare integer is a number of
// milliseconds; anything else must be a Go duration string such as "1.5s".
func ParseInterval(input string) (time.Duration, error) {
	return parseWithUnit(input, time.Millisecond, "milliseconds")
}

func parseWithUnit(input string, unit time.Duration, unitName string) (time.Duration, error) {
	input = strings.TrimSpace(input)
	if n, err := strconv.Atoi(input); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("negative duration: %s", input)
		}
		return time.Duration(n) * unit, nil
	}

	d, err := time.ParseDuration(input)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid duration format: %q\n\nValid formats:\n"+
			"• plain number of %s (e.g. '250')\n"+
			"• duration string (e.g. '1.5s', '2m', '1h30m')", input, unitName)
	}
	return d, nil
}
