package ui

import (
	"strconv"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/stigoleg/autoclick/internal/clicker"
)

// copyToClipboard is replaced in tests.
var copyToClipboard = clipboard.WriteAll

// clickCommand returns the headless command line that reproduces s.
func clickCommand(s clicker.ClickSettings) []string {
	args := []string{"autoclick", "click",
		"--interval", strconv.Itoa(s.IntervalMs),
		"--button", s.Button.String(),
		"--style", s.Style.String(),
		"--hold", strconv.Itoa(s.HoldDurationMs),
	}
	if s.Repeat.Infinite {
		args = append(args, "--infinite")
	} else {
		args = append(args, "--count", strconv.Itoa(s.Repeat.Count))
	}
	if !s.Target.UseCursor {
		args = append(args, "--x", strconv.Itoa(s.Target.Position.X), "--y", strconv.Itoa(s.Target.Position.Y))
	}
	if r := s.Randomization; r != nil {
		if r.Delay != nil {
			d := r.Delay.Normalized()
			args = append(args, "--random-delay", strconv.Itoa(d.Min)+"-"+strconv.Itoa(d.Max))
		}
		if r.RangeX > 0 || r.RangeY > 0 {
			args = append(args, "--random-range", strconv.Itoa(r.RangeX)+","+strconv.Itoa(r.RangeY))
		}
	}
	if h := s.Humanization; h != nil && h.Variation > 0 {
		args = append(args, "--humanize", strconv.FormatFloat(h.Variation, 'f', -1, 64))
	}
	if s.MaxRuntime > 0 {
		args = append(args, "--max-runtime", s.MaxRuntime.String())
	}
	return args
}

func formatCommand(args []string) string {
	return strings.Join(args, " ")
}
