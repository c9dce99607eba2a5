package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/stigoleg/autoclick/internal/clicker"
)

// View renders the current state of the model to a string.
func View(m Model) string {
	if m.ShowHelp {
		return helpView(m)
	}

	switch m.State {
	case stateMenu:
		return menuView(m)
	case stateIntervalInput:
		return intervalInputView(m)
	case stateRunning:
		return runningView(m)
	}
	return ""
}

func menuView(m Model) string {
	var b strings.Builder

	b.WriteString(Current.Title.Render("Auto Clicker"))
	b.WriteString("\n\n")
	b.WriteString(settingsView(m.Settings))
	b.WriteString("\n")

	for i, opt := range menuItems {
		if i == m.Selected {
			b.WriteString(Current.Selected.Render("> " + opt))
		} else {
			b.WriteString(Current.Unselected.Render("  " + opt))
		}
		b.WriteString("\n")
	}

	if m.Status != "" {
		b.WriteString("\n" + Current.Help.Render(m.Status))
	}
	if m.ErrorMessage != "" {
		b.WriteString("\n" + Current.Error.Render(m.ErrorMessage))
	}

	b.WriteString("\n\n" + Current.Help.Render(m.help.View(m.keys.ForState(m.State))))
	return b.String()
}

func settingsView(s clicker.ClickSettings) string {
	var b strings.Builder
	row := func(label, value string) {
		b.WriteString(Current.Label.Render(label) + Current.Value.Render(value) + "\n")
	}

	interval := fmt.Sprintf("%dms", s.IntervalMs)
	if r := s.Randomization; r != nil && r.Delay != nil {
		d := r.Delay.Normalized()
		interval = fmt.Sprintf("%d-%dms", d.Min, d.Max)
	}
	row("Interval", interval)
	row("Button", fmt.Sprintf("%s (%s)", s.Button, s.Style))

	target := "cursor"
	if !s.Target.UseCursor {
		target = s.Target.Position.String()
	}
	if r := s.Randomization; r != nil && (r.RangeX > 0 || r.RangeY > 0) {
		target += fmt.Sprintf(" ±%d,%d", r.RangeX, r.RangeY)
	}
	row("Target", target)

	repeat := "until stopped"
	if !s.Repeat.Infinite {
		repeat = fmt.Sprintf("%d clicks", s.Repeat.Count)
	}
	row("Repeat", repeat)

	if h := s.Humanization; h != nil && h.Variation > 0 {
		row("Humanize", fmt.Sprintf("%.0f%%", h.Variation*100))
	}
	if s.MaxRuntime > 0 {
		row("Time limit", s.MaxRuntime.String())
	}
	if n := s.Sequence.Len(); n > 0 {
		row("Sequence", fmt.Sprintf("%d actions x%d, ~%s", n, s.SequenceRepeat,
			s.Sequence.EstimatedDuration(s.SequenceRepeat, s.IntervalMs).Round(time.Millisecond)))
	}
	return b.String()
}

func intervalInputView(m Model) string {
	var b strings.Builder

	b.WriteString(Current.Title.Render("Click Interval"))
	b.WriteString("\n\n")

	b.WriteString(Current.Unselected.Render("Enter interval in milliseconds:"))
	b.WriteString("\n")
	input := m.Input
	if input == "" {
		input = " "
	}
	b.WriteString(Current.InputBox.Render(input))
	b.WriteString("\n\n")

	b.WriteString(Current.Help.Render(m.help.View(m.keys.ForState(m.State))))

	if m.ErrorMessage != "" {
		b.WriteString("\n\n" + Current.Error.Render(m.ErrorMessage))
	}
	return b.String()
}

func runningView(m Model) string {
	var b strings.Builder

	title := "Clicking"
	unit := "clicks"
	if m.Mode == clicker.ModeSequence {
		title = "Playing Sequence"
		unit = "passes"
	}
	b.WriteString(Current.Title.Render(title))
	b.WriteString("\n\n")

	p := m.Progress
	if p.Total > 0 {
		b.WriteString(Current.Active.Render(fmt.Sprintf("%d / %d %s", p.Completed, p.Total, unit)))
		b.WriteString("\n")
		b.WriteString(Current.Unselected.Render(m.bar.ViewAs(p.Percent / 100)))
	} else {
		b.WriteString(Current.Active.Render(fmt.Sprintf("%d %s", p.Completed, unit)))
	}
	b.WriteString("\n\n")

	elapsed := m.Elapsed().Truncate(time.Second)
	b.WriteString(Current.Label.Render("Elapsed") + Current.Value.Render(elapsed.String()) + "\n")
	if lim := m.Settings.MaxRuntime; lim > 0 {
		left := max(0, lim-m.Elapsed()).Truncate(time.Second)
		b.WriteString(Current.Label.Render("Remaining") + Current.Value.Render(left.String()) + "\n")
	}
	if m.Stats != nil {
		snap := m.Stats.Snapshot()
		b.WriteString(Current.Label.Render("Clicks") + Current.Value.Render(fmt.Sprintf("%d (%d failed)", snap.TotalClicks, snap.FailedClicks)) + "\n")
		b.WriteString(Current.Label.Render("Rate") + Current.Value.Render(fmt.Sprintf("%.1f/min", snap.ClicksPerMinute)) + "\n")
	}

	if m.Status != "" {
		b.WriteString("\n" + Current.Help.Render(m.Status))
	}
	b.WriteString("\n" + Current.Help.Render(m.help.View(m.keys.ForState(m.State))))

	if m.ErrorMessage != "" {
		b.WriteString("\n\n" + Current.Error.Render(m.ErrorMessage))
	}
	return b.String()
}

func helpView(m Model) string {
	var b strings.Builder
	b.WriteString("Auto Clicker Help")
	if m.Version != "" {
		b.WriteString(" (" + m.Version + ")")
	}
	b.WriteString(`

Usage:
  autoclick [flags]            Interactive TUI
  autoclick click [flags]      Click without the TUI
  autoclick sequence [flags]   Play the profile's sequence
  autoclick record             Record a sequence from stdin
  autoclick estimate           Print the sequence duration

Examples:
  autoclick -i 250 -n 100          # 100 clicks, 250ms apart
  autoclick --random-delay 500-1500 --humanize 0.2
  autoclick --x 800 --y 600 --style double
  autoclick --until 17:30          # stop at 5:30 PM

`)
	h := m.help
	h.ShowAll = true
	b.WriteString(h.View(m.keys.ForState(m.State)))
	b.WriteString("\n\nPress h or ? to close help")
	return Current.Help.Render(b.String())
}
