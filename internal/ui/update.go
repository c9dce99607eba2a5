package ui

import (
	"fmt"
	"strconv"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/stigoleg/autoclick/internal/clicker"
)

// tickMsg is sent once a second while a run is active.
type tickMsg time.Time

// eventMsg carries a controller event into the update loop.
type eventMsg clicker.Event

// maxIntervalDigits bounds interval input to just under 17 minutes.
const maxIntervalDigits = 6

// Update handles messages and updates the model accordingly.
func Update(msg tea.Msg, m Model) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return handleEvent(clicker.Event(msg), m)
	case tickMsg:
		if m.State == stateRunning {
			return m, tick()
		}
		return m, nil
	case tea.KeyMsg:
		if m.State != stateIntervalInput && key.Matches(msg, m.keys.ToggleHelp) {
			m.ShowHelp = !m.ShowHelp
			return m, nil
		}
	}

	switch m.State {
	case stateMenu:
		return updateMenu(msg, m)
	case stateIntervalInput:
		return updateIntervalInput(msg, m)
	case stateRunning:
		return updateRunning(msg, m)
	}
	return m, nil
}

func updateMenu(msg tea.Msg, m Model) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Up):
		if m.Selected > 0 {
			m.Selected--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.Selected < len(menuItems)-1 {
			m.Selected++
		}
	case key.Matches(keyMsg, m.keys.Select):
		switch m.Selected {
		case itemStartSingle:
			return start(m, clicker.ModeSingle)
		case itemStartSequence:
			return start(m, clicker.ModeSequence)
		case itemInterval:
			m.State = stateIntervalInput
			m.Input = ""
			m.ErrorMessage = ""
		case itemQuit:
			return quit(m)
		}
	case key.Matches(keyMsg, m.keys.Copy):
		if err := copyToClipboard(formatCommand(clickCommand(m.Settings))); err != nil {
			m.ErrorMessage = fmt.Sprintf("Copy failed: %v", err)
		} else {
			m.ErrorMessage = ""
			m.Status = "Command copied to clipboard"
		}
	case key.Matches(keyMsg, m.keys.Quit):
		return quit(m)
	}
	return m, nil
}

func updateIntervalInput(msg tea.Msg, m Model) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Submit):
		if m.Input == "" {
			m.ErrorMessage = "Please enter an interval"
			return m, nil
		}
		ms, err := strconv.Atoi(m.Input)
		if err != nil || ms <= 0 {
			m.ErrorMessage = "Interval must be a positive number of milliseconds"
			return m, nil
		}
		m.Settings.IntervalMs = ms
		m.State = stateMenu
		m.ErrorMessage = ""
		m.Status = fmt.Sprintf("Interval set to %dms", ms)
	case key.Matches(keyMsg, m.keys.Back):
		m.State = stateMenu
		m.ErrorMessage = ""
	case key.Matches(keyMsg, m.keys.Backspace):
		if len(m.Input) > 0 {
			m.Input = m.Input[:len(m.Input)-1]
			m.ErrorMessage = ""
		}
	default:
		s := keyMsg.String()
		if len(s) == 1 && unicode.IsDigit(rune(s[0])) && len(m.Input) < maxIntervalDigits {
			m.Input += s
			m.ErrorMessage = ""
		}
	}
	return m, nil
}

func updateRunning(msg tea.Msg, m Model) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		return quit(m)
	case key.Matches(keyMsg, m.keys.Stop):
		// The run returns to the menu once its stopped event arrives.
		m.Controller.Stop()
		m.Status = "Stopping..."
	}
	return m, nil
}

func start(m Model, mode clicker.Mode) (Model, tea.Cmd) {
	if m.Stats != nil {
		m.Stats.Reset()
	}
	var err error
	if mode == clicker.ModeSequence {
		err = m.Controller.StartSequence(m.Settings)
	} else {
		err = m.Controller.StartSingle(m.Settings)
	}
	if err != nil {
		m.Logger.Warn("ui: start rejected", zap.Stringer("mode", mode), zap.Error(err))
		m.ErrorMessage = err.Error()
		return m, nil
	}

	m.State = stateRunning
	m.Mode = mode
	m.Progress = clicker.Progress{}
	m.StartTime = m.Now()
	m.ErrorMessage = ""
	m.Status = ""
	return m, tick()
}

func quit(m Model) (Model, tea.Cmd) {
	m.Controller.Stop()
	m.Close()
	return m, tea.Quit
}

func handleEvent(ev clicker.Event, m Model) (Model, tea.Cmd) {
	switch ev.Kind {
	case clicker.EventProgress:
		m.Progress = ev.Progress
	case clicker.EventStopped:
		m.Progress = ev.Progress
		m.State = stateMenu
		m.Status = fmt.Sprintf("Stopped: %s after %d", ev.Reason, ev.Progress.Completed)
		if ev.Err != nil {
			m.ErrorMessage = ev.Err.Error()
		}
	}
	return m, waitForEvent(m.events)
}

func waitForEvent(events <-chan clicker.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		return eventMsg(<-events)
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
