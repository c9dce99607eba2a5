package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/stigoleg/autoclick/internal/clicker"
)

// state represents the different states of the TUI.
type state int

const (
	stateMenu state = iota
	stateIntervalInput
	stateRunning
)

// eventBuffer is how many controller events may wait for the UI loop.
const eventBuffer = 32

const (
	itemStartSingle = iota
	itemStartSequence
	itemInterval
	itemQuit
)

var menuItems = []string{
	"Start clicking",
	"Play recorded sequence",
	"Change click interval",
	"Quit",
}

// Model holds the current state of the UI. Clicking happens on the
// controller's goroutine; the model only mirrors the events it publishes.
type Model struct {
	State        state
	Selected     int
	Input        string
	ErrorMessage string
	Status       string
	ShowHelp     bool
	Version      string

	Controller *clicker.Controller
	Settings   clicker.ClickSettings
	Stats      *clicker.Statistics

	Mode      clicker.Mode
	Progress  clicker.Progress
	StartTime time.Time
	Now       func() time.Time
	Logger    *zap.Logger

	events      <-chan clicker.Event
	unsubscribe func()
	keys        KeyMap
	help        help.Model
	bar         progress.Model
}

// New returns the initial model. stats may be nil when clicks are not
// counted.
func New(ctl *clicker.Controller, settings clicker.ClickSettings, stats *clicker.Statistics) Model {
	events, unsubscribe := ctl.Events(eventBuffer)
	return Model{
		State:       stateMenu,
		Controller:  ctl,
		Settings:    settings,
		Stats:       stats,
		Now:         time.Now,
		Logger:      zap.NewNop(),
		events:      events,
		unsubscribe: unsubscribe,
		keys:        DefaultKeys(),
		help:        NewHelpModel(),
		bar: progress.New(
			progress.WithGradient("#7D56F4", "#43BF6D"),
			progress.WithWidth(30),
			progress.WithoutPercentage(),
		),
	}
}

// SetVersion sets the version shown in the help view.
func (m *Model) SetVersion(v string) {
	m.Version = v
}

// Close detaches the model from the controller's events.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Elapsed returns how long the current run has been going.
func (m Model) Elapsed() time.Duration {
	if m.State != stateRunning || m.StartTime.IsZero() {
		return 0
	}
	return m.Now().Sub(m.StartTime)
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := Update(msg, m)
	return newModel, cmd
}

// View implements tea.Model
func (m Model) View() string {
	return View(m)
}
