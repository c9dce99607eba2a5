package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// NewProgram wraps m in a full-screen program. Extra options are applied
// after the defaults.
func NewProgram(m Model, opts ...tea.ProgramOption) *tea.Program {
	defaults := []tea.ProgramOption{tea.WithAltScreen()}
	return tea.NewProgram(m, append(defaults, opts...)...)
}
