package tui

import (
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// Spinner wraps the bubbles spinner.
type Spinner struct {
	model spinner.Model
}

// NewSpinner creates a spinner drawn in the primary colour.
func NewSpinner(style spinner.Spinner) Spinner {
	s := spinner.New(
		spinner.WithSpinner(style),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#cba6f7"))),
	)
	return Spinner{model: s}
}

// NewDefaultSpinner creates a MiniDot spinner.
func NewDefaultSpinner() Spinner {
	return NewSpinner(spinner.MiniDot)
}

// Update handles spinner tick messages.
func (s *Spinner) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	s.model, cmd = s.model.Update(msg)
	return cmd
}

// View renders the current frame.
func (s *Spinner) View() string {
	return s.model.View()
}

// Tick starts the animation.
func (s *Spinner) Tick() tea.Cmd {
	return s.model.Tick
}
