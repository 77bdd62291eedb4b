package tui

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// ButtonState is the visual state of a button.
type ButtonState int

const (
	ButtonNormal   ButtonState = iota // Enabled
	ButtonDisabled                    // Grayed out
	ButtonFocused                     // Highlighted
)

// Button is one entry in a ButtonBar.
type Button struct {
	Label string
	State ButtonState
}

var (
	buttonNormal = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#cdd6f4")).
			Background(lipgloss.Color("#313244")).
			Padding(0, 2).
			MarginRight(1)

	buttonDisabled = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6c7086")).
			Background(lipgloss.Color("#181825")).
			Padding(0, 2).
			MarginRight(1)

	buttonFocused = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1e1e2e")).
			Background(lipgloss.Color("#b4befe")).
			Bold(true).
			Padding(0, 2).
			MarginRight(1)
)

// RenderButtons renders buttons left to right.
func RenderButtons(buttons []Button) string {
	if len(buttons) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(buttons))
	for _, btn := range buttons {
		switch btn.State {
		case ButtonDisabled:
			rendered = append(rendered, buttonDisabled.Render(btn.Label))
		case ButtonFocused:
			rendered = append(rendered, buttonFocused.Render(btn.Label))
		default:
			rendered = append(rendered, buttonNormal.Render(btn.Label))
		}
	}
	return strings.Join(rendered, "")
}
