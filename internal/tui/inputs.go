package tui

import (
	"slices"
	"strings"

	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

const inputWidth = 36

var textInputStyles = textinput.Styles{
	Focused: textinput.StyleState{
		Text:        lipgloss.NewStyle().Foreground(lipgloss.Color("#cdd6f4")),
		Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color("#a6adc8")),
		Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color("#b4befe")),
	},
	Blurred: textinput.StyleState{
		Text:        lipgloss.NewStyle().Foreground(lipgloss.Color("#a6adc8")),
		Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7086")),
		Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7086")),
	},
	Cursor: textinput.CursorStyle{
		Color: lipgloss.Color("#cba6f7"),
		Shape: tea.CursorBar,
		Blink: true,
	},
}

func newTextInput(placeholder string) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.Prompt = "› "
	in.SetStyles(textInputStyles)
	in.SetWidth(inputWidth)
	return in
}

func newNotesArea() textarea.Model {
	ta := textarea.New()
	ta.Placeholder = "Notes..."
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.SetWidth(inputWidth + 2)
	ta.SetHeight(3)

	styles := textarea.DefaultDarkStyles()
	styles.Cursor.Color = lipgloss.Color("#89b4fa")
	styles.Cursor.Shape = tea.CursorBlock
	styles.Cursor.Blink = true
	ta.SetStyles(styles)
	return ta
}

// Choice is a fixed option list cycled with the arrow keys.
type Choice struct {
	options []string
	index   int
	focused bool
}

// NewChoice creates a Choice showing value, or the first option when value
// is not among options.
func NewChoice(options []string, value string) *Choice {
	c := &Choice{options: options}
	c.SetValue(value)
	return c
}

// Value returns the selected option.
func (c *Choice) Value() string {
	return c.options[c.index]
}

// SetValue selects value if it is an option.
func (c *Choice) SetValue(value string) {
	if i := slices.Index(c.options, value); i >= 0 {
		c.index = i
	}
}

// Focus marks the choice focused.
func (c *Choice) Focus() { c.focused = true }

// Blur marks the choice unfocused.
func (c *Choice) Blur() { c.focused = false }

// Update moves the selection. It reports whether the value changed.
func (c *Choice) Update(msg tea.KeyPressMsg) bool {
	prev := c.index
	switch msg.String() {
	case "left", "up", "h", "k":
		c.index = (c.index - 1 + len(c.options)) % len(c.options)
	case "right", "down", "l", "j", "space":
		c.index = (c.index + 1) % len(c.options)
	}
	return c.index != prev
}

// View renders every option with the selected one highlighted.
func (c *Choice) View() string {
	parts := make([]string, len(c.options))
	for i, opt := range c.options {
		switch {
		case i == c.index && c.focused:
			parts[i] = styleSuggestionActive.Render(opt)
		case i == c.index:
			parts[i] = styleReadOnly.Render(opt)
		default:
			parts[i] = styleDim.Render(opt)
		}
	}
	return strings.Join(parts, " ")
}
