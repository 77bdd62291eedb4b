package tui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/enrollr/internal/suggest"
)

// maxVisibleSuggestions caps the dropdown height.
const maxVisibleSuggestions = 6

// acResult describes what a key did to an Autocomplete.
type acResult struct {
	consumed  bool   // the widget handled the key
	changed   bool   // the text changed through typing
	committed bool   // a suggestion was chosen
	value     string // current text
}

// Autocomplete is a text input backed by a suggestion engine.
type Autocomplete struct {
	field   string
	input   textinput.Model
	engine  *suggest.Engine
	session suggest.Session
	picked  *string
}

// NewAutocomplete creates the widget and its engine. Engine snapshots are
// delivered to the program through sender.
func NewAutocomplete(field, placeholder string, resolve suggest.URLFunc, fetcher suggest.Fetcher, sender ProgramSender, opts ...suggest.Option) *Autocomplete {
	a := &Autocomplete{
		field: field,
		input: newTextInput(placeholder),
	}
	opts = append(opts,
		suggest.WithShowOnFocus(true),
		suggest.WithOnValue(func(v string) { a.picked = &v }),
		suggest.WithOnChange(func(s suggest.Session) {
			if sender != nil {
				// Snapshots may be produced inside Update; never block the loop.
				go sender.Send(SuggestionsMsg{Field: field, Session: s})
			}
		}),
	)
	a.engine = suggest.New(resolve, fetcher, opts...)
	return a
}

// Field returns the bound field name.
func (a *Autocomplete) Field() string { return a.field }

// Value returns the current text.
func (a *Autocomplete) Value() string { return a.input.Value() }

// SetValue replaces the text without querying.
func (a *Autocomplete) SetValue(v string) {
	a.input.SetValue(v)
}

// Session returns the last applied snapshot.
func (a *Autocomplete) Session() suggest.Session { return a.session }

// Apply installs a snapshot, ignoring ones older than what is shown.
func (a *Autocomplete) Apply(s suggest.Session) {
	if s.Rev < a.session.Rev {
		return
	}
	a.session = s
}

// Focus focuses the input and lets the engine list defaults.
func (a *Autocomplete) Focus() tea.Cmd {
	cmd := a.input.Focus()
	a.engine.Focus()
	return cmd
}

// Blur unfocuses the input; the engine closes after its grace period.
func (a *Autocomplete) Blur() {
	a.input.Blur()
	a.engine.Blur()
}

// Close stops the engine.
func (a *Autocomplete) Close() {
	a.engine.Close()
}

// Update routes a key to the engine first, then to the text input.
func (a *Autocomplete) Update(msg tea.KeyPressMsg) (acResult, tea.Cmd) {
	switch msg.String() {
	case "down":
		return acResult{consumed: a.engine.Key(suggest.KeyDown), value: a.Value()}, nil
	case "up":
		return acResult{consumed: a.engine.Key(suggest.KeyUp), value: a.Value()}, nil
	case "esc":
		return acResult{consumed: a.engine.Key(suggest.KeyEscape), value: a.Value()}, nil
	case "enter":
		a.picked = nil
		consumed := a.engine.Key(suggest.KeyEnter)
		if a.picked != nil {
			a.input.SetValue(*a.picked)
			a.input.CursorEnd()
			a.session = a.engine.Session()
			return acResult{consumed: true, committed: true, value: *a.picked}, nil
		}
		return acResult{consumed: consumed, value: a.Value()}, nil
	}

	before := a.input.Value()
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	after := a.input.Value()
	if after == before {
		return acResult{value: after}, cmd
	}
	a.engine.Query(after)
	return acResult{consumed: true, changed: true, value: after}, cmd
}

// View renders the input and, while open, the suggestion list.
func (a *Autocomplete) View() string {
	var b strings.Builder
	b.WriteString(a.input.View())
	if a.session.Loading {
		b.WriteString(" " + styleDim.Render("…"))
	}
	if !a.session.Open || len(a.session.Items) == 0 {
		return b.String()
	}

	start := 0
	if a.session.ActiveIndex >= maxVisibleSuggestions {
		start = a.session.ActiveIndex - maxVisibleSuggestions + 1
	}
	end := min(start+maxVisibleSuggestions, len(a.session.Items))

	lines := make([]string, 0, end-start+1)
	for i := start; i < end; i++ {
		name := a.session.Items[i].Name
		if i == a.session.ActiveIndex {
			lines = append(lines, styleSuggestionActive.Render("▸ "+name))
		} else {
			lines = append(lines, styleSuggestion.Render(name))
		}
	}
	if len(a.session.Items) > maxVisibleSuggestions {
		lines = append(lines, styleDim.Render(fmt.Sprintf("  %d of %d", a.session.ActiveIndex+1, len(a.session.Items))))
	}
	b.WriteString("\n")
	b.WriteString(styleDropdown.Render(strings.Join(lines, "\n")))
	return b.String()
}
