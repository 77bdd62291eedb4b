package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/enrollr/internal/submit"
)

const progressBarWidth = 40

// ProgressPanel shows the submission progress bar and log.
type ProgressPanel struct {
	entries  []submit.Entry
	progress int
	busy     bool
	spinner  Spinner
}

// NewProgressPanel creates an empty panel.
func NewProgressPanel() *ProgressPanel {
	return &ProgressPanel{spinner: NewDefaultSpinner()}
}

// Sync replaces the panel contents with a pipeline snapshot. It returns the
// spinner tick when the panel becomes busy.
func (p *ProgressPanel) Sync(entries []submit.Entry, progress int, busy bool) tea.Cmd {
	p.entries = entries
	p.progress = progress
	started := busy && !p.busy
	p.busy = busy
	if started {
		return p.spinner.Tick()
	}
	return nil
}

// Busy reports whether a submission is shown as running.
func (p *ProgressPanel) Busy() bool { return p.busy }

// Progress returns the displayed percentage.
func (p *ProgressPanel) Progress() int { return p.progress }

// Entries returns the displayed log.
func (p *ProgressPanel) Entries() []submit.Entry { return p.entries }

// Update advances the spinner while busy.
func (p *ProgressPanel) Update(msg tea.Msg) tea.Cmd {
	if !p.busy {
		return nil
	}
	return p.spinner.Update(msg)
}

// View renders the bar and every log line. An idle, empty panel renders
// nothing.
func (p *ProgressPanel) View() string {
	if !p.busy && len(p.entries) == 0 && p.progress == 0 {
		return ""
	}

	filled := progressBarWidth * p.progress / 100
	bar := styleProgressFill.Render(strings.Repeat("█", filled)) +
		styleProgressEmpty.Render(strings.Repeat("░", progressBarWidth-filled))

	var b strings.Builder
	if p.busy {
		b.WriteString(p.spinner.View() + " ")
	}
	b.WriteString(bar)
	b.WriteString(fmt.Sprintf(" %3d%%", p.progress))

	for _, e := range p.entries {
		b.WriteString("\n")
		switch e.Tone {
		case submit.ToneOK:
			b.WriteString(styleLogOK.Render(e.Text))
		case submit.ToneWarn:
			b.WriteString(styleLogWarn.Render(e.Text))
		default:
			b.WriteString(styleLogMuted.Render(e.Text))
		}
	}
	return b.String()
}
