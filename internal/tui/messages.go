package tui

import (
	"sync"

	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/enrollr/internal/roster"
	"github.com/mark3labs/enrollr/internal/submit"
	"github.com/mark3labs/enrollr/internal/suggest"
)

// ProgramSender is an interface for sending messages to the Bubbletea program.
// This allows for easier testing by mocking the Send method.
type ProgramSender interface {
	Send(tea.Msg)
}

// relay forwards messages to a program attached after construction.
// Messages sent before Attach are dropped.
type relay struct {
	mu     sync.Mutex
	target ProgramSender
}

func (r *relay) Attach(p ProgramSender) {
	r.mu.Lock()
	r.target = p
	r.mu.Unlock()
}

func (r *relay) Send(msg tea.Msg) {
	r.mu.Lock()
	p := r.target
	r.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// SuggestionsMsg carries a session snapshot from a suggestion engine.
type SuggestionsMsg struct {
	Field   string
	Session suggest.Session
}

// EmployeeIDMsg is sent when a department commit has recomputed the id.
type EmployeeIDMsg struct {
	Department string
	ID         string
}

// SubmitProgressMsg is sent for every pipeline log or progress change.
type SubmitProgressMsg struct {
	Update submit.Update
}

// SubmitDoneMsg is sent when a submission finishes.
type SubmitDoneMsg struct {
	Result submit.Result
	Err    error
}

// NavigateMsg asks the app to show another screen.
type NavigateMsg struct {
	Path string
}

// RosterLoadedMsg carries the merged employee listing.
type RosterLoadedMsg struct {
	Rows []roster.Row
	Err  error
}

// DraftClearedMsg is sent after the stored draft was removed.
type DraftClearedMsg struct {
	Err error
}
