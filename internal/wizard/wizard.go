// Package wizard is the employee-record state machine: role-dependent step
// transitions, field state, error visibility and the derived employee id. It
// has no UI; the TUI and the headless submit command both drive it.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/mark3labs/enrollr/internal/draft"
	"github.com/mark3labs/enrollr/internal/employee"
	"github.com/mark3labs/enrollr/internal/logger"
	"github.com/mark3labs/enrollr/internal/schedule"
	"github.com/mark3labs/enrollr/internal/submit"
	"github.com/mark3labs/enrollr/internal/validate"
)

var (
	// ErrUnknownField is returned when setting a field that does not exist.
	ErrUnknownField = errors.New("unknown field")
	// ErrReadOnlyField is returned when setting a derived field.
	ErrReadOnlyField = errors.New("field is derived and read-only")
	// ErrNotOnSubmitStep is returned by Submit outside the final step.
	ErrNotOnSubmitStep = errors.New("submit is only available on the details step")
)

// Validator checks the basic-info record. A nil result means valid.
type Validator func(employee.Step1Fields) validate.Errors

// Submitter runs a submission.
type Submitter interface {
	Run(ctx context.Context, role employee.Role, s1 employee.Step1Fields, s2 employee.Step2Fields) (submit.Result, error)
}

// Counter reports how many basic-info records exist for a department.
type Counter interface {
	CountBasicInfo(ctx context.Context, department string) (int, error)
}

// Navigator moves the application to another view.
type Navigator interface {
	GoTo(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

// GoTo implements Navigator.
func (f NavigatorFunc) GoTo(path string) { f(path) }

// Deps are the collaborators a Machine drives.
type Deps struct {
	Drafts    *draft.Store
	Validator Validator
	Pipeline  Submitter
	BasicInfo Counter
	Navigator Navigator
	// Scheduler delays the post-submit navigation. Nil means the wall clock.
	Scheduler schedule.Scheduler
}

// Controls reports which actions the current state exposes.
type Controls struct {
	Step1Visible bool
	Next         bool
	Back         bool
	Submit       bool
}

// State is a snapshot of the machine.
type State struct {
	Role      employee.Role
	Step      employee.Step
	Step1     employee.Step1Fields
	Step2     employee.Step2Fields
	Controls  Controls
	Touched   map[string]bool
	Attempted bool
}

// Machine owns the wizard state for one role at a time.
type Machine struct {
	deps Deps

	mu        sync.Mutex
	role      employee.Role
	step      employee.Step
	s1        employee.Step1Fields
	s2        employee.Step2Fields
	touched   map[string]bool
	attempted bool
	deptGen   uint64
}

// New creates a machine for role, restoring its draft if one exists.
func New(ctx context.Context, deps Deps, role employee.Role) *Machine {
	if deps.Validator == nil {
		deps.Validator = validate.Step1
	}
	if deps.Scheduler == nil {
		deps.Scheduler = schedule.Clock{}
	}
	m := &Machine{deps: deps}
	m.loadLocked(ctx, role)
	return m
}

// Role returns the active role.
func (m *Machine) Role() employee.Role {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.role
}

// Step returns the current step.
func (m *Machine) Step() employee.Step {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.step
}

// State returns a snapshot of the machine.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return State{
		Role:      m.role,
		Step:      m.step,
		Step1:     m.s1,
		Step2:     m.s2,
		Controls:  m.controlsLocked(),
		Touched:   maps.Clone(m.touched),
		Attempted: m.attempted,
	}
}

// Controls reports which actions are available.
func (m *Machine) Controls() Controls {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.controlsLocked()
}

func (m *Machine) controlsLocked() Controls {
	onStep1 := m.step == employee.Step1 && m.role.HasStep1()
	return Controls{
		Step1Visible: onStep1,
		Next:         onStep1,
		Back:         m.role.HasStep1() && m.step == employee.Step2,
		Submit:       m.step == employee.Step2,
	}
}

// Next advances to the details step when the basic-info record is valid.
// Every attempt makes all current errors visible.
func (m *Machine) Next() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.controlsLocked().Next {
		return false
	}
	m.attempted = true
	if errs := m.deps.Validator(m.s1); errs != nil {
		logger.Debug("wizard: next blocked by %d errors", len(errs))
		return false
	}
	m.step = employee.Step2
	m.saveLocked()
	return true
}

// Back returns to the basic-info step. Touched fields and the attempted flag
// are kept.
func (m *Machine) Back() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.controlsLocked().Back {
		return false
	}
	m.step = employee.Step1
	m.saveLocked()
	return true
}

// Touch marks field as having lost focus.
func (m *Machine) Touch(field string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.touched[field] = true
}

// Errors returns every current validation error, visible or not.
func (m *Machine) Errors() validate.Errors {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errorsLocked()
}

func (m *Machine) errorsLocked() validate.Errors {
	if !m.role.HasStep1() {
		return nil
	}
	return m.deps.Validator(m.s1)
}

// VisibleError returns the message for field if it should be shown: the
// field has an error and was touched, or advancing was attempted.
func (m *Machine) VisibleError(field string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	msg, ok := m.errorsLocked()[field]
	if !ok || !(m.touched[field] || m.attempted) {
		return "", false
	}
	return msg, true
}

// VisibleErrors returns every error that should be shown.
func (m *Machine) VisibleErrors() validate.Errors {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out validate.Errors
	for field, msg := range m.errorsLocked() {
		if m.touched[field] || m.attempted {
			if out == nil {
				out = validate.Errors{}
			}
			out[field] = msg
		}
	}
	return out
}

// SetStep1 assigns a basic-info field and schedules an autosave.
func (m *Machine) SetStep1(field, value string) error {
	if field == employee.FieldEmployeeID {
		return fmt.Errorf("%w: %s", ErrReadOnlyField, field)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.s1.Set(field, value) {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	m.saveLocked()
	return nil
}

// SetStep2 assigns a details field and schedules an autosave.
func (m *Machine) SetStep2(field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.s2.Set(field, value) {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	m.saveLocked()
	return nil
}

// SetPhoto encodes the image at path as a data URL into the photo field.
func (m *Machine) SetPhoto(path string) error {
	data, err := employee.PhotoDataURL(path)
	if err != nil {
		return err
	}
	return m.SetStep2(employee.FieldPhoto, data)
}

// CommitDepartment records a chosen department and recomputes the employee
// id from it. A short name yields a placeholder id without a lookup; a
// failed count falls back to sequence 1. If the department changes while the
// count is in flight, the stale result is dropped.
func (m *Machine) CommitDepartment(ctx context.Context, name string) string {
	m.mu.Lock()
	m.s1.Department = name
	m.deptGen++
	gen := m.deptGen

	prefix, complete := employee.IDPrefix(name)
	if !complete || m.deps.BasicInfo == nil {
		if complete {
			m.s1.EmployeeID = employee.FormatID(prefix, 1)
		} else {
			m.s1.EmployeeID = employee.PendingID(prefix)
		}
		m.saveLocked()
		id := m.s1.EmployeeID
		m.mu.Unlock()
		return id
	}
	m.saveLocked()
	m.mu.Unlock()

	seq := 1
	n, err := m.deps.BasicInfo.CountBasicInfo(ctx, name)
	if err != nil {
		logger.Warn("wizard: counting %s records, defaulting sequence: %v", name, err)
	} else {
		seq = n + 1
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.deptGen || m.s1.Department != name {
		logger.Debug("wizard: dropping id for stale department %q", name)
		return m.s1.EmployeeID
	}
	m.s1.EmployeeID = employee.FormatID(prefix, seq)
	m.saveLocked()
	return m.s1.EmployeeID
}

// SwitchRole saves any pending edits for the current role and loads role.
func (m *Machine) SwitchRole(ctx context.Context, role employee.Role) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.deps.Drafts != nil {
		m.deps.Drafts.Flush(m.role)
	}
	m.loadLocked(ctx, role)
}

// ClearDraft removes the stored draft and resets the current role to its
// defaults.
func (m *Machine) ClearDraft(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.resetLocked(employee.DefaultDraft(m.role))
	if m.deps.Drafts == nil {
		return nil
	}
	return m.deps.Drafts.Clear(ctx, m.role)
}

// Submit hands the current record to the pipeline. On success the draft is
// cleared, the form reset, and navigation scheduled; on failure everything
// is kept.
func (m *Machine) Submit(ctx context.Context) (submit.Result, error) {
	m.mu.Lock()
	if !m.controlsLocked().Submit {
		m.mu.Unlock()
		return submit.Result{}, ErrNotOnSubmitStep
	}
	role, s1, s2 := m.role, m.s1, m.s2
	m.mu.Unlock()

	res, err := m.deps.Pipeline.Run(ctx, role, s1, s2)
	if err != nil {
		return res, err
	}
	if !res.OK {
		return res, nil
	}

	if res.ClearDraft {
		m.mu.Lock()
		if m.role == role {
			m.resetLocked(employee.DefaultDraft(role))
		}
		m.mu.Unlock()
		if m.deps.Drafts != nil {
			if err := m.deps.Drafts.Clear(ctx, role); err != nil {
				logger.Warn("wizard: clearing draft after submit: %v", err)
			}
		}
	}
	if res.NavigateTo != "" && m.deps.Navigator != nil {
		path := res.NavigateTo
		m.deps.Scheduler.AfterFunc(res.NavigateAfter, func() { m.deps.Navigator.GoTo(path) })
	}
	return res, nil
}

func (m *Machine) loadLocked(ctx context.Context, role employee.Role) {
	d := employee.DefaultDraft(role)
	if m.deps.Drafts != nil {
		if stored, ok := m.deps.Drafts.Load(ctx, role); ok {
			logger.Debug("wizard: restored %s draft on %s", role, stored.Step)
			d = stored
		}
	}
	m.role = role
	m.resetLocked(d)
}

// resetLocked replaces fields and step and clears validation visibility.
func (m *Machine) resetLocked(d employee.Draft) {
	if !m.role.AllowsStep(d.Step) {
		d.Step = m.role.InitialStep()
	}
	m.step = d.Step
	m.s1 = d.Step1
	m.s2 = d.Step2
	m.touched = map[string]bool{}
	m.attempted = false
	m.deptGen++
}

func (m *Machine) saveLocked() {
	if m.deps.Drafts == nil {
		return
	}
	m.deps.Drafts.Save(m.role, employee.Draft{Step: m.step, Step1: m.s1, Step2: m.s2})
}
