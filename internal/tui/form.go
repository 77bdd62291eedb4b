package tui

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/enrollr/internal/employee"
	"github.com/mark3labs/enrollr/internal/logger"
	"github.com/mark3labs/enrollr/internal/suggest"
	"github.com/mark3labs/enrollr/internal/wizard"
)

type fieldKind int

const (
	fieldText fieldKind = iota
	fieldSuggest
	fieldChoice
	fieldPhoto
	fieldNotes
)

// formField is one focusable row of the form.
type formField struct {
	name  string
	label string
	kind  fieldKind
	step  employee.Step

	input  *textinput.Model
	ac     *Autocomplete
	choice *Choice
	notes  *textarea.Model
}

func (f *formField) focus() tea.Cmd {
	switch f.kind {
	case fieldSuggest:
		return f.ac.Focus()
	case fieldChoice:
		f.choice.Focus()
		return nil
	case fieldNotes:
		return f.notes.Focus()
	default:
		return f.input.Focus()
	}
}

func (f *formField) blur() {
	switch f.kind {
	case fieldSuggest:
		f.ac.Blur()
	case fieldChoice:
		f.choice.Blur()
	case fieldNotes:
		f.notes.Blur()
	default:
		f.input.Blur()
	}
}

func (f *formField) view() string {
	switch f.kind {
	case fieldSuggest:
		return f.ac.View()
	case fieldChoice:
		return f.choice.View()
	case fieldNotes:
		return f.notes.View()
	default:
		return f.input.View()
	}
}

// Suggestions are the lookups the form binds to its autocomplete fields.
type Suggestions struct {
	Fetcher     suggest.Fetcher
	Departments suggest.URLFunc
	Locations   suggest.URLFunc
	Options     []suggest.Option
}

// Form renders the fields of the machine's current step and writes edits
// back into it. Basic-info widgets exist only for roles that have that step.
type Form struct {
	machine  *wizard.Machine
	fields   []*formField
	focus    int
	photoErr string
}

// NewForm builds the widgets for the machine's role and loads its state.
func NewForm(machine *wizard.Machine, sugg Suggestions, sender ProgramSender) *Form {
	f := &Form{machine: machine}
	role := machine.Role()

	if role.HasStep1() {
		f.fields = append(f.fields,
			textField(employee.FieldFullName, "Full name", "Jane Doe", employee.Step1),
			textField(employee.FieldEmail, "Email", "jane@company.com", employee.Step1),
			&formField{
				name:  employee.FieldDepartment,
				label: "Department",
				kind:  fieldSuggest,
				step:  employee.Step1,
				ac:    NewAutocomplete(employee.FieldDepartment, "Search departments", sugg.Departments, sugg.Fetcher, sender, sugg.Options...),
			},
			&formField{
				name:   employee.FieldPosition,
				label:  "Role",
				kind:   fieldChoice,
				step:   employee.Step1,
				choice: NewChoice(employee.Positions, ""),
			},
		)
	}

	photo := newTextInput("/path/to/photo.png")
	notes := newNotesArea()
	f.fields = append(f.fields,
		&formField{
			name:   employee.FieldEmploymentType,
			label:  "Employment type",
			kind:   fieldChoice,
			step:   employee.Step2,
			choice: NewChoice(employee.EmploymentTypes, ""),
		},
		&formField{
			name:  employee.FieldOfficeLocation,
			label: "Office location",
			kind:  fieldSuggest,
			step:  employee.Step2,
			ac:    NewAutocomplete(employee.FieldOfficeLocation, "Search locations", sugg.Locations, sugg.Fetcher, sender, sugg.Options...),
		},
		&formField{name: employee.FieldPhoto, label: "Photo", kind: fieldPhoto, step: employee.Step2, input: &photo},
		&formField{name: employee.FieldNotes, label: "Notes", kind: fieldNotes, step: employee.Step2, notes: &notes},
	)

	f.Load()
	return f
}

func textField(name, label, placeholder string, step employee.Step) *formField {
	in := newTextInput(placeholder)
	return &formField{name: name, label: label, kind: fieldText, step: step, input: &in}
}

// HasStep1 reports whether basic-info widgets were built.
func (f *Form) HasStep1() bool {
	for _, fld := range f.fields {
		if fld.step == employee.Step1 {
			return true
		}
	}
	return false
}

// Load copies the machine's field values into the widgets.
func (f *Form) Load() {
	st := f.machine.State()
	for _, fld := range f.fields {
		var v string
		if fld.step == employee.Step1 {
			v, _ = st.Step1.Get(fld.name)
		} else {
			v, _ = st.Step2.Get(fld.name)
		}
		switch fld.kind {
		case fieldText:
			fld.input.SetValue(v)
		case fieldSuggest:
			fld.ac.SetValue(v)
		case fieldChoice:
			fld.choice.SetValue(v)
		case fieldNotes:
			fld.notes.SetValue(v)
		case fieldPhoto:
			fld.input.SetValue("")
		}
	}
	f.photoErr = ""
}

// visible returns the fields of the current step.
func (f *Form) visible() []*formField {
	step := f.machine.Step()
	out := make([]*formField, 0, len(f.fields))
	for _, fld := range f.fields {
		if fld.step == step {
			out = append(out, fld)
		}
	}
	return out
}

// Focused returns the name of the focused field.
func (f *Form) Focused() string {
	vis := f.visible()
	if f.focus < 0 || f.focus >= len(vis) {
		return ""
	}
	return vis[f.focus].name
}

// FocusFirst blurs everything and focuses the first field of the step.
func (f *Form) FocusFirst() tea.Cmd {
	for _, fld := range f.fields {
		fld.blur()
	}
	f.focus = 0
	vis := f.visible()
	if len(vis) == 0 {
		return nil
	}
	return vis[0].focus()
}

// Cycle moves focus by delta, wrapping. The field being left is marked
// touched.
func (f *Form) Cycle(delta int) tea.Cmd {
	vis := f.visible()
	if len(vis) == 0 {
		return nil
	}
	f.focus = min(max(f.focus, 0), len(vis)-1)
	cur := vis[f.focus]
	cur.blur()
	f.machine.Touch(cur.name)

	f.focus = (f.focus + delta + len(vis)) % len(vis)
	return vis[f.focus].focus()
}

// Blur releases focus, marking the focused field touched.
func (f *Form) Blur() {
	vis := f.visible()
	if f.focus >= 0 && f.focus < len(vis) {
		vis[f.focus].blur()
		f.machine.Touch(vis[f.focus].name)
	}
}

// Apply routes an engine snapshot to its widget.
func (f *Form) Apply(msg SuggestionsMsg) {
	for _, fld := range f.fields {
		if fld.kind == fieldSuggest && fld.name == msg.Field {
			fld.ac.Apply(msg.Session)
			return
		}
	}
}

// Close stops every suggestion engine.
func (f *Form) Close() {
	for _, fld := range f.fields {
		if fld.kind == fieldSuggest {
			fld.ac.Close()
		}
	}
}

// Update handles a key for the focused field.
func (f *Form) Update(ctx context.Context, msg tea.KeyPressMsg) tea.Cmd {
	vis := f.visible()
	if f.focus < 0 || f.focus >= len(vis) {
		return nil
	}
	fld := vis[f.focus]

	switch fld.kind {
	case fieldText:
		if msg.String() == "enter" {
			return f.Cycle(1)
		}
		before := fld.input.Value()
		var cmd tea.Cmd
		*fld.input, cmd = fld.input.Update(msg)
		if v := fld.input.Value(); v != before {
			f.set(fld, v)
		}
		return cmd

	case fieldSuggest:
		res, cmd := fld.ac.Update(msg)
		switch {
		case res.committed:
			return tea.Batch(cmd, f.commit(ctx, fld, res.value))
		case res.changed:
			f.set(fld, res.value)
		case !res.consumed && msg.String() == "enter":
			return tea.Batch(cmd, f.Cycle(1))
		}
		return cmd

	case fieldChoice:
		if msg.String() == "enter" {
			return f.Cycle(1)
		}
		if fld.choice.Update(msg) {
			f.set(fld, fld.choice.Value())
		}
		return nil

	case fieldPhoto:
		if msg.String() == "enter" {
			f.attachPhoto(fld)
			return nil
		}
		var cmd tea.Cmd
		*fld.input, cmd = fld.input.Update(msg)
		return cmd

	case fieldNotes:
		before := fld.notes.Value()
		var cmd tea.Cmd
		*fld.notes, cmd = fld.notes.Update(msg)
		if v := fld.notes.Value(); v != before {
			f.set(fld, v)
		}
		return cmd
	}
	return nil
}

func (f *Form) set(fld *formField, v string) {
	var err error
	if fld.step == employee.Step1 {
		err = f.machine.SetStep1(fld.name, v)
	} else {
		err = f.machine.SetStep2(fld.name, v)
	}
	if err != nil {
		logger.Warn("tui: setting %s: %v", fld.name, err)
	}
}

// commit stores a chosen suggestion. A department also recomputes the
// employee id, which needs a lookup and so runs as a command.
func (f *Form) commit(ctx context.Context, fld *formField, v string) tea.Cmd {
	if fld.name != employee.FieldDepartment {
		f.set(fld, v)
		return nil
	}
	machine := f.machine
	return func() tea.Msg {
		id := machine.CommitDepartment(ctx, v)
		return EmployeeIDMsg{Department: v, ID: id}
	}
}

func (f *Form) attachPhoto(fld *formField) {
	path := strings.TrimSpace(fld.input.Value())
	if path == "" {
		f.photoErr = ""
		return
	}
	if err := f.machine.SetPhoto(path); err != nil {
		f.photoErr = err.Error()
		return
	}
	f.photoErr = ""
	fld.input.SetValue("")
}

// View renders the fields of the current step.
func (f *Form) View() string {
	st := f.machine.State()
	vis := f.visible()

	var b strings.Builder
	for i, fld := range vis {
		label := styleLabel
		if i == f.focus {
			label = styleLabelFocused
		}
		b.WriteString(label.Render(fld.label))
		b.WriteString("\n")
		b.WriteString(fld.view())
		b.WriteString("\n")

		if fld.kind == fieldPhoto {
			switch {
			case f.photoErr != "":
				b.WriteString(styleFieldError.Render(f.photoErr) + "\n")
			case st.Step2.PhotoBase64 != "":
				b.WriteString(styleHelper.Render(fmt.Sprintf("attached (%d KB encoded)", len(st.Step2.PhotoBase64)/1024)) + "\n")
			default:
				b.WriteString(styleHelper.Render("enter to attach") + "\n")
			}
		}
		if msg, ok := f.machine.VisibleError(fld.name); ok {
			b.WriteString(styleFieldError.Render(msg) + "\n")
		}

		// The derived id follows the department row.
		if fld.name == employee.FieldDepartment {
			b.WriteString(styleLabel.Render("Employee ID"))
			b.WriteString("\n")
			b.WriteString(styleReadOnly.Render(st.Step1.EmployeeID))
			b.WriteString("  " + styleHelper.Render("derived from department"))
			b.WriteString("\n")
			if msg, ok := f.machine.VisibleError(employee.FieldEmployeeID); ok {
				b.WriteString(styleFieldError.Render(msg) + "\n")
			}
		}
		if i < len(vis)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
