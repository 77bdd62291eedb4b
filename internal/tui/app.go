package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mark3labs/enrollr/internal/draft"
	"github.com/mark3labs/enrollr/internal/employee"
	"github.com/mark3labs/enrollr/internal/logger"
	"github.com/mark3labs/enrollr/internal/roster"
	"github.com/mark3labs/enrollr/internal/schedule"
	"github.com/mark3labs/enrollr/internal/submit"
	"github.com/mark3labs/enrollr/internal/suggest"
	"github.com/mark3labs/enrollr/internal/wizard"
)

// Backend is everything the screens need from the collaborator services.
type Backend interface {
	suggest.Fetcher
	wizard.Counter
	submit.BasicInfoWriter
	submit.DetailsWriter
	roster.Source
	DepartmentsURL(q string) string
	LocationsURL(q string) string
}

// Settings tune timing and lookup behaviour. Zero values use the package
// defaults of the component concerned.
type Settings struct {
	Debounce      time.Duration
	BlurGrace     time.Duration
	MinChars      int
	DefaultLimit  int
	Latency       time.Duration
	NavigateDelay time.Duration
	PageSize      int
}

// Deps wires the app to storage and services.
type Deps struct {
	Drafts   *draft.Store
	Backend  Backend
	Settings Settings
	Role     employee.Role
	// Scheduler drives suggestion timers and post-submit navigation. Nil
	// means the wall clock.
	Scheduler schedule.Scheduler
	// Sleeper replaces the pipeline's pause between writes.
	Sleeper submit.Sleeper
}

type screen int

const (
	screenWizard screen = iota
	screenRoster
)

// App is the main Bubbletea model: the wizard form, its progress panel and
// the employee listing it navigates to.
type App struct {
	ctx  context.Context
	deps Deps

	machine  *wizard.Machine
	pipeline *submit.Pipeline
	form     *Form
	progress *ProgressPanel
	roster   *RosterView

	screen   screen
	status   string
	width    int
	height   int
	quitting bool

	// Program reference for sending messages from callbacks
	program relay
}

// New builds the app for deps.Role, restoring that role's draft.
func New(ctx context.Context, deps Deps) *App {
	if deps.Scheduler == nil {
		deps.Scheduler = schedule.Clock{}
	}
	a := &App{ctx: ctx, deps: deps}

	opts := []submit.Option{
		submit.WithReporter(func(u submit.Update) { a.program.Send(SubmitProgressMsg{Update: u}) }),
	}
	if deps.Settings.Latency > 0 {
		opts = append(opts, submit.WithLatency(deps.Settings.Latency))
	}
	if deps.Settings.NavigateDelay > 0 {
		opts = append(opts, submit.WithNavigateDelay(deps.Settings.NavigateDelay))
	}
	if deps.Sleeper != nil {
		opts = append(opts, submit.WithSleeper(deps.Sleeper))
	}
	a.pipeline = submit.New(deps.Backend, deps.Backend, opts...)

	a.machine = wizard.New(ctx, wizard.Deps{
		Drafts:    deps.Drafts,
		Pipeline:  a.pipeline,
		BasicInfo: deps.Backend,
		Navigator: wizard.NavigatorFunc(func(path string) { a.program.Send(NavigateMsg{Path: path}) }),
		Scheduler: deps.Scheduler,
	}, deps.Role)

	a.form = NewForm(a.machine, a.suggestions(), &a.program)
	a.progress = NewProgressPanel()
	a.roster = NewRosterView(deps.Settings.PageSize)
	return a
}

func (a *App) suggestions() Suggestions {
	s := a.deps.Settings
	opts := []suggest.Option{suggest.WithScheduler(a.deps.Scheduler)}
	if s.Debounce > 0 {
		opts = append(opts, suggest.WithDebounce(s.Debounce))
	}
	if s.BlurGrace > 0 {
		opts = append(opts, suggest.WithBlurGrace(s.BlurGrace))
	}
	if s.MinChars > 0 {
		opts = append(opts, suggest.WithMinChars(s.MinChars))
	}
	if s.DefaultLimit > 0 {
		opts = append(opts, suggest.WithDefaultLimit(s.DefaultLimit))
	}
	return Suggestions{
		Fetcher:     a.deps.Backend,
		Departments: a.deps.Backend.DepartmentsURL,
		Locations:   a.deps.Backend.LocationsURL,
		Options:     opts,
	}
}

// Attach connects the app to a running program.
func (a *App) Attach(p ProgramSender) {
	a.program.Attach(p)
}

// Machine exposes the wizard state machine.
func (a *App) Machine() *wizard.Machine { return a.machine }

// Close stops the suggestion engines and writes pending drafts.
func (a *App) Close() {
	a.form.Close()
	if a.deps.Drafts != nil {
		a.deps.Drafts.FlushAll()
	}
}

// Run is the entry point for the interactive wizard.
// It creates a BubbleTea program, runs it, and flushes drafts on exit. The
// returned role is the one active when the program ended.
func Run(ctx context.Context, deps Deps) (employee.Role, error) {
	a := New(ctx, deps)
	defer a.Close()

	p := tea.NewProgram(a, tea.WithContext(ctx))
	a.Attach(p) // Store program reference for callbacks

	if _, err := p.Run(); err != nil {
		return a.machine.Role(), fmt.Errorf("wizard failed: %w", err)
	}
	return a.machine.Role(), nil
}

// Init focuses the first field.
func (a *App) Init() tea.Cmd {
	return a.form.FocusFirst()
}

// Update handles incoming messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		return a, nil

	case tea.KeyPressMsg:
		return a, a.handleKey(msg)

	case SuggestionsMsg:
		a.form.Apply(msg)
		return a, nil

	case EmployeeIDMsg:
		logger.Debug("tui: employee id for %s is %s", msg.Department, msg.ID)
		return a, nil

	case SubmitProgressMsg:
		entries, progress := a.pipeline.Snapshot()
		return a, a.progress.Sync(entries, progress, a.pipeline.Busy())

	case SubmitDoneMsg:
		return a, a.submitDone(msg)

	case NavigateMsg:
		if msg.Path != submit.ListingPath {
			logger.Warn("tui: no screen for %s", msg.Path)
			return a, nil
		}
		return a, a.showRoster()

	case RosterLoadedMsg:
		if msg.Err != nil {
			logger.Warn("tui: loading roster: %v", msg.Err)
		}
		a.roster.SetRows(msg.Rows, msg.Err)
		return a, nil

	case DraftClearedMsg:
		if msg.Err != nil {
			a.status = "Could not clear draft: " + msg.Err.Error()
		} else {
			a.status = "Draft cleared"
		}
		a.form.Load()
		return a, a.form.FocusFirst()
	}

	// Spinner ticks
	return a, tea.Batch(a.progress.Update(msg), a.roster.Tick(msg))
}

func (a *App) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		a.quitting = true
		return tea.Quit
	}
	if a.screen == screenRoster {
		return a.handleRosterKey(msg)
	}

	switch msg.String() {
	case "tab":
		return a.form.Cycle(1)
	case "shift+tab":
		return a.form.Cycle(-1)
	case "ctrl+n":
		return a.next()
	case "ctrl+b":
		if a.machine.Back() {
			a.status = ""
			return a.form.FocusFirst()
		}
		return nil
	case "ctrl+s":
		return a.submit()
	case "ctrl+r":
		return a.switchRole()
	case "ctrl+d":
		machine, ctx := a.machine, a.ctx
		return func() tea.Msg {
			return DraftClearedMsg{Err: machine.ClearDraft(ctx)}
		}
	case "ctrl+l":
		a.form.Blur()
		return a.showRoster()
	}
	return a.form.Update(a.ctx, msg)
}

func (a *App) handleRosterKey(msg tea.KeyPressMsg) tea.Cmd {
	if a.roster.Update(msg) {
		return nil
	}
	switch msg.String() {
	case "esc", "ctrl+l", "q":
		a.screen = screenWizard
		return a.form.FocusFirst()
	case "r":
		return a.loadRoster()
	}
	return nil
}

func (a *App) next() tea.Cmd {
	if !a.machine.Controls().Next {
		return nil
	}
	a.form.Blur()
	if !a.machine.Next() {
		a.status = "Fix the highlighted fields to continue"
		return nil
	}
	a.status = ""
	return a.form.FocusFirst()
}

func (a *App) submit() tea.Cmd {
	if !a.machine.Controls().Submit || a.pipeline.Busy() || a.progress.Busy() {
		return nil
	}
	a.status = ""
	tick := a.progress.Sync(nil, 0, true)
	machine, ctx := a.machine, a.ctx
	return tea.Batch(tick, func() tea.Msg {
		res, err := machine.Submit(ctx)
		return SubmitDoneMsg{Result: res, Err: err}
	})
}

func (a *App) submitDone(msg SubmitDoneMsg) tea.Cmd {
	entries, progress := a.pipeline.Snapshot()
	a.progress.Sync(entries, progress, false)

	switch {
	case errors.Is(msg.Err, submit.ErrBusy):
		return nil
	case msg.Err != nil:
		a.status = msg.Err.Error()
		return nil
	case !msg.Result.OK:
		a.status = "Submission failed; your entries are kept"
		return nil
	}
	a.status = "Saved"
	a.form.Load()
	return a.form.FocusFirst()
}

func (a *App) switchRole() tea.Cmd {
	if a.pipeline.Busy() {
		return nil
	}
	a.form.Blur()
	a.form.Close()
	a.machine.SwitchRole(a.ctx, a.machine.Role().Other())
	a.form = NewForm(a.machine, a.suggestions(), &a.program)
	a.status = ""
	return a.form.FocusFirst()
}

func (a *App) showRoster() tea.Cmd {
	a.screen = screenRoster
	return a.loadRoster()
}

func (a *App) loadRoster() tea.Cmd {
	tick := a.roster.StartLoading()
	src, ctx := a.deps.Backend, a.ctx
	return tea.Batch(tick, func() tea.Msg {
		rows, err := roster.Load(ctx, src)
		return RosterLoadedMsg{Rows: rows, Err: err}
	})
}

// View renders the active screen.
func (a *App) View() tea.View {
	var view tea.View
	view.AltScreen = true
	view.KeyboardEnhancements = tea.KeyboardEnhancements{
		ReportEventTypes: true,
	}

	if a.quitting || a.width == 0 || a.height == 0 {
		view.AltScreen = !a.quitting
		view.Content = lipgloss.NewLayer("")
		return view
	}

	canvas := uv.NewScreenBuffer(a.width, a.height)
	header, body, footer := rows(canvas.Bounds())

	DrawStyled(canvas, header, styleHeader, a.headerView())
	DrawText(canvas, body, lipgloss.Place(body.Dx(), body.Dy(), lipgloss.Center, lipgloss.Center, a.bodyView()))
	DrawStyled(canvas, footer, styleFooter, a.footerView())

	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}

func (a *App) headerView() string {
	sep := styleHeaderSeparator.Render(" │ ")
	role := styleBadge.Render(a.machine.Role().String())
	if a.screen == screenRoster {
		return styleHeaderTitle.Render("enrollr") + sep + styleHeaderInfo.Render("Employees")
	}
	return styleHeaderTitle.Render("enrollr") + sep + role + sep + styleHeaderInfo.Render(a.machine.Step().String())
}

func (a *App) bodyView() string {
	if a.screen == screenRoster {
		return styleCard.Render(a.roster.View())
	}

	content := styleCardTitle.Render(a.machine.Step().String()) + "\n" +
		styleSubtitle.Render(subtitleFor(a.machine.Role())) + "\n\n" +
		a.form.View() + "\n\n" +
		RenderButtons(a.buttons())

	if p := a.progress.View(); p != "" {
		content += "\n\n" + p
	}
	if a.status != "" {
		content += "\n\n" + styleStatusError.Render(a.status)
	}
	return styleCard.Render(content)
}

func subtitleFor(role employee.Role) string {
	if role.HasStep1() {
		return "Create the employee record, then add details."
	}
	return "Add details for an existing employee."
}

func (a *App) buttons() []Button {
	c := a.machine.Controls()
	var out []Button
	if c.Back {
		out = append(out, Button{Label: "Back", State: ButtonNormal})
	}
	if c.Next {
		out = append(out, Button{Label: "Next", State: ButtonFocused})
	}
	if c.Submit {
		state := ButtonFocused
		if a.progress.Busy() {
			state = ButtonDisabled
		}
		out = append(out, Button{Label: "Submit", State: state})
	}
	return out
}

func (a *App) footerView() string {
	if a.screen == screenRoster {
		return RenderHintBar(KeyLeftRight, "page", "r", "reload", KeyEsc, "back", KeyCtrlC, "quit")
	}
	c := a.machine.Controls()
	pairs := []string{KeyTab, "next field"}
	if c.Back {
		pairs = append(pairs, KeyCtrlB, "back")
	}
	if c.Next {
		pairs = append(pairs, KeyCtrlN, "next")
	}
	if c.Submit {
		pairs = append(pairs, KeyCtrlS, "submit")
	}
	pairs = append(pairs,
		KeyCtrlR, "switch to "+a.machine.Role().Other().String(),
		KeyCtrlD, "clear draft",
		KeyCtrlL, "employees",
		KeyCtrlC, "quit",
	)
	return RenderHintBar(pairs...)
}
