package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/mark3labs/enrollr/internal/roster"
)

var rosterHeaders = []string{"Name", "Department", "Role", "ID", "Office", "Photo"}

// RosterView pages through the merged employee listing.
type RosterView struct {
	rows    []roster.Row
	page    int
	limit   int
	loading bool
	err     error
	spinner Spinner
}

// NewRosterView creates an empty listing that shows limit rows per page.
func NewRosterView(limit int) *RosterView {
	if limit <= 0 {
		limit = roster.DefaultLimit
	}
	return &RosterView{page: 1, limit: limit, spinner: NewDefaultSpinner()}
}

// StartLoading marks the listing as loading and returns the spinner tick.
func (r *RosterView) StartLoading() tea.Cmd {
	r.loading = true
	r.err = nil
	return r.spinner.Tick()
}

// SetRows installs a load result and returns to the first page.
func (r *RosterView) SetRows(rows []roster.Row, err error) {
	r.loading = false
	r.err = err
	if err == nil {
		r.rows = rows
	}
	r.page = 1
}

// Page returns the current page.
func (r *RosterView) Page() roster.Page {
	return roster.Paginate(r.rows, r.page, r.limit)
}

// Update handles pagination keys. It reports whether the key was used.
func (r *RosterView) Update(msg tea.KeyPressMsg) bool {
	p := r.Page()
	switch msg.String() {
	case "left", "h", "pgup":
		if p.HasPrev() {
			r.page = p.Page - 1
		}
		return true
	case "right", "l", "pgdown":
		if p.HasNext() {
			r.page = p.Page + 1
		}
		return true
	}
	return false
}

// Tick advances the spinner while loading.
func (r *RosterView) Tick(msg tea.Msg) tea.Cmd {
	if !r.loading {
		return nil
	}
	return r.spinner.Update(msg)
}

// View renders the current page.
func (r *RosterView) View() string {
	var b strings.Builder
	b.WriteString(styleCardTitle.Render("Employees"))
	b.WriteString("\n\n")

	switch {
	case r.loading:
		b.WriteString(r.spinner.View() + " " + styleDim.Render("Loading employees…"))
		return b.String()
	case r.err != nil:
		b.WriteString(styleStatusError.Render("Could not load employees: " + r.err.Error()))
		return b.String()
	case len(r.rows) == 0:
		b.WriteString(styleEmptyState.Render("No employees yet."))
		return b.String()
	}

	p := r.Page()
	cells := make([][]string, 0, len(p.Rows))
	for _, row := range p.Rows {
		photo := roster.Cell("")
		if row.PhotoBase64 != "" {
			photo = "✓"
		}
		cells = append(cells, []string{
			roster.Cell(row.FullName),
			roster.Cell(row.Department),
			roster.Cell(row.Role),
			roster.Cell(row.EmployeeID),
			roster.Cell(row.OfficeLocation),
			photo,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorSurface2)).
		Headers(rosterHeaders...).
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleTableHead.Padding(0, 1)
			case col == 0:
				return styleTableStrong.Padding(0, 1)
			default:
				return styleTableCell.Padding(0, 1)
			}
		})
	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(styleHelper.Render(fmt.Sprintf("Page %d of %d · %d employees", p.Page, p.Pages, p.Total)))
	return b.String()
}
