package main

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/mark3labs/enrollr/internal/roster"
	"github.com/spf13/cobra"
)

var listFlags struct {
	page  int
	limit int
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List submitted employees",
	Long: `List submitted employees.

Basic-info and details records are fetched from both services and joined on
email, falling back to the employee id.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().IntVarP(&listFlags.page, "page", "p", 1, "Page to show")
	listCmd.Flags().IntVarP(&listFlags.limit, "limit", "l", roster.DefaultLimit, "Rows per page")
}

func runList(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	rows, err := roster.Load(cmd.Context(), e.services)
	if err != nil {
		return fmt.Errorf("failed to load employees: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(rows) == 0 {
		fmt.Fprintln(out, "No employees yet.")
		return nil
	}

	p := roster.Paginate(rows, listFlags.page, listFlags.limit)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Name", "Department", "Role", "ID", "Office", "Photo")
	for _, r := range p.Rows {
		photo := roster.Cell("")
		if r.PhotoBase64 != "" {
			photo = "yes"
		}
		t.Row(roster.Cell(r.FullName), roster.Cell(r.Department), roster.Cell(r.Role),
			roster.Cell(r.EmployeeID), roster.Cell(r.OfficeLocation), photo)
	}
	fmt.Fprintln(out, t.Render())
	fmt.Fprintf(out, "Page %d of %d (%d employees)\n", p.Page, p.Pages, p.Total)
	return nil
}
