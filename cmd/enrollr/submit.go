package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"charm.land/lipgloss/v2"
	"github.com/mark3labs/enrollr/internal/employee"
	"github.com/mark3labs/enrollr/internal/submit"
	"github.com/mark3labs/enrollr/internal/wizard"
	"github.com/spf13/cobra"
)

var submitFlags struct {
	role string
}

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit the saved draft without the wizard",
	Long: `Submit the saved draft for a role without opening the wizard.

Admin drafts are validated first; if the basic info is incomplete the errors
are printed and nothing is sent. Log lines are printed as the writes happen.`,
	RunE: runSubmit,
}

func init() {
	submitCmd.Flags().StringVarP(&submitFlags.role, "role", "r", "admin", "Operator role: admin or ops")
}

var (
	toneStyles = map[submit.Tone]lipgloss.Style{
		submit.ToneMuted: lipgloss.NewStyle().Foreground(lipgloss.Color("#a6adc8")),
		submit.ToneOK:    lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1")),
		submit.ToneWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("#f9e2af")),
	}
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))
)

func runSubmit(cmd *cobra.Command, args []string) error {
	role, err := employee.ParseRole(submitFlags.role)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := openEnv(ctx, cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	out := cmd.OutOrStdout()
	pipeline := submit.New(e.services, e.services,
		submit.WithLatency(e.cfg.SubmitLatency),
		submit.WithNavigateDelay(0),
		submit.WithReporter(func(u submit.Update) {
			if u.Entry == nil {
				return
			}
			fmt.Fprintf(out, "[%3d%%] %s\n", u.Progress, toneStyles[u.Entry.Tone].Render(u.Entry.Text))
		}),
	)

	machine := wizard.New(ctx, wizard.Deps{
		Drafts:    e.drafts,
		Pipeline:  pipeline,
		BasicInfo: e.services,
	}, role)

	if c := machine.Controls(); c.Next && !machine.Next() {
		errs := machine.Errors()
		for _, field := range employee.Step1FieldNames {
			if msg, ok := errs[field]; ok {
				fmt.Fprintln(out, errorStyle.Render(fmt.Sprintf("%s: %s", field, msg)))
			}
		}
		return fmt.Errorf("draft for %s is not ready to submit (%d invalid fields)", role, len(errs))
	}
	// Advancing here only gates the submit; the stored draft keeps its step.
	e.drafts.Cancel(role)

	res, err := machine.Submit(ctx)
	if err != nil {
		if errors.Is(err, submit.ErrBusy) {
			return fmt.Errorf("a submission is already running")
		}
		return fmt.Errorf("failed to submit: %w", err)
	}
	if !res.OK {
		i := slices.IndexFunc(res.Log, func(e submit.Entry) bool { return e.Tone == submit.ToneWarn })
		if i >= 0 {
			return errors.New(res.Log[i].Text)
		}
		return errors.New("submission failed")
	}

	fmt.Fprintf(out, "\nDraft cleared. View the listing with 'enrollr list'.\n")
	return nil
}
