package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/enrollr/internal/employee"
	"github.com/mark3labs/enrollr/internal/logger"
	"github.com/mark3labs/enrollr/internal/state"
	"github.com/mark3labs/enrollr/internal/tui"
	"github.com/spf13/cobra"
)

var wizardFlags struct {
	role string
}

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Run the interactive employee wizard",
	Long: `Run the interactive employee wizard.

The wizard restores the autosaved draft for the chosen role, looks up
departments and office locations as you type and submits the finished record.
Press ctrl+r inside the wizard to switch roles. Without --role the wizard
opens with the role that was active when it last closed.`,
	RunE: runWizard,
}

func init() {
	wizardCmd.Flags().StringVarP(&wizardFlags.role, "role", "r", "admin", "Operator role: admin or ops")
}

func runWizard(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := openEnv(ctx, cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	role, err := pickRole(cmd, e.cfg.DataDir)
	if err != nil {
		return err
	}

	last, err := tui.Run(ctx, tui.Deps{
		Drafts:  e.drafts,
		Backend: e.services,
		Role:    role,
		Settings: tui.Settings{
			Debounce:      e.cfg.Debounce,
			BlurGrace:     e.cfg.BlurGrace,
			MinChars:      e.cfg.MinChars,
			DefaultLimit:  e.cfg.DefaultLimit,
			Latency:       e.cfg.SubmitLatency,
			NavigateDelay: e.cfg.NavigateDelay,
		},
	})
	if saveErr := state.Save(e.cfg.DataDir, &state.UIState{LastRole: last.String()}); saveErr != nil {
		logger.Warn("saving UI state: %v", saveErr)
	}
	if err != nil {
		return fmt.Errorf("wizard exited: %w", err)
	}
	return nil
}

// pickRole uses --role when given, otherwise the role of the previous run.
func pickRole(cmd *cobra.Command, dataDir string) (employee.Role, error) {
	if !cmd.Flags().Changed("role") {
		if last := state.Load(dataDir).LastRole; last != "" {
			if role, err := employee.ParseRole(last); err == nil {
				return role, nil
			}
		}
	}
	return employee.ParseRole(wizardFlags.role)
}
