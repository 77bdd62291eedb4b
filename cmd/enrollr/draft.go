package main

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/mark3labs/enrollr/internal/employee"
	"github.com/spf13/cobra"
)

var draftFlags struct {
	role string
}

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Inspect or discard autosaved drafts",
}

var draftShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved draft for a role",
	RunE:  runDraftShow,
}

var draftClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the saved draft for a role",
	RunE:  runDraftClear,
}

func init() {
	draftCmd.AddCommand(draftShowCmd)
	draftCmd.AddCommand(draftClearCmd)
	draftCmd.PersistentFlags().StringVarP(&draftFlags.role, "role", "r", "admin", "Operator role: admin or ops")
}

func runDraftShow(cmd *cobra.Command, args []string) error {
	role, err := employee.ParseRole(draftFlags.role)
	if err != nil {
		return err
	}
	e, err := openEnv(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	d, ok := e.drafts.Load(cmd.Context(), role)
	if !ok {
		fmt.Fprintf(cmd.OutOrStdout(), "No draft saved for %s.\n", role)
		return nil
	}
	if n := len(d.Step2.PhotoBase64); n > 0 {
		d.Step2.PhotoBase64 = fmt.Sprintf("<%d bytes>", n)
	}

	data, err := sonic.ConfigStd.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n%s\n", e.drafts.Key(role), d.Step, data)
	return nil
}

func runDraftClear(cmd *cobra.Command, args []string) error {
	role, err := employee.ParseRole(draftFlags.role)
	if err != nil {
		return err
	}
	e, err := openEnv(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.drafts.Clear(cmd.Context(), role); err != nil {
		return fmt.Errorf("failed to clear draft: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s draft.\n", role)
	return nil
}
