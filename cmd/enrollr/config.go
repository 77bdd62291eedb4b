package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/enrollr/internal/config"
	"github.com/spf13/cobra"
)

var configFlags struct {
	global bool
	force  bool
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage enrollr configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the current configuration to a file",
	Long: `Write the current configuration (defaults, environment and flags
merged) to a yaml file.

By default, creates a project config at ./enrollr.yml.
Use --global to write ~/.config/enrollr/enrollr.yml instead.`,
	RunE: runConfigInit,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().BoolVarP(&configFlags.global, "global", "g", false, "Write the global config instead of the project config")
	configInitCmd.Flags().BoolVarP(&configFlags.force, "force", "f", false, "Overwrite an existing config file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	targetPath := config.ProjectPath()
	if configFlags.global {
		targetPath = config.GlobalPath()
	}
	if !configFlags.force && fileExists(targetPath) {
		return fmt.Errorf("config file already exists at %s\n\nUse --force to overwrite", targetPath)
	}

	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if configFlags.global {
		err = config.WriteGlobal(cfg)
	} else {
		err = config.WriteProject(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Config written to: %s\n\n", targetPath)
	fmt.Fprintln(cmd.OutOrStdout(), "Run 'enrollr wizard' to get started.")
	return nil
}

// fileExists checks if a file exists (helper for config init).
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
