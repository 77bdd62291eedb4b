package main

import (
	"context"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/fang"
	"github.com/mark3labs/enrollr/internal/logger"
	"github.com/spf13/cobra"
)

const (
	logoText1 = "█▀▀ █▄ █ █▀█ █▀█ █   █   █▀█"
	logoText2 = "██▄ █ ▀█ █▀▄ █▄█ █▄▄ █▄▄ █▀▄"
)

// Version set via ldflags during build
var version = "dev"

func main() {
	// Ensure logger is closed on exit
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootFlags struct {
	dataDir      string
	draftBackend string
	api1         string
	api2         string
	logLevel     string
}

var rootCmd = &cobra.Command{
	Use:   "enrollr",
	Short: "Terminal wizard for creating employee records",
}

func renderLogo() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("#cba6f7")).Bold(true)
	return style.Render(strings.Join([]string{logoText1, logoText2}, "\n"))
}

func init() {
	rootCmd.Long = renderLogo() + `

enrollr collects an employee record in two steps, looks up departments and
office locations as you type, keeps an autosaved draft per role and submits
the record to the basic-info and details services in order.

Admins fill in basic info and details; ops only add details.`

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.dataDir, "data-dir", ".enrollr", "Directory for drafts and local state")
	pf.StringVar(&rootFlags.draftBackend, "draft-backend", "file", "Draft storage: file, sqlite, nats or memory")
	pf.StringVar(&rootFlags.api1, "api1", "http://localhost:4001", "Departments and basic-info service URL")
	pf.StringVar(&rootFlags.api2, "api2", "http://localhost:4002", "Locations and details service URL")
	pf.StringVar(&rootFlags.logLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(wizardCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(draftCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(configCmd)
}
