// Package state keeps small preferences that carry across wizard runs.
package state

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/mark3labs/enrollr/internal/logger"
)

const fileName = "ui-state.json"

// UIState holds persistent UI preferences.
type UIState struct {
	// LastRole is the role the wizard was showing when it closed.
	LastRole string `json:"lastRole,omitempty"`
}

// DefaultUIState returns the state used when nothing is stored.
func DefaultUIState() *UIState {
	return &UIState{}
}

// Load reads dataDir/ui-state.json. A missing or unreadable file yields
// the defaults.
func Load(dataDir string) *UIState {
	path := filepath.Join(dataDir, fileName)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultUIState()
	}
	if err != nil {
		logger.Warn("Failed to read UI state file: %v", err)
		return DefaultUIState()
	}

	var st UIState
	if err := sonic.Unmarshal(data, &st); err != nil {
		logger.Warn("Failed to parse UI state JSON: %v", err)
		return DefaultUIState()
	}
	return &st
}

// Save writes the state to dataDir/ui-state.json, creating dataDir.
func Save(dataDir string, st *UIState) error {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	data, err := sonic.ConfigStd.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling UI state: %w", err)
	}

	path := filepath.Join(dataDir, fileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing UI state file: %w", err)
	}

	logger.Debug("UI state saved to %s", path)
	return nil
}
