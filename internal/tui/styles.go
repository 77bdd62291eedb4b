package tui

import (
	"charm.land/lipgloss/v2"
)

// Catppuccin Mocha palette.
var (
	colorBase     = lipgloss.Color("#1e1e2e")
	colorMantle   = lipgloss.Color("#181825")
	colorSurface0 = lipgloss.Color("#313244")
	colorSurface2 = lipgloss.Color("#585b70")
	colorOverlay0 = lipgloss.Color("#6c7086")

	colorSubtext0   = lipgloss.Color("#a6adc8")
	colorSubtext1   = lipgloss.Color("#bac2de")
	colorText       = lipgloss.Color("#cdd6f4")
	colorTextBright = lipgloss.Color("#f5e0dc")

	colorPrimary   = lipgloss.Color("#cba6f7") // Mauve
	colorSecondary = lipgloss.Color("#89b4fa") // Blue
	colorTertiary  = lipgloss.Color("#b4befe") // Lavender

	colorSuccess = lipgloss.Color("#a6e3a1")
	colorWarning = lipgloss.Color("#f9e2af")
	colorError   = lipgloss.Color("#f38ba8")

	colorMuted         = colorOverlay0
	colorTextDim       = colorSubtext0
	colorBorderFocused = colorTertiary
)

var (
	styleHeader = lipgloss.NewStyle().
			Foreground(colorTextBright).
			Background(colorMantle).
			Bold(true).
			Padding(0, 1)

	styleHeaderTitle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	styleHeaderSeparator = lipgloss.NewStyle().
				Foreground(colorMuted)

	styleHeaderInfo = lipgloss.NewStyle().
			Foreground(colorText)

	styleFooter = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorMantle).
			Padding(0, 1)

	styleCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface2).
			Padding(1, 2)

	styleCardTitle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleSubtitle = lipgloss.NewStyle().
			Foreground(colorTextDim).
			Italic(true)

	styleLabel = lipgloss.NewStyle().
			Foreground(colorSubtext1).
			Bold(true)

	styleLabelFocused = lipgloss.NewStyle().
				Foreground(colorBorderFocused).
				Bold(true)

	styleHelper = lipgloss.NewStyle().
			Foreground(colorTextDim)

	styleFieldError = lipgloss.NewStyle().
			Foreground(colorError)

	styleReadOnly = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Bold(true)

	styleDim = lipgloss.NewStyle().
			Foreground(colorTextDim)

	// Suggestion dropdown
	styleSuggestion = lipgloss.NewStyle().
			Foreground(colorText).
			PaddingLeft(2)

	styleSuggestionActive = lipgloss.NewStyle().
				Foreground(colorBase).
				Background(colorTertiary).
				Bold(true).
				PaddingLeft(1).
				PaddingRight(1)

	styleDropdown = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorMuted)

	// Progress panel
	styleProgressFill = lipgloss.NewStyle().
				Foreground(colorPrimary)

	styleProgressEmpty = lipgloss.NewStyle().
				Foreground(colorSurface2)

	styleLogMuted = lipgloss.NewStyle().Foreground(colorTextDim)
	styleLogOK    = lipgloss.NewStyle().Foreground(colorSuccess)
	styleLogWarn  = lipgloss.NewStyle().Foreground(colorWarning)

	// Badges
	styleBadge = lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true).
			Foreground(colorBase).
			Background(colorTertiary)

	styleBadgeMuted = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(colorText).
			Background(colorSurface0)

	// Roster table
	styleTableHead = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Bold(true)

	styleTableCell = lipgloss.NewStyle().
			Foreground(colorText)

	styleTableStrong = lipgloss.NewStyle().
				Foreground(colorTextBright).
				Bold(true)

	styleEmptyState = lipgloss.NewStyle().
			Foreground(colorTextDim).
			Italic(true)

	styleStatusError = lipgloss.NewStyle().
				Foreground(colorError).
				Bold(true)

	// Hint bar
	styleHintKey = lipgloss.NewStyle().
			Foreground(colorSubtext1).
			Bold(true)

	styleHintDesc = lipgloss.NewStyle().
			Foreground(colorSubtext0)

	styleHintSeparator = lipgloss.NewStyle().
				Foreground(colorSurface2)
)
