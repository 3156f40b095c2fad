package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/histkit/replan/models"
)

var (
	// Colors
	ColorPrimary   = lipgloss.Color("205") // Pink
	ColorSecondary = lipgloss.Color("241") // Gray
	ColorSuccess   = lipgloss.Color("42")  // Green
	ColorError     = lipgloss.Color("160") // Red
	ColorWarning   = lipgloss.Color("214") // Orange/Yellow
	ColorText      = lipgloss.Color("252") // White/Gray
	ColorCyan      = lipgloss.Color("87")  // Cyan for folds
	ColorBlue      = lipgloss.Color("75")  // Blue for edit

	// Base Styles
	StyleTitle   = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	StyleSubtle  = lipgloss.NewStyle().Foreground(ColorSecondary)
	StylePrimary = lipgloss.NewStyle().Foreground(ColorPrimary)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)

	// Header above the entry list
	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	// Cursor row highlight
	StyleSelected = lipgloss.NewStyle().Foreground(ColorText).Bold(true)

	// Banner shown while unmatched fixup!/squash! markers exist
	StyleBanner = lipgloss.NewStyle().
			Foreground(ColorWarning).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorWarning).
			Padding(0, 1)

	// Reword input box
	StyleInputBox = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorSecondary).
			Padding(0, 1)
)

// actionStyles maps each plan action to its list color.
var actionStyles = map[models.Action]lipgloss.Style{
	models.ActionPick:   lipgloss.NewStyle().Foreground(ColorText),
	models.ActionReword: lipgloss.NewStyle().Foreground(ColorWarning),
	models.ActionEdit:   lipgloss.NewStyle().Foreground(ColorBlue),
	models.ActionSquash: lipgloss.NewStyle().Foreground(ColorCyan),
	models.ActionFixup:  lipgloss.NewStyle().Foreground(ColorCyan),
	models.ActionDrop:   lipgloss.NewStyle().Foreground(ColorError),
}

// ActionStyle returns the style for an action keyword.
func ActionStyle(a models.Action) lipgloss.Style {
	return actionStyles[a]
}
