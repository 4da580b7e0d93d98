package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/josephgoksu/taskpilot/models"
)

var (
	// Colors
	ColorPrimary   = lipgloss.Color("205") // Pink
	ColorSecondary = lipgloss.Color("241") // Gray
	ColorSuccess   = lipgloss.Color("42")  // Green
	ColorError     = lipgloss.Color("160") // Red
	ColorWarning   = lipgloss.Color("214") // Orange/Yellow
	ColorText      = lipgloss.Color("252") // White/Gray
	ColorCyan      = lipgloss.Color("87")  // Cyan for active work

	// Base Styles
	StyleTitle   = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	StyleSubtle  = lipgloss.NewStyle().Foreground(ColorSecondary)
	StylePrimary = lipgloss.NewStyle().Foreground(ColorPrimary)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleText    = lipgloss.NewStyle().Foreground(ColorText)
	StyleActive  = lipgloss.NewStyle().Foreground(ColorCyan).Bold(true)

	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	StylePanel = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorSecondary).
			Padding(0, 1)
)

// StatusStyle returns the style used for a task status.
func StatusStyle(s models.TaskStatus) lipgloss.Style {
	switch s {
	case models.StatusDone:
		return StyleSuccess
	case models.StatusFailed:
		return StyleError
	case models.StatusActive:
		return StyleActive
	default:
		return StyleSubtle
	}
}

// PriorityStyle returns the style used for a priority.
func PriorityStyle(p models.TaskPriority) lipgloss.Style {
	switch p {
	case models.PriorityHigh:
		return StyleWarning
	case models.PriorityLow:
		return StyleSubtle
	default:
		return StyleText
	}
}

// Icon returns a styled icon string
func Icon(icon string, style lipgloss.Style) string {
	return style.Render(icon)
}
