package style

import (
	"github.com/charmbracelet/lipgloss"
)

// Base styles
var (
	// Headers and titles
	TitleStyle = lipgloss.NewStyle().
			Foreground(HeadingColor).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	// Status styles
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	CodeStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	PathStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Italic(true)
)

// Load order styles
var (
	EnabledStyle = lipgloss.NewStyle().
			Foreground(EnabledColor).
			Bold(true)

	DisabledStyle = lipgloss.NewStyle().
			Foreground(DisabledColor)

	SeparatorStyle = lipgloss.NewStyle().
			Foreground(SeparatorColor).
			Bold(true)

	OverrideStyle = lipgloss.NewStyle().
			Foreground(OverrideColor)

	OverriddenStyle = lipgloss.NewStyle().
			Foreground(OverriddenColor)
)
