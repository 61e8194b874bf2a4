package style

import (
	"github.com/charmbracelet/lipgloss"
)

func adaptive(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

// Palette. Each colour has a light and a dark terminal variant.
var (
	PrimaryColor   = adaptive("#007ACC", "#3D9EFF")
	SecondaryColor = adaptive("#6C757D", "#A0A8B0")
	HeadingColor   = adaptive("#212529", "#F8F9FA")
	MutedColor     = adaptive("#6C757D", "#ADB5BD")

	SuccessColor = adaptive("#28A745", "#4CDD76")
	ErrorColor   = adaptive("#DC3545", "#FF6B7D")
	WarningColor = adaptive("#FFC107", "#FFD54F")
	InfoColor    = adaptive("#17A2B8", "#4DD0E1")

	// load order entries
	EnabledColor   = adaptive("#10B981", "#34D399")
	DisabledColor  = adaptive("#9CA3AF", "#6B7280")
	SeparatorColor = adaptive("#8B5CF6", "#A78BFA")

	// OverrideColor marks the package that wins a file, OverriddenColor the
	// one that loses it
	OverrideColor   = adaptive("#0EA5E9", "#38BDF8")
	OverriddenColor = adaptive("#F59E0B", "#FBBF24")
)
