// Package theme provides the color palettes used by the quick panels.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the colors used in the panels.
type Theme struct {
	Accent    lipgloss.Color
	AccentFg  lipgloss.Color // text drawn on the Accent background
	Border    lipgloss.Color
	BorderDim lipgloss.Color
	MutedFg   lipgloss.Color
	TextFg    lipgloss.Color
	SuccessFg lipgloss.Color
	WarnFg    lipgloss.Color
	ErrorFg   lipgloss.Color
}

// Theme names.
const (
	DraculaName    = "dracula"
	CleanLightName = "clean-light"
)

// Dracula returns the default dark palette.
func Dracula() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#BD93F9"),
		AccentFg:  lipgloss.Color("#282A36"),
		Border:    lipgloss.Color("#6272A4"),
		BorderDim: lipgloss.Color("#44475A"),
		MutedFg:   lipgloss.Color("#6272A4"),
		TextFg:    lipgloss.Color("#F8F8F2"),
		SuccessFg: lipgloss.Color("#50FA7B"),
		WarnFg:    lipgloss.Color("#FFB86C"),
		ErrorFg:   lipgloss.Color("#FF5555"),
	}
}

// CleanLight returns a palette for light terminals.
func CleanLight() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#0969DA"),
		AccentFg:  lipgloss.Color("#FFFFFF"),
		Border:    lipgloss.Color("#D0D7DE"),
		BorderDim: lipgloss.Color("#E8E8E8"),
		MutedFg:   lipgloss.Color("#6E7781"),
		TextFg:    lipgloss.Color("#24292F"),
		SuccessFg: lipgloss.Color("#059669"),
		WarnFg:    lipgloss.Color("#D97706"),
		ErrorFg:   lipgloss.Color("#DC2626"),
	}
}

// AvailableThemes lists the valid theme names.
func AvailableThemes() []string {
	return []string{DraculaName, CleanLightName}
}

// ForName returns the theme for a configured name, or nil when the name
// is unknown. An empty name yields the default.
func ForName(name string) *Theme {
	switch name {
	case "", DraculaName:
		return Dracula()
	case CleanLightName:
		return CleanLight()
	}
	return nil
}
