// Package themes defines color palettes for the interactive interface.
package themes

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/pinpoint/internal/model"
)

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Label         lipgloss.Style
	Muted         lipgloss.Style
	RoundedBox    lipgloss.Style
	FocusedPrompt lipgloss.Style
	BlurredPrompt lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusWarning lipgloss.Style
	StatusError   lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusPending lipgloss.Style
	Primary       lipgloss.Color
	Border        lipgloss.Color
}

func build(primary, border, fg, subtle, success, warning, errColor, info lipgloss.Color) Theme {
	return Theme{
		Primary: primary,
		Border:  border,
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(subtle).
			MarginBottom(1),
		Normal: lipgloss.NewStyle().
			Foreground(fg),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(fg),
		Label: lipgloss.NewStyle().
			Foreground(subtle).
			Width(14).
			Align(lipgloss.Right).
			MarginRight(1),
		Muted: lipgloss.NewStyle().
			Foreground(subtle),
		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(1, 2),
		FocusedPrompt: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true),
		BlurredPrompt: lipgloss.NewStyle().
			Foreground(subtle),
		StatusSuccess: lipgloss.NewStyle().
			Foreground(success).
			Bold(true),
		StatusWarning: lipgloss.NewStyle().
			Foreground(warning).
			Bold(true),
		StatusError: lipgloss.NewStyle().
			Foreground(errColor).
			Bold(true),
		StatusInfo: lipgloss.NewStyle().
			Foreground(info),
		StatusPending: lipgloss.NewStyle().
			Foreground(subtle).
			Italic(true),
	}
}

// Default is the default theme.
var Default = build(
	lipgloss.Color("#f28c28"),
	lipgloss.Color("#404040"),
	lipgloss.Color("#fafafa"),
	lipgloss.Color("#737373"),
	lipgloss.Color("#10b981"),
	lipgloss.Color("#f59e0b"),
	lipgloss.Color("#ef4444"),
	lipgloss.Color("#3b82f6"),
)

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = build(
	lipgloss.Color("#cba6f7"),
	lipgloss.Color("#45475a"),
	lipgloss.Color("#cdd6f4"),
	lipgloss.Color("#6c7086"),
	lipgloss.Color("#a6e3a1"),
	lipgloss.Color("#f9e2af"),
	lipgloss.Color("#f38ba8"),
	lipgloss.Color("#89dceb"),
)

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}

// Quality returns the status style for an address quality tier.
func (t Theme) Quality(q model.AddressQuality) lipgloss.Style {
	switch q {
	case model.QualityVeryGood, model.QualityGood:
		return t.StatusSuccess
	case model.QualityMedium:
		return t.StatusWarning
	default:
		return t.StatusError
	}
}
