// Package cli renders verification results for the terminal.
package cli

import "github.com/charmbracelet/lipgloss"

// Palette. Adaptive colors keep records readable on light terminals.
var (
	AccentColor  = lipgloss.AdaptiveColor{Light: "#B3261E", Dark: "#E8534A"}
	SuccessColor = lipgloss.AdaptiveColor{Light: "#1B7F5A", Dark: "#4ECDA4"}
	WarningColor = lipgloss.AdaptiveColor{Light: "#9A6700", Dark: "#F2C14E"}
	ErrorColor   = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#FF6B6B"}
	InfoColor    = lipgloss.AdaptiveColor{Light: "#1565C0", Dark: "#8AB4F8"}
	SubtleColor  = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#6C6C6C"}
	BorderColor  = lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#3A3A3A"}
)

var (
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(AccentColor).MarginBottom(1)
	SuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ErrorColor)
	InfoStyle    = lipgloss.NewStyle().Foreground(InfoColor)
	SubtleStyle  = lipgloss.NewStyle().Foreground(SubtleColor)
	BoldStyle    = lipgloss.NewStyle().Bold(true)

	// BoxStyle frames a single record.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(1, 2)

	// LabelStyle right-aligns field names so values line up.
	LabelStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Width(14).
			Align(lipgloss.Right).
			MarginRight(1)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(BorderColor)
	TableCellStyle = lipgloss.NewStyle().PaddingRight(2)
)

const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	PinIcon     = "📍"
	ChartIcon   = "📊"
)

func withIcon(style lipgloss.Style, icon, message string) string {
	return style.Render(icon + " " + message)
}

// FormatSuccess prefixes message with a check mark.
func FormatSuccess(message string) string { return withIcon(SuccessStyle, SuccessIcon, message) }

// FormatError prefixes message with a cross.
func FormatError(message string) string { return withIcon(ErrorStyle, ErrorIcon, message) }

// FormatWarning prefixes message with a warning sign.
func FormatWarning(message string) string { return withIcon(WarningStyle, WarningIcon, message) }

// FormatInfo prefixes message with an info sign.
func FormatInfo(message string) string { return withIcon(InfoStyle, InfoIcon, message) }

// FormatTitle renders a section title with the pin marker.
func FormatTitle(title string) string { return withIcon(TitleStyle, PinIcon, title) }

// RenderBox frames content under a title.
func RenderBox(title, content string) string {
	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		TitleStyle.UnsetMargins().Render(title),
		content,
	))
}
