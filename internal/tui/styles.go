package tui

import "github.com/charmbracelet/lipgloss"

var (
	ColorNavy   = lipgloss.Color("#1B2B4B")
	ColorBlue   = lipgloss.Color("#4FA3F7")
	ColorGreen  = lipgloss.Color("#3FCF8E")
	ColorYellow = lipgloss.Color("#F5C542")
	ColorOrange = lipgloss.Color("#F28C28")
	ColorRed    = lipgloss.Color("#FF5F5F")
	ColorGray   = lipgloss.Color("#808080")
	ColorWhite  = lipgloss.Color("#F0F0F0")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true)

	subtleStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	errorStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	selectedStyle = lipgloss.NewStyle().
			Background(ColorNavy).
			Foreground(ColorWhite).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorGray).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Background(ColorNavy).
			Foreground(ColorWhite)

	breadcrumbStyle = lipgloss.NewStyle().
			Foreground(ColorGray)
)

// statusColor picks the accent for a show status badge.
func statusColor(status string) lipgloss.Color {
	switch status {
	case "Running":
		return ColorGreen
	case "To Be Determined":
		return ColorYellow
	case "Ended":
		return ColorOrange
	default:
		return ColorGray
	}
}
