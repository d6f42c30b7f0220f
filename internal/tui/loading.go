package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// loadingSpinner supplies frames and pacing. The frame shown is picked from
// the clock, so no spinner.Model state is kept.
var loadingSpinner = spinner.MiniDot

// renderLoadingPlaceholder renders an animated loading indicator.
func renderLoadingPlaceholder(label string, width, height int) string {
	frames := loadingSpinner.Frames
	frame := frames[time.Now().UnixMilli()/loadingSpinner.FPS.Milliseconds()%int64(len(frames))]

	text := lipgloss.NewStyle().
		Foreground(ColorGray).
		Italic(true).
		Render(frame + " " + label)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, text)
}

// SpinnerTickMsg triggers a re-render for loading spinners.
type SpinnerTickMsg struct{}

func spinnerTick() tea.Cmd {
	return tea.Tick(loadingSpinner.FPS, func(time.Time) tea.Msg {
		return SpinnerTickMsg{}
	})
}
