package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tmazeterm/tvmaze/internal/navigation"
)

const dragHandle = "━━━━━━"

// sheetHeight sizes a sheet from its first detent.
func sheetHeight(style navigation.PresentationStyle, height int) int {
	fraction := navigation.DetentLarge.Fraction
	if detents := style.Detents(); len(detents) > 0 {
		fraction = detents[0].Fraction
	}
	h := int(float64(height) * fraction)
	return max(min(h, height), min(5, height))
}

// showsDragIndicator applies the automatic rule: visible only when there is
// more than one detent to drag between.
func showsDragIndicator(style navigation.PresentationStyle) bool {
	v, ok := style.DragIndicator()
	if !ok {
		return false
	}
	switch v {
	case navigation.VisibilityVisible:
		return true
	case navigation.VisibilityHidden:
		return false
	default:
		return len(style.Detents()) > 1
	}
}

// renderSheet draws sheet over the bottom of base.
func renderSheet(base string, sheet Screen, style navigation.PresentationStyle, width, height int) string {
	h := sheetHeight(style, height)
	innerWidth := max(width-4, 1)
	innerHeight := max(h-2, 1)

	var content string
	if showsDragIndicator(style) {
		handle := lipgloss.PlaceHorizontal(innerWidth, lipgloss.Center, subtleStyle.Render(dragHandle))
		content = handle + "\n" + sheet.View(innerWidth, max(innerHeight-1, 1))
	} else {
		content = sheet.View(innerWidth, innerHeight)
	}

	panel := lipgloss.NewStyle().
		Width(width-2).
		Height(innerHeight).
		MaxHeight(h).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBlue).
		Render(content)

	visible := max(height-lipgloss.Height(panel), 0)
	lines := strings.Split(base, "\n")
	if len(lines) > visible {
		lines = lines[:visible]
	}
	for len(lines) < visible {
		lines = append(lines, "")
	}
	return strings.Join(append(lines, panel), "\n")
}
