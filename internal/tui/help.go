package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// helpScreen is the key reference, presented full-screen.
type helpScreen struct {
	coord    *MainCoordinator
	env      *env
	viewport viewport.Model
}

func newHelpScreen(c *MainCoordinator) *helpScreen {
	return &helpScreen{coord: c, env: c.env, viewport: viewport.New(80, 20)}
}

func (h *helpScreen) Title() string { return "Help" }

func (h *helpScreen) Init() tea.Cmd { return nil }

func (h *helpScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, h.env.keys.Help):
			// Pop closes the presented modal before touching the stack.
			h.coord.Pop()
			return nil
		case key.Matches(msg, h.env.keys.Up):
			h.viewport.ScrollUp(1)
			return nil
		case key.Matches(msg, h.env.keys.Down):
			h.viewport.ScrollDown(1)
			return nil
		case key.Matches(msg, h.env.keys.PageUp):
			h.viewport.HalfPageUp()
			return nil
		case key.Matches(msg, h.env.keys.PageDown):
			h.viewport.HalfPageDown()
			return nil
		}

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if h.env.reverse {
				h.viewport.ScrollDown(1)
			} else {
				h.viewport.ScrollUp(1)
			}
		case tea.MouseButtonWheelDown:
			if h.env.reverse {
				h.viewport.ScrollUp(1)
			} else {
				h.viewport.ScrollDown(1)
			}
		}
	}
	return nil
}

func (h *helpScreen) View(width, height int) string {
	modalWidth := max(width-8, 20)
	modalHeight := max(height-4, 6)
	contentWidth := modalWidth - 4
	contentHeight := modalHeight - 4

	h.viewport.Width = contentWidth
	h.viewport.Height = contentHeight
	h.viewport.SetContent(lipgloss.NewStyle().Width(contentWidth).Render(h.content()))

	contentPane := lipgloss.NewStyle().
		Width(contentWidth).
		Height(contentHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(ColorGray).
		Render(h.viewport.View())

	header := lipgloss.NewStyle().
		Width(contentWidth).
		Foreground(ColorBlue).
		Bold(true).
		Render("Help")

	statusBar := subtleStyle.Render("up/down/Wheel: Scroll | PgUp/PgDn: Page | ?: Toggle Help | ESC: Close")

	modal := lipgloss.JoinVertical(lipgloss.Left, header, contentPane, statusBar)

	finalModal := lipgloss.NewStyle().
		Width(modalWidth).
		Height(modalHeight).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBlue).
		Render(modal)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, finalModal)
}

var helpSections = []string{"MOVING AROUND", "OPENING AND CLOSING", "OTHER"}

func (h *helpScreen) content() string {
	var b strings.Builder
	b.WriteString("Browse the TVmaze show index, search it by name and open a show to see\n")
	b.WriteString("its seasons and episodes. Esc always goes back one step.\n")

	for i, group := range h.env.keys.FullHelp() {
		b.WriteString("\n" + titleStyle.Render(helpSections[i]) + "\n")
		for _, binding := range group {
			help := binding.Help()
			b.WriteString("  " + lipgloss.NewStyle().Width(12).Render(help.Key) + help.Desc + "\n")
		}
	}
	return b.String()
}
