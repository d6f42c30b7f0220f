package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tmazeterm/tvmaze/internal/model"
	"github.com/tmazeterm/tvmaze/internal/textutil"
)

// episodeSheet shows one episode. It is presented, never pushed.
type episodeSheet struct {
	env      *env
	season   model.Season
	episode  model.Episode
	viewport viewport.Model
}

func newEpisodeSheet(c *ShowCoordinator, r EpisodeRoute) *episodeSheet {
	return &episodeSheet{
		env:      c.env,
		season:   r.Season,
		episode:  r.Episode,
		viewport: viewport.New(60, 10),
	}
}

func (s *episodeSheet) Title() string { return s.episode.Name }

func (s *episodeSheet) Init() tea.Cmd { return nil }

func (s *episodeSheet) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			s.viewport.ScrollUp(1)
			return nil
		case "down", "j":
			s.viewport.ScrollDown(1)
			return nil
		}
		var cmd tea.Cmd
		s.viewport, cmd = s.viewport.Update(msg)
		return cmd

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return nil
		}
		up := msg.Button == tea.MouseButtonWheelUp
		down := msg.Button == tea.MouseButtonWheelDown
		if s.env.reverse {
			up, down = down, up
		}
		switch {
		case up:
			s.viewport.ScrollUp(1)
		case down:
			s.viewport.ScrollDown(1)
		}
	}
	return nil
}

func (s *episodeSheet) View(width, height int) string {
	e := s.episode
	title := titleStyle.Render(e.Code()) + "  " + lipgloss.NewStyle().Bold(true).Render(e.Name)

	var facts []string
	if e.Airdate != "" {
		facts = append(facts, "aired "+e.Airdate)
	}
	if e.Runtime != nil {
		facts = append(facts, fmt.Sprintf("%d min", *e.Runtime))
	}
	facts = append(facts, s.season.Title())

	header := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().MaxWidth(width).Render(title),
		subtleStyle.MaxWidth(width).Render(strings.Join(facts, " · ")),
	)

	summary := textutil.StripHTML(e.Summary)
	if summary == "" {
		summary = "No summary."
	}
	s.viewport.Width = width
	s.viewport.Height = max(height-lipgloss.Height(header)-2, 1)
	s.viewport.SetContent(lipgloss.NewStyle().Width(width).Render(summary))

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		s.viewport.View(),
		subtleStyle.Render("↑/↓ scroll · esc close"),
	)
}
