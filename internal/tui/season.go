package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tmazeterm/tvmaze/internal/model"
	"github.com/tmazeterm/tvmaze/internal/textutil"
)

// seasonScreen lists the episodes of one season.
type seasonScreen struct {
	coord  *ShowCoordinator
	env    *env
	show   model.TVShow
	season model.SeasonEpisodes
	list   listState
}

func newSeasonScreen(c *ShowCoordinator, r SeasonRoute) *seasonScreen {
	return &seasonScreen{coord: c, env: c.env, show: r.Show, season: r.Season}
}

func (s *seasonScreen) Title() string { return s.season.Season.Title() }

func (s *seasonScreen) Init() tea.Cmd { return nil }

func (s *seasonScreen) Update(msg tea.Msg) tea.Cmd {
	episodes := s.season.Episodes
	switch msg := msg.(type) {
	case tea.KeyMsg:
		keys := s.env.keys
		if s.list.handleKey(keys, msg, len(episodes)) {
			return nil
		}
		switch {
		case key.Matches(msg, keys.Enter):
			if s.list.cursor < len(episodes) {
				s.coord.OpenEpisode(s.season.Season, episodes[s.list.cursor])
			}
		case key.Matches(msg, keys.FlowRoot):
			s.coord.PopToRootOfCoordinator()
		case key.Matches(msg, keys.Close):
			s.coord.Dismiss()
		case key.Matches(msg, keys.StackRoot):
			s.coord.PopToRoot()
		}
	case tea.MouseMsg:
		s.list.handleMouse(msg, s.env.reverse, len(episodes))
	}
	return nil
}

func (s *seasonScreen) View(width, height int) string {
	header := lipgloss.NewStyle().MaxWidth(width).Render(
		titleStyle.Render(s.show.Name) + subtleStyle.Render(" · "+s.season.Season.Title()+
			fmt.Sprintf(" · %d episodes", len(s.season.Episodes))))
	keys := s.env.keys
	status := renderHelpLine(width, keys.Enter, keys.Back, keys.FlowRoot, keys.Close, keys.StackRoot)
	rows := max(height-lipgloss.Height(header)-lipgloss.Height(status), 1)

	episodes := s.season.Episodes
	if len(episodes) == 0 {
		empty := lipgloss.Place(width, rows, lipgloss.Center, lipgloss.Center, subtleStyle.Render("No episodes"))
		return lipgloss.JoinVertical(lipgloss.Left, header, empty, status)
	}

	start, end := s.list.window(rows, len(episodes))
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		line := textutil.Truncate(episodeLine(episodes[i]), width-1)
		if i == s.list.cursor {
			lines = append(lines, selectedStyle.Width(width).Render("▶"+line))
		} else {
			lines = append(lines, " "+line)
		}
	}
	list := lipgloss.NewStyle().Height(rows).Render(strings.Join(lines, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, header, list, status)
}

func episodeLine(e model.Episode) string {
	runtime := ""
	if e.Runtime != nil {
		runtime = fmt.Sprintf("%dm", *e.Runtime)
	}
	return fmt.Sprintf(" %-12s %-10s %4s  %s", e.Code(), e.Airdate, runtime, e.Name)
}
