package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/tmazeterm/tvmaze/internal/model"
	"github.com/tmazeterm/tvmaze/internal/textutil"
)

const summaryLines = 4

// overviewScreen is the root of a show flow. It renders in place of the
// ShowFlowRoute that hosts the flow.
type overviewScreen struct {
	coord *ShowCoordinator
	env   *env
	show  model.TVShow

	seasons []model.SeasonEpisodes
	loading bool
	loaded  bool
	err     error
	list    listState
}

func newOverviewScreen(c *ShowCoordinator, show model.TVShow) *overviewScreen {
	return &overviewScreen{coord: c, env: c.env, show: show}
}

func (s *overviewScreen) Title() string { return s.show.Name }

func (s *overviewScreen) Loading() bool { return s.loading }

func (s *overviewScreen) Init() tea.Cmd {
	if s.loaded || s.loading {
		return nil
	}
	return s.load()
}

func (s *overviewScreen) load() tea.Cmd {
	s.loading = true
	s.err = nil
	return fetchShowSeasons(s.env, s.show.ID)
}

// Appear links the flow's root to its host entry in the navigation history.
func (s *overviewScreen) Appear() tea.Cmd {
	s.coord.CheckRouteEquivalence()
	return nil
}

// Close ends the flow when its host leaves the stack.
func (s *overviewScreen) Close() {
	s.coord.release()
}

func (s *overviewScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case showSeasonsMsg:
		if msg.showID != s.show.ID {
			return nil
		}
		s.loading = false
		if msg.err != nil {
			s.err = msg.err
			s.env.logger.Warn("loading seasons failed", zap.Int("show", s.show.ID), zap.Error(msg.err))
			return nil
		}
		s.loaded = true
		s.seasons = msg.seasons
		s.list.move(0, len(s.seasons))
		return nil

	case tea.KeyMsg:
		keys := s.env.keys
		if s.list.handleKey(keys, msg, len(s.seasons)) {
			return nil
		}
		switch {
		case key.Matches(msg, keys.Enter):
			if s.list.cursor < len(s.seasons) {
				s.coord.OpenSeason(s.show, s.seasons[s.list.cursor])
			}
		case key.Matches(msg, keys.Close):
			s.coord.Dismiss()
		case key.Matches(msg, keys.StackRoot):
			s.coord.PopToRoot()
		case key.Matches(msg, keys.Reload):
			if !s.loading {
				return s.load()
			}
		}

	case tea.MouseMsg:
		s.list.handleMouse(msg, s.env.reverse, len(s.seasons))
	}
	return nil
}

func (s *overviewScreen) View(width, height int) string {
	details := s.renderDetails(width)
	status := renderHelpLine(width, s.env.keys.Enter, s.env.keys.Back, s.env.keys.Close, s.env.keys.StackRoot)
	rest := max(height-lipgloss.Height(details)-lipgloss.Height(status), 1)

	var body string
	switch {
	case s.loading && len(s.seasons) == 0:
		body = renderLoadingPlaceholder("Loading seasons...", width, rest)
	case s.err != nil && len(s.seasons) == 0:
		body = lipgloss.Place(width, rest, lipgloss.Center, lipgloss.Center,
			errorStyle.Render(s.err.Error())+"\n"+subtleStyle.Render("press r to retry"))
	case len(s.seasons) == 0:
		body = lipgloss.Place(width, rest, lipgloss.Center, lipgloss.Center, subtleStyle.Render("No seasons"))
	default:
		body = s.renderSeasons(width, rest)
	}
	return lipgloss.JoinVertical(lipgloss.Left, details, body, status)
}

func (s *overviewScreen) renderDetails(width int) string {
	show := s.show
	name := titleStyle.Render(show.Name)
	badge := lipgloss.NewStyle().Foreground(statusColor(show.Status.String())).Render(show.Status.String())
	if show.Status == model.StatusNone {
		badge = ""
	}

	facts := []string{fmt.Sprintf("★ %.1f", show.Rating.Value())}
	if len(show.Schedule.Days) > 0 || show.Schedule.Time != "" {
		facts = append(facts, show.Schedule.String())
	}
	if len(show.Genres) > 0 {
		facts = append(facts, strings.Join(show.Genres, ", "))
	}
	if show.Language != "" {
		facts = append(facts, show.Language)
	}

	summary := textutil.StripHTML(show.Summary)
	if summary == "" {
		summary = "No summary."
	}
	summaryBlock := lipgloss.NewStyle().
		Width(width).
		MaxHeight(summaryLines).
		Render(summary)

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().MaxWidth(width).Render(name+"  "+badge),
		subtleStyle.MaxWidth(width).Render(strings.Join(facts, " · ")),
		summaryBlock,
		"",
	)
}

func (s *overviewScreen) renderSeasons(width, height int) string {
	chartHeight := 0
	if height >= 10 {
		chartHeight = min(7, height/3)
	}
	chart := renderEpisodesChart(s.seasons, s.list.cursor, width, chartHeight)

	rows := height
	if chart != "" {
		rows -= lipgloss.Height(chart)
	}
	rows = max(rows, 1)

	start, end := s.list.window(rows, len(s.seasons))
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		se := s.seasons[i]
		line := fmt.Sprintf(" %-12s %3d episodes  %s", se.Season.Title(), len(se.Episodes), seasonDates(se.Season))
		line = textutil.Truncate(line, width-1)
		if i == s.list.cursor {
			lines = append(lines, selectedStyle.Width(width).Render("▶"+line))
		} else {
			lines = append(lines, " "+line)
		}
	}
	list := lipgloss.NewStyle().Height(rows).Render(strings.Join(lines, "\n"))
	if chart == "" {
		return list
	}
	return lipgloss.JoinVertical(lipgloss.Left, chart, list)
}

func seasonDates(s model.Season) string {
	switch {
	case s.PremiereDate == "" && s.EndDate == "":
		return ""
	case s.EndDate == "":
		return s.PremiereDate + " –"
	default:
		return s.PremiereDate + " – " + s.EndDate
	}
}

// renderHelpLine renders a status bar listing the given bindings.
func renderHelpLine(width int, bindings ...key.Binding) string {
	items := make([]string, 0, len(bindings))
	for _, b := range bindings {
		items = append(items, b.Help().Key+": "+b.Help().Desc)
	}
	return statusBarStyle.Width(width).MaxHeight(1).Render(strings.Join(items, " | "))
}
