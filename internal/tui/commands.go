package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tmazeterm/tvmaze/internal/model"
)

type showsPageMsg struct {
	page  int
	shows []model.TVShow
	err   error
}

type searchDebounceMsg struct {
	seq int
}

type searchResultsMsg struct {
	seq     int
	query   string
	results []model.SearchResult
	err     error
}

type showSeasonsMsg struct {
	showID  int
	seasons []model.SeasonEpisodes
	err     error
}

func fetchShowsPage(e *env, page int) tea.Cmd {
	return func() tea.Msg {
		shows, err := e.catalog.ShowsByPage(e.ctx, page)
		return showsPageMsg{page: page, shows: shows, err: err}
	}
}

func debounceSearch(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return searchDebounceMsg{seq: seq}
	})
}

func fetchSearch(e *env, seq int, query string) tea.Cmd {
	return func() tea.Msg {
		results, err := e.catalog.SearchShows(e.ctx, query)
		return searchResultsMsg{seq: seq, query: query, results: results, err: err}
	}
}

// fetchShowSeasons loads the seasons of a show and then every season's
// episodes.
func fetchShowSeasons(e *env, showID int) tea.Cmd {
	return func() tea.Msg {
		seasons, err := e.catalog.SeasonsForShow(e.ctx, showID)
		if err != nil {
			return showSeasonsMsg{showID: showID, err: err}
		}
		withEpisodes, err := e.catalog.EpisodesBySeason(e.ctx, seasons)
		return showSeasonsMsg{showID: showID, seasons: withEpisodes, err: err}
	}
}
