package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/tmazeterm/tvmaze/internal/model"
	"github.com/tmazeterm/tvmaze/internal/textutil"
)

// dashboardScreen is the paged show index with search on top of it. It is
// the root of the stack and lives as long as the program.
type dashboardScreen struct {
	coord *MainCoordinator
	env   *env

	shows     []model.TVShow
	nextPage  int
	loading   bool
	exhausted bool
	err       error
	list      listState

	input     textinput.Model
	searching bool
	query     string
	seq       int
	results   []model.SearchResult
	searchErr error
	pending   bool
	found     listState
}

func newDashboardScreen(c *MainCoordinator) *dashboardScreen {
	input := textinput.New()
	input.Placeholder = "Search shows by name..."
	input.Prompt = "/ "
	input.CharLimit = 120

	return &dashboardScreen{
		coord: c,
		env:   c.env,
		input: input,
	}
}

func (d *dashboardScreen) Title() string { return "Shows" }

func (d *dashboardScreen) Loading() bool { return d.loading || d.pending }

func (d *dashboardScreen) CapturingInput() bool { return d.searching }

func (d *dashboardScreen) Init() tea.Cmd {
	if len(d.shows) > 0 || d.loading {
		return nil
	}
	return d.loadNextPage()
}

func (d *dashboardScreen) loadNextPage() tea.Cmd {
	if d.loading || d.exhausted {
		return nil
	}
	d.loading = true
	d.err = nil
	return fetchShowsPage(d.env, d.nextPage)
}

// inSearch reports whether the list shows search results instead of the index.
func (d *dashboardScreen) inSearch() bool { return d.query != "" }

func (d *dashboardScreen) visibleShows() []model.TVShow {
	if !d.inSearch() {
		return d.shows
	}
	shows := make([]model.TVShow, 0, len(d.results))
	for _, r := range d.results {
		if r.Show != nil {
			shows = append(shows, *r.Show)
		}
	}
	return shows
}

func (d *dashboardScreen) activeList() *listState {
	if d.inSearch() {
		return &d.found
	}
	return &d.list
}

func (d *dashboardScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case showsPageMsg:
		if msg.page != d.nextPage {
			return nil
		}
		d.loading = false
		if msg.err != nil {
			d.err = msg.err
			d.env.logger.Warn("loading show page failed", zap.Int("page", msg.page), zap.Error(msg.err))
			return nil
		}
		if len(msg.shows) == 0 {
			d.exhausted = true
			return nil
		}
		d.shows = append(d.shows, msg.shows...)
		d.nextPage++
		return nil

	case searchDebounceMsg:
		if msg.seq != d.seq || d.query == "" {
			return nil
		}
		d.pending = true
		return fetchSearch(d.env, d.seq, d.query)

	case searchResultsMsg:
		if msg.seq != d.seq {
			return nil
		}
		d.pending = false
		d.results = msg.results
		d.searchErr = msg.err
		d.found = listState{}
		return nil

	case tea.KeyMsg:
		if d.searching {
			return d.updateSearchInput(msg)
		}
		return d.handleKey(msg)

	case tea.MouseMsg:
		list := d.activeList()
		if list.handleMouse(msg, d.env.reverse, len(d.visibleShows())) {
			return d.maybeLoadMore()
		}
	}
	return nil
}

func (d *dashboardScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	keys := d.env.keys
	shows := d.visibleShows()
	list := d.activeList()

	if list.handleKey(keys, msg, len(shows)) {
		return d.maybeLoadMore()
	}

	switch {
	case key.Matches(msg, keys.Enter):
		if list.cursor < len(shows) {
			d.coord.ShowDetails(shows[list.cursor])
		}
	case key.Matches(msg, keys.Search):
		d.searching = true
		return d.input.Focus()
	case key.Matches(msg, keys.Reload):
		if d.inSearch() {
			d.seq++
			d.pending = true
			return fetchSearch(d.env, d.seq, d.query)
		}
		d.exhausted = false
		return d.loadNextPage()
	}
	return nil
}

// maybeLoadMore fetches the next index page once the cursor reaches the
// last loaded show.
func (d *dashboardScreen) maybeLoadMore() tea.Cmd {
	if d.inSearch() || len(d.shows) == 0 || d.list.cursor < len(d.shows)-1 {
		return nil
	}
	return d.loadNextPage()
}

func (d *dashboardScreen) updateSearchInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		d.searching = false
		d.input.Blur()
		d.input.SetValue("")
		d.clearSearch()
		return nil
	case "enter":
		d.searching = false
		d.input.Blur()
		return nil
	}

	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	query := strings.TrimSpace(d.input.Value())
	if query == d.query {
		return cmd
	}
	if query == "" {
		d.clearSearch()
		return cmd
	}
	d.query = query
	d.seq++
	return tea.Batch(cmd, debounceSearch(d.env.debounce, d.seq))
}

func (d *dashboardScreen) clearSearch() {
	d.query = ""
	d.seq++
	d.results = nil
	d.searchErr = nil
	d.pending = false
	d.found = listState{}
}

func (d *dashboardScreen) View(width, height int) string {
	header := d.renderHeader(width)
	status := d.renderStatusLine(width)

	var search string
	if d.searching || d.inSearch() {
		search = lipgloss.NewStyle().Width(width).Render(d.input.View())
	}

	used := lipgloss.Height(header) + lipgloss.Height(status)
	if search != "" {
		used += lipgloss.Height(search)
	}
	body := d.renderList(width, max(height-used, 1))

	parts := []string{header}
	if search != "" {
		parts = append(parts, search)
	}
	parts = append(parts, body, status)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (d *dashboardScreen) renderHeader(width int) string {
	brand := lipgloss.NewStyle().
		Background(ColorNavy).
		Foreground(ColorGreen).
		Bold(true).
		Render(" TVmaze ")

	var info string
	if d.inSearch() {
		info = fmt.Sprintf("%d results for %q", len(d.visibleShows()), d.query)
	} else {
		info = fmt.Sprintf("%d shows, %d pages", len(d.shows), d.nextPage)
		if d.exhausted {
			info += ", end of index"
		}
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(brand + " " + subtleStyle.Render(info))
}

func (d *dashboardScreen) renderList(width, height int) string {
	shows := d.visibleShows()
	if len(shows) == 0 {
		switch {
		case d.Loading():
			return renderLoadingPlaceholder("Loading shows...", width, height)
		case d.inSearch() && d.searchErr != nil:
			return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, errorStyle.Render(d.searchErr.Error()))
		case d.inSearch():
			return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, subtleStyle.Render("No matches"))
		case d.err != nil:
			return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
				errorStyle.Render(d.err.Error())+"\n"+subtleStyle.Render("press r to retry"))
		}
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, subtleStyle.Render("No shows"))
	}

	list := d.activeList()
	start, end := list.window(height, len(shows))
	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		rows = append(rows, renderShowRow(shows[i], width, i == list.cursor))
	}
	return lipgloss.NewStyle().Height(height).Render(strings.Join(rows, "\n"))
}

func renderShowRow(show model.TVShow, width int, selected bool) string {
	year := "----"
	if len(show.Premiered) >= 4 {
		year = show.Premiered[:4]
	}
	rating := "  - "
	if show.Rating.Average != nil {
		rating = fmt.Sprintf("%4.1f", show.Rating.Value())
	}
	meta := fmt.Sprintf(" %s  ★%s  %s", year, rating, strings.Join(show.Genres, ", "))
	nameWidth := max(width-lipgloss.Width(meta)-2, 10)
	line := " " + textutil.Truncate(show.Name, nameWidth)
	line += strings.Repeat(" ", max(nameWidth-lipgloss.Width(line)+1, 1)) + meta

	line = textutil.Truncate(line, width-1)

	if selected {
		return selectedStyle.Width(width).Render("▶" + line)
	}
	badge := lipgloss.NewStyle().Foreground(statusColor(show.Status.String())).Render("●")
	return badge + line
}

func (d *dashboardScreen) renderStatusLine(width int) string {
	var left string
	switch {
	case d.inSearch() && d.searchErr != nil:
		left = errorStyle.Render("search failed: " + d.searchErr.Error())
	case !d.inSearch() && d.err != nil && len(d.shows) > 0:
		left = errorStyle.Render("loading more failed: " + d.err.Error())
	}

	var help []string
	for _, b := range d.env.keys.ShortHelp() {
		help = append(help, b.Help().Key+" "+b.Help().Desc)
	}
	line := strings.Join(help, " | ")
	if left != "" {
		line = left + "  " + line
	}
	return statusBarStyle.Width(width).MaxHeight(1).Render(line)
}
