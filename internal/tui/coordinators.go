package tui

import (
	"github.com/tmazeterm/tvmaze/internal/model"
	"github.com/tmazeterm/tvmaze/internal/navigation"
)

// MainCoordinator owns the top-level flow: the show list, the show flows
// pushed from it and the help screen.
type MainCoordinator struct {
	*navigation.Coordinator[MainRoute]
	env       *env
	dashboard *dashboardScreen
}

func newMainCoordinator(e *env) *MainCoordinator {
	c := &MainCoordinator{env: e}
	c.Coordinator = navigation.NewCoordinator[MainRoute](e.registry, DashboardRoute{}, c)
	c.dashboard = newDashboardScreen(c)
	return c
}

func (c *MainCoordinator) Destination(route MainRoute) any {
	switch r := route.(type) {
	case DashboardRoute:
		return c.dashboard
	case ShowFlowRoute:
		return newShowCoordinator(c.env, r.Show).RootDestination()
	case HelpRoute:
		return newHelpScreen(c)
	}
	return nil
}

// ShowDetails opens the nested flow for show.
func (c *MainCoordinator) ShowDetails(show model.TVShow) {
	c.Push(ShowFlowRoute{Show: show})
}

func (c *MainCoordinator) ShowHelp() {
	c.Present(HelpRoute{}, navigation.FullScreen())
}

// ShowCoordinator owns one show flow. It is created when its host route is
// resolved and released when the host leaves the stack.
type ShowCoordinator struct {
	*navigation.Coordinator[ShowRoute]
	env      *env
	overview *overviewScreen
}

func newShowCoordinator(e *env, show model.TVShow) *ShowCoordinator {
	c := &ShowCoordinator{env: e}
	c.Coordinator = navigation.NewCoordinator[ShowRoute](e.registry, OverviewRoute{Show: show}, c)
	e.nav.addResolver(c)
	return c
}

func (c *ShowCoordinator) Destination(route ShowRoute) any {
	switch r := route.(type) {
	case OverviewRoute:
		if c.overview == nil {
			c.overview = newOverviewScreen(c, r.Show)
		}
		return c.overview
	case SeasonRoute:
		return newSeasonScreen(c, r)
	case EpisodeRoute:
		return newEpisodeSheet(c, r)
	}
	return nil
}

func (c *ShowCoordinator) OpenSeason(show model.TVShow, season model.SeasonEpisodes) {
	c.Push(SeasonRoute{Show: show, Season: season})
}

// OpenEpisode presents an episode as a half-height sheet without a drag
// indicator.
func (c *ShowCoordinator) OpenEpisode(season model.Season, episode model.Episode) {
	c.Present(EpisodeRoute{Season: season, Episode: episode},
		navigation.Sheet(navigation.DetentMedium).WithDragIndicator(navigation.VisibilityHidden))
}

func (c *ShowCoordinator) release() {
	c.DestroyRouter()
	c.env.nav.removeResolver(c)
}
