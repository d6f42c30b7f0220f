package tui

import (
	"strconv"

	"github.com/tmazeterm/tvmaze/internal/model"
	"github.com/tmazeterm/tvmaze/internal/navigation"
)

// MainRoute is a destination of the top-level flow.
type MainRoute interface {
	navigation.Route
	mainRoute()
}

// DashboardRoute is the paged show list.
type DashboardRoute struct{}

// ShowFlowRoute hosts a nested show flow for one show.
type ShowFlowRoute struct {
	Show model.TVShow
}

// HelpRoute is the key reference, presented full-screen.
type HelpRoute struct{}

func (r DashboardRoute) RouteID() string { return navigation.TypeIdentity(r) }
func (r ShowFlowRoute) RouteID() string  { return navigation.TypeIdentity(r) }
func (r HelpRoute) RouteID() string      { return navigation.TypeIdentity(r) }

func (DashboardRoute) mainRoute() {}
func (ShowFlowRoute) mainRoute()  {}
func (HelpRoute) mainRoute()      {}

func (r ShowFlowRoute) routeKey() string { return strconv.Itoa(r.Show.ID) }

// ShowRoute is a destination inside a show flow.
type ShowRoute interface {
	navigation.Route
	showRoute()
}

// OverviewRoute is the show flow's root: details, chart and seasons.
type OverviewRoute struct {
	Show model.TVShow
}

// SeasonRoute lists the episodes of one season.
type SeasonRoute struct {
	Show   model.TVShow
	Season model.SeasonEpisodes
}

// EpisodeRoute is one episode, presented as a sheet.
type EpisodeRoute struct {
	Season  model.Season
	Episode model.Episode
}

func (r OverviewRoute) RouteID() string { return navigation.TypeIdentity(r) }
func (r SeasonRoute) RouteID() string   { return navigation.TypeIdentity(r) }
func (r EpisodeRoute) RouteID() string  { return navigation.TypeIdentity(r) }

func (OverviewRoute) showRoute() {}
func (SeasonRoute) showRoute()   {}
func (EpisodeRoute) showRoute()  {}

func (r OverviewRoute) routeKey() string { return strconv.Itoa(r.Show.ID) }
func (r SeasonRoute) routeKey() string   { return strconv.Itoa(r.Season.Season.ID) }
func (r EpisodeRoute) routeKey() string  { return strconv.Itoa(r.Episode.ID) }

// keyedRoute tells apart routes that share a type identity but carry
// different payloads, so a screen is rebuilt when its payload changes.
type keyedRoute interface {
	routeKey() string
}

func stackKey(r navigation.Route) string {
	if k, ok := r.(keyedRoute); ok {
		return r.RouteID() + "#" + k.routeKey()
	}
	return r.RouteID()
}
