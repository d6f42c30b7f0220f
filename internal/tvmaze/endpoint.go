// Package tvmaze talks to the public TVMaze catalog API.
package tvmaze

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Endpoint describes one catalog API call.
type Endpoint struct {
	Method string
	Path   string
	Query  url.Values
}

// ShowsByPage lists the catalog index. Pages start at 0.
func ShowsByPage(page int) Endpoint {
	return Endpoint{
		Method: http.MethodGet,
		Path:   "shows",
		Query:  url.Values{"page": {strconv.Itoa(page)}},
	}
}

// SearchShows runs a fuzzy show search.
func SearchShows(query string) Endpoint {
	return Endpoint{
		Method: http.MethodGet,
		Path:   "search/shows",
		Query:  url.Values{"q": {query}},
	}
}

func SeasonsForShow(showID int) Endpoint {
	return Endpoint{Method: http.MethodGet, Path: fmt.Sprintf("shows/%d/seasons", showID)}
}

func EpisodesForSeason(seasonID int) Endpoint {
	return Endpoint{Method: http.MethodGet, Path: fmt.Sprintf("seasons/%d/episodes", seasonID)}
}

// URL resolves the endpoint against base.
func (e Endpoint) URL(base *url.URL) string {
	u := base.JoinPath(e.Path)
	if len(e.Query) > 0 {
		u.RawQuery = e.Query.Encode()
	}
	return u.String()
}

func (e Endpoint) String() string {
	if len(e.Query) == 0 {
		return e.Method + " /" + e.Path
	}
	return e.Method + " /" + e.Path + "?" + e.Query.Encode()
}
