package model

import (
	"context"
	"errors"
)

// ErrNotCached is returned by cache reads that have no entry for the key.
var ErrNotCached = errors.New("not cached")

// CatalogReader provides read-only access to the show catalog.
type CatalogReader interface {
	ShowsByPage(ctx context.Context, page int) ([]TVShow, error)
	SearchShows(ctx context.Context, query string) ([]SearchResult, error)
	SeasonsForShow(ctx context.Context, showID int) ([]Season, error)
	EpisodesForSeason(ctx context.Context, seasonID int) ([]Episode, error)
}

// CatalogWriter stores catalog responses for later reads.
type CatalogWriter interface {
	PutShowsPage(ctx context.Context, page int, shows []TVShow) error
	PutShows(ctx context.Context, shows []TVShow) error
	PutSeasons(ctx context.Context, showID int, seasons []Season) error
	PutEpisodes(ctx context.Context, seasonID int, episodes []Episode) error
}

// CatalogStore is a local catalog cache.
type CatalogStore interface {
	CatalogReader
	CatalogWriter
}
