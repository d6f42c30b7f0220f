package tvmaze

import (
	"context"

	"github.com/tmazeterm/tvmaze/internal/model"
)

// Repository implements model.CatalogReader against the catalog API.
type Repository struct {
	client *Client
}

func NewRepository(client *Client) *Repository {
	return &Repository{client: client}
}

// ShowsByPage returns one index page. Past the last page the API answers 404,
// which is reported as an empty page.
func (r *Repository) ShowsByPage(ctx context.Context, page int) ([]model.TVShow, error) {
	var shows []model.TVShow
	if err := r.client.Do(ctx, ShowsByPage(page), &shows); err != nil {
		if IsNotFound(err) {
			return []model.TVShow{}, nil
		}
		return nil, err
	}
	return shows, nil
}

// SearchShows drops results that carry no show.
func (r *Repository) SearchShows(ctx context.Context, query string) ([]model.SearchResult, error) {
	var results []model.SearchResult
	if err := r.client.Do(ctx, SearchShows(query), &results); err != nil {
		return nil, err
	}
	filtered := results[:0]
	for _, res := range results {
		if res.Show != nil {
			filtered = append(filtered, res)
		}
	}
	return filtered, nil
}

func (r *Repository) SeasonsForShow(ctx context.Context, showID int) ([]model.Season, error) {
	var seasons []model.Season
	if err := r.client.Do(ctx, SeasonsForShow(showID), &seasons); err != nil {
		return nil, err
	}
	return seasons, nil
}

func (r *Repository) EpisodesForSeason(ctx context.Context, seasonID int) ([]model.Episode, error) {
	var episodes []model.Episode
	if err := r.client.Do(ctx, EpisodesForSeason(seasonID), &episodes); err != nil {
		return nil, err
	}
	return episodes, nil
}

var _ model.CatalogReader = (*Repository)(nil)
