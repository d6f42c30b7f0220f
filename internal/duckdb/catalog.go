package duckdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tmazeterm/tvmaze/internal/model"
)

// fetched kinds
const (
	kindPage     = "page"
	kindSeasons  = "seasons"
	kindEpisodes = "episodes"
)

const searchLimit = 25

var _ model.CatalogStore = (*Store)(nil)

// Counts summarizes what the cache holds.
type Counts struct {
	Shows    int64 `json:"shows"`
	Pages    int64 `json:"pages"`
	Seasons  int64 `json:"seasons"`
	Episodes int64 `json:"episodes"`
}

// PutShowsPage replaces the cached contents of one index page.
func (s *Store) PutShowsPage(ctx context.Context, page int, shows []model.TVShow) error {
	return s.withTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := upsertShows(ctx, tx, shows, s.now()); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM show_pages WHERE page = ?", page); err != nil {
			return fmt.Errorf("clear page %d: %w", page, err)
		}
		for i, show := range shows {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO show_pages (page, position, show_id) VALUES (?, ?, ?)",
				page, i, show.ID); err != nil {
				return fmt.Errorf("insert page %d entry: %w", page, err)
			}
		}
		return markFetched(ctx, tx, kindPage, page, s.now())
	})
}

// PutShows caches shows without tying them to an index page, so they can be
// found by SearchShows.
func (s *Store) PutShows(ctx context.Context, shows []model.TVShow) error {
	if len(shows) == 0 {
		return nil
	}
	return s.withTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return upsertShows(ctx, tx, shows, s.now())
	})
}

// ShowsByPage returns a cached index page in its original order.
func (s *Store) ShowsByPage(ctx context.Context, page int) ([]model.TVShow, error) {
	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.requireFetched(ctx, kindPage, page); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.payload
		FROM show_pages p
		JOIN shows s ON s.id = p.show_id
		WHERE p.page = ?
		ORDER BY p.position`, page)
	if err != nil {
		return nil, fmt.Errorf("query page %d: %w", page, err)
	}
	return scanPayloads[model.TVShow](rows)
}

// SearchShows matches cached show names case-insensitively. Exact matches
// rank first, then prefix matches, then the rest by name. Scores fall
// linearly with rank. No match is reported as model.ErrNotCached.
func (s *Store) SearchShows(ctx context.Context, query string) ([]model.SearchResult, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, nil
	}

	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT payload
		FROM shows
		WHERE contains(lower(name), ?)
		ORDER BY lower(name) = ? DESC, starts_with(lower(name), ?) DESC, name, id
		LIMIT ?`, query, query, query, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("search shows: %w", err)
	}
	shows, err := scanPayloads[model.TVShow](rows)
	if err != nil {
		return nil, err
	}
	if len(shows) == 0 {
		return nil, model.ErrNotCached
	}

	results := make([]model.SearchResult, len(shows))
	for i := range shows {
		results[i] = model.SearchResult{
			Score: float64(len(shows)-i) / float64(len(shows)),
			Show:  &shows[i],
		}
	}
	return results, nil
}

// PutSeasons replaces the cached season list of a show.
func (s *Store) PutSeasons(ctx context.Context, showID int, seasons []model.Season) error {
	return s.withTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM seasons WHERE show_id = ?", showID); err != nil {
			return fmt.Errorf("clear seasons of show %d: %w", showID, err)
		}
		for _, season := range seasons {
			payload, err := json.Marshal(season)
			if err != nil {
				return fmt.Errorf("encode season %d: %w", season.ID, err)
			}
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO seasons (id, show_id, number, payload) VALUES (?, ?, ?, ?)",
				season.ID, showID, season.Number, string(payload)); err != nil {
				return fmt.Errorf("insert season %d: %w", season.ID, err)
			}
		}
		return markFetched(ctx, tx, kindSeasons, showID, s.now())
	})
}

// SeasonsForShow returns the cached seasons of a show ordered by number.
func (s *Store) SeasonsForShow(ctx context.Context, showID int) ([]model.Season, error) {
	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.requireFetched(ctx, kindSeasons, showID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT payload FROM seasons WHERE show_id = ? ORDER BY number, id", showID)
	if err != nil {
		return nil, fmt.Errorf("query seasons of show %d: %w", showID, err)
	}
	return scanPayloads[model.Season](rows)
}

// PutEpisodes replaces the cached episode list of a season.
func (s *Store) PutEpisodes(ctx context.Context, seasonID int, episodes []model.Episode) error {
	return s.withTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM episodes WHERE season_id = ?", seasonID); err != nil {
			return fmt.Errorf("clear episodes of season %d: %w", seasonID, err)
		}
		for i, episode := range episodes {
			payload, err := json.Marshal(episode)
			if err != nil {
				return fmt.Errorf("encode episode %d: %w", episode.ID, err)
			}
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO episodes (id, season_id, position, payload) VALUES (?, ?, ?, ?)",
				episode.ID, seasonID, i, string(payload)); err != nil {
				return fmt.Errorf("insert episode %d: %w", episode.ID, err)
			}
		}
		return markFetched(ctx, tx, kindEpisodes, seasonID, s.now())
	})
}

// EpisodesForSeason returns the cached episodes of a season in airing order.
func (s *Store) EpisodesForSeason(ctx context.Context, seasonID int) ([]model.Episode, error) {
	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.requireFetched(ctx, kindEpisodes, seasonID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT payload FROM episodes WHERE season_id = ? ORDER BY position", seasonID)
	if err != nil {
		return nil, fmt.Errorf("query episodes of season %d: %w", seasonID, err)
	}
	return scanPayloads[model.Episode](rows)
}

// Counts returns row counts for the health endpoint and the status bar.
func (s *Store) Counts(ctx context.Context) (Counts, error) {
	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	s.mu.RLock()
	defer s.mu.RUnlock()

	var c Counts
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM shows),
			(SELECT COUNT(*) FROM fetched WHERE kind = ?),
			(SELECT COUNT(*) FROM seasons),
			(SELECT COUNT(*) FROM episodes)`, kindPage).
		Scan(&c.Shows, &c.Pages, &c.Seasons, &c.Episodes)
	if err != nil {
		return Counts{}, fmt.Errorf("count cache rows: %w", err)
	}
	return c, nil
}

// Prune forgets every fetch older than before, together with the rows that
// only that fetch was keeping. Shows still listed on a cached page survive.
// It returns the number of fetches forgotten.
func (s *Store) Prune(ctx context.Context, before time.Time) (int64, error) {
	var pruned int64
	err := s.withTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM fetched WHERE fetched_at < ?", before.UTC())
		if err != nil {
			return fmt.Errorf("prune fetched: %w", err)
		}
		if pruned, err = res.RowsAffected(); err != nil {
			return err
		}
		if pruned == 0 {
			return nil
		}

		orphans := []struct{ query, what string }{
			{"DELETE FROM show_pages WHERE page NOT IN (SELECT fetch_key FROM fetched WHERE kind = 'page')", "pages"},
			{"DELETE FROM seasons WHERE show_id NOT IN (SELECT fetch_key FROM fetched WHERE kind = 'seasons')", "seasons"},
			{"DELETE FROM episodes WHERE season_id NOT IN (SELECT fetch_key FROM fetched WHERE kind = 'episodes')", "episodes"},
		}
		for _, o := range orphans {
			if _, err := tx.ExecContext(ctx, o.query); err != nil {
				return fmt.Errorf("prune %s: %w", o.what, err)
			}
		}
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM shows WHERE updated_at < ? AND id NOT IN (SELECT show_id FROM show_pages)",
			before.UTC()); err != nil {
			return fmt.Errorf("prune shows: %w", err)
		}
		return nil
	})
	return pruned, err
}

func (s *Store) requireFetched(ctx context.Context, kind string, key int) error {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM fetched WHERE kind = ? AND fetch_key = ?", kind, key).Scan(&n)
	if err != nil {
		return fmt.Errorf("lookup %s %d: %w", kind, key, err)
	}
	if n == 0 {
		return model.ErrNotCached
	}
	return nil
}

func (s *Store) now() time.Time {
	if s.clock != nil {
		return s.clock().UTC()
	}
	return time.Now().UTC()
}

func markFetched(ctx context.Context, tx *sql.Tx, kind string, key int, at time.Time) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM fetched WHERE kind = ? AND fetch_key = ?", kind, key); err != nil {
		return fmt.Errorf("clear fetched %s %d: %w", kind, key, err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO fetched (kind, fetch_key, fetched_at) VALUES (?, ?, ?)", kind, key, at); err != nil {
		return fmt.Errorf("mark fetched %s %d: %w", kind, key, err)
	}
	return nil
}

func upsertShows(ctx context.Context, tx *sql.Tx, shows []model.TVShow, at time.Time) error {
	for _, show := range shows {
		payload, err := json.Marshal(show)
		if err != nil {
			return fmt.Errorf("encode show %d: %w", show.ID, err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM shows WHERE id = ?", show.ID); err != nil {
			return fmt.Errorf("replace show %d: %w", show.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO shows (id, name, payload, updated_at) VALUES (?, ?, ?, ?)",
			show.ID, show.Name, string(payload), at); err != nil {
			return fmt.Errorf("insert show %d: %w", show.ID, err)
		}
	}
	return nil
}

func scanPayloads[T any](rows *sql.Rows) ([]T, error) {
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan payload: %w", err)
		}
		var v T
		if err := json.Unmarshal([]byte(payload), &v); err != nil {
			return nil, fmt.Errorf("decode payload: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
