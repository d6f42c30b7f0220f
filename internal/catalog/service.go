// Package catalog serves the show catalog from the remote API with the local
// cache behind it: reads go upstream first, successful responses are written
// through to the cache, and the cache answers when the upstream cannot.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tmazeterm/tvmaze/internal/model"
)

// ErrOffline is returned by Warm when the service has no remote.
var ErrOffline = errors.New("catalog: no remote configured")

const defaultFanout = 4

// Service is a read-through catalog. Either side may be absent: without a
// remote it serves the cache only, without a store it is a plain client.
type Service struct {
	remote model.CatalogReader
	store  model.CatalogStore
	fanout int
	logger *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithStore puts a cache behind the remote.
func WithStore(store model.CatalogStore) Option {
	return func(s *Service) { s.store = store }
}

// WithFanout bounds concurrent upstream requests in EpisodesBySeason and Warm.
func WithFanout(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.fanout = n
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New returns a service reading from remote, which may be nil.
func New(remote model.CatalogReader, opts ...Option) *Service {
	s := &Service{
		remote: remote,
		fanout: defaultFanout,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ model.CatalogReader = (*Service)(nil)

func (s *Service) ShowsByPage(ctx context.Context, page int) ([]model.TVShow, error) {
	return readThrough(ctx, s, fmt.Sprintf("page %d", page),
		func(r model.CatalogReader) ([]model.TVShow, error) { return r.ShowsByPage(ctx, page) },
		func(w model.CatalogWriter, shows []model.TVShow) error { return w.PutShowsPage(ctx, page, shows) },
	)
}

// SearchShows caches the matched shows so that later offline searches can
// find them by name.
func (s *Service) SearchShows(ctx context.Context, query string) ([]model.SearchResult, error) {
	return readThrough(ctx, s, fmt.Sprintf("search %q", query),
		func(r model.CatalogReader) ([]model.SearchResult, error) { return r.SearchShows(ctx, query) },
		func(w model.CatalogWriter, results []model.SearchResult) error {
			shows := make([]model.TVShow, 0, len(results))
			for _, res := range results {
				if res.Show != nil {
					shows = append(shows, *res.Show)
				}
			}
			return w.PutShows(ctx, shows)
		},
	)
}

func (s *Service) SeasonsForShow(ctx context.Context, showID int) ([]model.Season, error) {
	return readThrough(ctx, s, fmt.Sprintf("seasons of show %d", showID),
		func(r model.CatalogReader) ([]model.Season, error) { return r.SeasonsForShow(ctx, showID) },
		func(w model.CatalogWriter, seasons []model.Season) error { return w.PutSeasons(ctx, showID, seasons) },
	)
}

func (s *Service) EpisodesForSeason(ctx context.Context, seasonID int) ([]model.Episode, error) {
	return readThrough(ctx, s, fmt.Sprintf("episodes of season %d", seasonID),
		func(r model.CatalogReader) ([]model.Episode, error) { return r.EpisodesForSeason(ctx, seasonID) },
		func(w model.CatalogWriter, episodes []model.Episode) error { return w.PutEpisodes(ctx, seasonID, episodes) },
	)
}

// EpisodesBySeason loads the episodes of every season concurrently. The
// result follows the order of seasons. The first failure cancels the rest.
func (s *Service) EpisodesBySeason(ctx context.Context, seasons []model.Season) ([]model.SeasonEpisodes, error) {
	out := make([]model.SeasonEpisodes, len(seasons))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fanout)
	for i, season := range seasons {
		g.Go(func() error {
			episodes, err := s.EpisodesForSeason(gctx, season.ID)
			if err != nil {
				return fmt.Errorf("season %d: %w", season.Number, err)
			}
			out[i] = model.SeasonEpisodes{Season: season, Episodes: episodes}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Warm fetches the first pages of the show index through the service so the
// cache holds them. It returns how many shows were loaded.
func (s *Service) Warm(ctx context.Context, pages int) (int, error) {
	if s.remote == nil {
		return 0, ErrOffline
	}

	counts := make([]int, pages)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fanout)
	for page := range pages {
		g.Go(func() error {
			shows, err := s.ShowsByPage(gctx, page)
			if err != nil {
				return fmt.Errorf("warm page %d: %w", page, err)
			}
			counts[page] = len(shows)
			return nil
		})
	}
	err := g.Wait()

	var total int
	for _, n := range counts {
		total += n
	}
	s.logger.Info("catalog warmed", zap.Int("pages", pages), zap.Int("shows", total), zap.Error(err))
	return total, err
}

func readThrough[T any](
	ctx context.Context,
	s *Service,
	what string,
	read func(model.CatalogReader) (T, error),
	write func(model.CatalogWriter, T) error,
) (T, error) {
	var zero T
	var remoteErr error

	if s.remote != nil {
		v, err := read(s.remote)
		if err == nil {
			if s.store != nil {
				if werr := write(s.store, v); werr != nil {
					s.logger.Warn("cache write failed", zap.String("what", what), zap.Error(werr))
				}
			}
			return v, nil
		}
		if ctx.Err() != nil || s.store == nil {
			return zero, err
		}
		remoteErr = err
	}

	if s.store == nil {
		return zero, model.ErrNotCached
	}
	v, err := read(s.store)
	if err == nil {
		if remoteErr != nil {
			s.logger.Info("serving cached copy", zap.String("what", what), zap.NamedError("remote_error", remoteErr))
		}
		return v, nil
	}
	if remoteErr != nil {
		return zero, remoteErr
	}
	return zero, err
}
