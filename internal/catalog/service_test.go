package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/tmazeterm/tvmaze/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var errUpstream = errors.New("upstream down")

// fakeRemote serves fixed data and can be switched off.
type fakeRemote struct {
	down     atomic.Bool
	calls    atomic.Int32
	inFlight atomic.Int32
	peak     atomic.Int32
	delay    time.Duration
	failOn   int // season id that always fails
}

func (f *fakeRemote) enter() error {
	f.calls.Add(1)
	n := f.inFlight.Add(1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.inFlight.Add(-1)
	if f.down.Load() {
		return errUpstream
	}
	return nil
}

func (f *fakeRemote) ShowsByPage(_ context.Context, page int) ([]model.TVShow, error) {
	if err := f.enter(); err != nil {
		return nil, err
	}
	return []model.TVShow{{ID: page*10 + 1, Name: "Show A"}, {ID: page*10 + 2, Name: "Show B"}}, nil
}

func (f *fakeRemote) SearchShows(_ context.Context, query string) ([]model.SearchResult, error) {
	if err := f.enter(); err != nil {
		return nil, err
	}
	return []model.SearchResult{{Score: 0.9, Show: &model.TVShow{ID: 5, Name: query}}}, nil
}

func (f *fakeRemote) SeasonsForShow(_ context.Context, showID int) ([]model.Season, error) {
	if err := f.enter(); err != nil {
		return nil, err
	}
	return []model.Season{{ID: showID*100 + 1, Number: 1}, {ID: showID*100 + 2, Number: 2}}, nil
}

func (f *fakeRemote) EpisodesForSeason(ctx context.Context, seasonID int) ([]model.Episode, error) {
	if err := f.enter(); err != nil {
		return nil, err
	}
	if seasonID == f.failOn {
		return nil, errUpstream
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []model.Episode{{ID: seasonID*100 + 1, Name: "Pilot"}}, nil
}

// memStore is an in-memory model.CatalogStore.
type memStore struct {
	mu       sync.Mutex
	pages    map[int][]model.TVShow
	shows    map[int]model.TVShow
	seasons  map[int][]model.Season
	episodes map[int][]model.Episode
	failPut  bool
}

func newMemStore() *memStore {
	return &memStore{
		pages:    map[int][]model.TVShow{},
		shows:    map[int]model.TVShow{},
		seasons:  map[int][]model.Season{},
		episodes: map[int][]model.Episode{},
	}
}

func (m *memStore) PutShowsPage(_ context.Context, page int, shows []model.TVShow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPut {
		return errors.New("disk full")
	}
	m.pages[page] = shows
	return nil
}

func (m *memStore) PutShows(_ context.Context, shows []model.TVShow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range shows {
		m.shows[s.ID] = s
	}
	return nil
}

func (m *memStore) PutSeasons(_ context.Context, showID int, seasons []model.Season) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seasons[showID] = seasons
	return nil
}

func (m *memStore) PutEpisodes(_ context.Context, seasonID int, episodes []model.Episode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.episodes[seasonID] = episodes
	return nil
}

func (m *memStore) ShowsByPage(_ context.Context, page int) ([]model.TVShow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	shows, ok := m.pages[page]
	if !ok {
		return nil, model.ErrNotCached
	}
	return shows, nil
}

func (m *memStore) SearchShows(_ context.Context, query string) ([]model.SearchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.shows {
		if s.Name == query {
			return []model.SearchResult{{Score: 1, Show: &s}}, nil
		}
	}
	return nil, model.ErrNotCached
}

func (m *memStore) SeasonsForShow(_ context.Context, showID int) ([]model.Season, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seasons, ok := m.seasons[showID]
	if !ok {
		return nil, model.ErrNotCached
	}
	return seasons, nil
}

func (m *memStore) EpisodesForSeason(_ context.Context, seasonID int) ([]model.Episode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	episodes, ok := m.episodes[seasonID]
	if !ok {
		return nil, model.ErrNotCached
	}
	return episodes, nil
}

func TestReadThrough_WritesToStoreAndFallsBack(t *testing.T) {
	remote := &fakeRemote{}
	store := newMemStore()
	svc := New(remote, WithStore(store))
	ctx := context.Background()

	shows, err := svc.ShowsByPage(ctx, 0)
	if err != nil {
		t.Fatalf("ShowsByPage: %v", err)
	}
	if len(store.pages[0]) != len(shows) {
		t.Fatalf("page not written through: %v", store.pages)
	}

	remote.down.Store(true)
	cached, err := svc.ShowsByPage(ctx, 0)
	if err != nil {
		t.Fatalf("offline ShowsByPage: %v", err)
	}
	if len(cached) != 2 || cached[0].ID != 1 {
		t.Errorf("cached = %+v", cached)
	}

	_, err = svc.ShowsByPage(ctx, 1)
	if !errors.Is(err, errUpstream) {
		t.Errorf("uncached page err = %v, want the upstream error", err)
	}
}

func TestReadThrough_StoreWriteFailureIsNotFatal(t *testing.T) {
	store := newMemStore()
	store.failPut = true
	svc := New(&fakeRemote{}, WithStore(store))

	shows, err := svc.ShowsByPage(context.Background(), 0)
	if err != nil || len(shows) != 2 {
		t.Fatalf("ShowsByPage = %v, %v", shows, err)
	}
}

func TestReadThrough_WithoutStore(t *testing.T) {
	remote := &fakeRemote{}
	remote.down.Store(true)
	svc := New(remote)

	if _, err := svc.SeasonsForShow(context.Background(), 1); !errors.Is(err, errUpstream) {
		t.Fatalf("err = %v, want upstream error", err)
	}
}

func TestReadThrough_StoreOnly(t *testing.T) {
	store := newMemStore()
	store.seasons[3] = []model.Season{{ID: 31, Number: 1}}
	svc := New(nil, WithStore(store))
	ctx := context.Background()

	seasons, err := svc.SeasonsForShow(ctx, 3)
	if err != nil || len(seasons) != 1 {
		t.Fatalf("SeasonsForShow = %v, %v", seasons, err)
	}
	if _, err := svc.SeasonsForShow(ctx, 4); !errors.Is(err, model.ErrNotCached) {
		t.Fatalf("err = %v, want ErrNotCached", err)
	}
	if _, err := New(nil).SeasonsForShow(ctx, 3); !errors.Is(err, model.ErrNotCached) {
		t.Fatalf("bare service err = %v, want ErrNotCached", err)
	}
}

func TestSearchShows_CachesMatchedShows(t *testing.T) {
	remote := &fakeRemote{}
	store := newMemStore()
	svc := New(remote, WithStore(store))
	ctx := context.Background()

	if _, err := svc.SearchShows(ctx, "Lost"); err != nil {
		t.Fatalf("SearchShows: %v", err)
	}
	remote.down.Store(true)

	results, err := svc.SearchShows(ctx, "Lost")
	if err != nil {
		t.Fatalf("offline SearchShows: %v", err)
	}
	if len(results) != 1 || results[0].Show.ID != 5 {
		t.Errorf("results = %+v", results)
	}
}

func TestEpisodesBySeason_KeepsSeasonOrderAndLimit(t *testing.T) {
	remote := &fakeRemote{delay: 5 * time.Millisecond}
	svc := New(remote, WithFanout(2))

	var seasons []model.Season
	for i := 1; i <= 6; i++ {
		seasons = append(seasons, model.Season{ID: i, Number: i})
	}

	got, err := svc.EpisodesBySeason(context.Background(), seasons)
	if err != nil {
		t.Fatalf("EpisodesBySeason: %v", err)
	}
	if len(got) != len(seasons) {
		t.Fatalf("len = %d, want %d", len(got), len(seasons))
	}
	for i, se := range got {
		if se.Season.ID != seasons[i].ID {
			t.Errorf("got[%d].Season = %d, want %d", i, se.Season.ID, seasons[i].ID)
		}
		if len(se.Episodes) != 1 || se.Episodes[0].ID != seasons[i].ID*100+1 {
			t.Errorf("got[%d].Episodes = %+v", i, se.Episodes)
		}
	}
	if peak := remote.peak.Load(); peak > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", peak)
	}
}

func TestEpisodesBySeason_FailsOnAnySeason(t *testing.T) {
	svc := New(&fakeRemote{failOn: 2})

	_, err := svc.EpisodesBySeason(context.Background(), []model.Season{{ID: 1, Number: 1}, {ID: 2, Number: 2}})
	if !errors.Is(err, errUpstream) {
		t.Fatalf("err = %v, want upstream error", err)
	}
}

func TestWarm(t *testing.T) {
	store := newMemStore()
	svc := New(&fakeRemote{}, WithStore(store), WithFanout(3))

	n, err := svc.Warm(context.Background(), 4)
	if err != nil {
		t.Fatalf("Warm: %v", err)
	}
	if n != 8 {
		t.Errorf("warmed %d shows, want 8", n)
	}
	if len(store.pages) != 4 {
		t.Errorf("cached pages = %d, want 4", len(store.pages))
	}

	if _, err := New(nil, WithStore(store)).Warm(context.Background(), 1); !errors.Is(err, ErrOffline) {
		t.Errorf("offline Warm err = %v, want ErrOffline", err)
	}
}
