package duckdb

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/tmazeterm/tvmaze/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore("")
	if err != nil {
		t.Fatalf("NewStore(\"\") failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func show(id int, name string) model.TVShow {
	return model.TVShow{ID: id, Name: name, Status: model.StatusRunning, Genres: []string{"Drama"}}
}

func TestShowsByPage_MissBeforePut(t *testing.T) {
	store := newTestStore(t)

	_, err := store.ShowsByPage(context.Background(), 0)
	if !errors.Is(err, model.ErrNotCached) {
		t.Fatalf("err = %v, want ErrNotCached", err)
	}
}

func TestPutShowsPage_RoundTripKeepsOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	page := []model.TVShow{show(3, "Under the Dome"), show(1, "Person of Interest"), show(2, "Bitten")}
	if err := store.PutShowsPage(ctx, 0, page); err != nil {
		t.Fatalf("PutShowsPage: %v", err)
	}

	got, err := store.ShowsByPage(ctx, 0)
	if err != nil {
		t.Fatalf("ShowsByPage: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, want := range page {
		if got[i].ID != want.ID || got[i].Name != want.Name {
			t.Errorf("got[%d] = %d %q, want %d %q", i, got[i].ID, got[i].Name, want.ID, want.Name)
		}
	}
	if got[0].Status != model.StatusRunning {
		t.Errorf("status = %v, want Running", got[0].Status)
	}
}

func TestPutShowsPage_EmptyPageIsCached(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.PutShowsPage(ctx, 99, nil); err != nil {
		t.Fatalf("PutShowsPage: %v", err)
	}
	got, err := store.ShowsByPage(ctx, 99)
	if err != nil {
		t.Fatalf("ShowsByPage: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestPutShowsPage_ReplacesPreviousContents(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.PutShowsPage(ctx, 0, []model.TVShow{show(1, "Old Name"), show(2, "Gone")}); err != nil {
		t.Fatalf("PutShowsPage: %v", err)
	}
	if err := store.PutShowsPage(ctx, 0, []model.TVShow{show(1, "New Name")}); err != nil {
		t.Fatalf("PutShowsPage again: %v", err)
	}

	got, err := store.ShowsByPage(ctx, 0)
	if err != nil {
		t.Fatalf("ShowsByPage: %v", err)
	}
	if len(got) != 1 || got[0].Name != "New Name" {
		t.Fatalf("got %+v, want only the renamed show", got)
	}

	counts, err := store.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if counts.Shows != 2 || counts.Pages != 1 {
		t.Errorf("counts = %+v, want 2 shows on 1 page", counts)
	}
}

func TestSearchShows_RanksExactThenPrefix(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	shows := []model.TVShow{show(1, "The Office"), show(2, "Office"), show(3, "Office Space Stories"), show(4, "Lost")}
	if err := store.PutShows(ctx, shows); err != nil {
		t.Fatalf("PutShows: %v", err)
	}

	got, err := store.SearchShows(ctx, "  OFFICE ")
	if err != nil {
		t.Fatalf("SearchShows: %v", err)
	}
	var ids []int
	for _, r := range got {
		ids = append(ids, r.Show.ID)
	}
	want := []int{2, 3, 1}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids = %v, want %v", ids, want)
		}
	}
	if got[0].Score != 1 || got[2].Score >= got[1].Score {
		t.Errorf("scores not decreasing: %v %v %v", got[0].Score, got[1].Score, got[2].Score)
	}
}

func TestSearchShows_NoMatchIsMiss(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.SearchShows(ctx, "nothing"); !errors.Is(err, model.ErrNotCached) {
		t.Fatalf("err = %v, want ErrNotCached", err)
	}
	got, err := store.SearchShows(ctx, "   ")
	if err != nil || got != nil {
		t.Fatalf("blank query = %v, %v; want nil, nil", got, err)
	}
}

func TestSeasonsAndEpisodes(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.SeasonsForShow(ctx, 1); !errors.Is(err, model.ErrNotCached) {
		t.Fatalf("seasons miss err = %v", err)
	}

	seasons := []model.Season{{ID: 12, Number: 2}, {ID: 11, Number: 1}}
	if err := store.PutSeasons(ctx, 1, seasons); err != nil {
		t.Fatalf("PutSeasons: %v", err)
	}
	gotSeasons, err := store.SeasonsForShow(ctx, 1)
	if err != nil {
		t.Fatalf("SeasonsForShow: %v", err)
	}
	if len(gotSeasons) != 2 || gotSeasons[0].Number != 1 || gotSeasons[1].Number != 2 {
		t.Fatalf("seasons = %+v, want ordered by number", gotSeasons)
	}

	one, two := 1, 2
	episodes := []model.Episode{{ID: 102, Name: "Second", Season: 1, Number: &two}, {ID: 101, Name: "First", Season: 1, Number: &one}}
	if err := store.PutEpisodes(ctx, 11, episodes); err != nil {
		t.Fatalf("PutEpisodes: %v", err)
	}
	gotEpisodes, err := store.EpisodesForSeason(ctx, 11)
	if err != nil {
		t.Fatalf("EpisodesForSeason: %v", err)
	}
	if len(gotEpisodes) != 2 || gotEpisodes[0].ID != 102 {
		t.Fatalf("episodes = %+v, want upstream order", gotEpisodes)
	}
	if gotEpisodes[1].Number == nil || *gotEpisodes[1].Number != 1 {
		t.Errorf("episode number not preserved: %+v", gotEpisodes[1])
	}

	if _, err := store.EpisodesForSeason(ctx, 12); !errors.Is(err, model.ErrNotCached) {
		t.Fatalf("episodes miss err = %v", err)
	}
}

func TestPrune_ForgetsOldFetches(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.clock = func() time.Time { return base }
	if err := store.PutShowsPage(ctx, 0, []model.TVShow{show(1, "Old")}); err != nil {
		t.Fatalf("PutShowsPage: %v", err)
	}
	if err := store.PutSeasons(ctx, 1, []model.Season{{ID: 11, Number: 1}}); err != nil {
		t.Fatalf("PutSeasons: %v", err)
	}

	store.clock = func() time.Time { return base.Add(48 * time.Hour) }
	if err := store.PutShowsPage(ctx, 1, []model.TVShow{show(2, "Fresh")}); err != nil {
		t.Fatalf("PutShowsPage: %v", err)
	}

	n, err := store.Prune(ctx, base.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if n != 2 {
		t.Errorf("pruned = %d, want 2", n)
	}

	if _, err := store.ShowsByPage(ctx, 0); !errors.Is(err, model.ErrNotCached) {
		t.Errorf("page 0 err = %v, want ErrNotCached", err)
	}
	if _, err := store.SeasonsForShow(ctx, 1); !errors.Is(err, model.ErrNotCached) {
		t.Errorf("seasons err = %v, want ErrNotCached", err)
	}
	if got, err := store.ShowsByPage(ctx, 1); err != nil || len(got) != 1 {
		t.Errorf("page 1 = %v, %v; want the fresh show", got, err)
	}

	counts, err := store.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if counts.Shows != 1 || counts.Seasons != 0 {
		t.Errorf("counts = %+v, want 1 show and no seasons", counts)
	}
}

func TestNewStore_ReopensFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.duckdb")
	ctx := context.Background()

	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.PutShowsPage(ctx, 0, []model.TVShow{show(7, "Kept")}); err != nil {
		t.Fatalf("PutShowsPage: %v", err)
	}
	store.Close()

	reopened, err := NewStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { reopened.Close() })

	got, err := reopened.ShowsByPage(ctx, 0)
	if err != nil || len(got) != 1 || got[0].ID != 7 {
		t.Fatalf("after reopen = %v, %v", got, err)
	}
}
