package duckdb

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tmazeterm/tvmaze/internal/model"
)

func TestSnapshotTo_CreatesCopy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, err := NewStore(filepath.Join(t.TempDir(), "tvmaze.duckdb"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if err := store.PutShowsPage(ctx, 0, []model.TVShow{show(1, "Snapshot")}); err != nil {
		t.Fatalf("PutShowsPage: %v", err)
	}

	snapshotPath := filepath.Join(t.TempDir(), "snapshots", "cache.duckdb")
	if err := store.SnapshotTo(ctx, snapshotPath); err != nil {
		t.Fatalf("SnapshotTo: %v", err)
	}

	info, err := os.Stat(snapshotPath)
	if err != nil {
		t.Fatalf("stat snapshot: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("snapshot file is empty")
	}
	if _, err := os.Stat(snapshotPath + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temporary file left behind: %v", err)
	}
}

func TestSnapshotTo_InMemoryStore(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	err := store.SnapshotTo(context.Background(), filepath.Join(t.TempDir(), "snapshot.duckdb"))
	if !errors.Is(err, ErrInMemoryStore) {
		t.Fatalf("err = %v, want %v", err, ErrInMemoryStore)
	}
}
