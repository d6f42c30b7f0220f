package backup

import (
	"context"
	"time"
)

// Config controls periodic cache snapshots.
type Config struct {
	Dir      string
	Interval time.Duration
	KeepLast int
}

// Snapshotter is the cache contract the Manager needs.
type Snapshotter interface {
	Path() string
	SnapshotTo(ctx context.Context, dstPath string) error
}
