package duckdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// ErrInMemoryStore is returned when snapshotting a cache with no file.
var ErrInMemoryStore = errors.New("duckdb: in-memory cache cannot be snapshotted")

// Path returns the cache file path. Empty means in-memory.
func (s *Store) Path() string {
	return s.dbPath
}

// SnapshotTo checkpoints the cache and copies its file to dstPath. The copy
// is written next to dstPath first and renamed into place.
func (s *Store) SnapshotTo(ctx context.Context, dstPath string) error {
	if s.dbPath == "" {
		return ErrInMemoryStore
	}
	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	qctx, cancel := s.queryCtx(ctx)
	defer cancel()

	// Writers are held off only for the checkpoint, not the copy.
	s.mu.Lock()
	_, err := s.db.ExecContext(qctx, "CHECKPOINT")
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}

	if err := copyFile(s.dbPath, dstPath); err != nil {
		return fmt.Errorf("copy cache file: %w", err)
	}
	s.logger.Info("cache snapshot written", zap.String("path", dstPath))
	return nil
}

func copyFile(srcPath, dstPath string) (err error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()

	tmp := dstPath + ".tmp"
	dst, err := os.Create(tmp)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			dst.Close()
			_ = os.Remove(tmp)
		}
	}()

	if _, err = io.Copy(dst, src); err != nil {
		return err
	}
	if err = dst.Sync(); err != nil {
		return err
	}
	if err = dst.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, dstPath)
}
