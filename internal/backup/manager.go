// Package backup keeps rotating point-in-time copies of the catalog cache.
package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultInterval = 6 * time.Hour
	defaultKeepLast = 24

	filePrefix = "catalog-"
	fileSuffix = ".duckdb"
	timeLayout = "20060102-150405.000"
)

// Manager snapshots the cache into Dir on a timer and keeps the newest
// KeepLast copies.
type Manager struct {
	store  Snapshotter
	cfg    Config
	logger *zap.Logger
	now    func() time.Time

	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewManager starts periodic snapshots. It returns nil when cfg.Dir is
// empty. One snapshot is taken before NewManager returns.
func NewManager(store Snapshotter, cfg Config, logger *zap.Logger) (*Manager, error) {
	if strings.TrimSpace(cfg.Dir) == "" {
		return nil, nil
	}
	if store == nil {
		return nil, fmt.Errorf("backup: nil snapshotter")
	}
	if strings.TrimSpace(store.Path()) == "" {
		return nil, fmt.Errorf("backup: cache is in memory")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.KeepLast <= 0 {
		cfg.KeepLast = defaultKeepLast
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("backup: create dir: %w", err)
	}

	m := newManager(store, cfg, logger)

	if _, err := m.RunOnce(m.ctx); err != nil {
		m.logger.Warn("startup snapshot failed", zap.Error(err))
	}

	m.wg.Add(1)
	go m.loop()
	return m, nil
}

func newManager(store Snapshotter, cfg Config, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		store:  store,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
	m.ctx, m.cancel = context.WithCancel(context.Background())
	return m
}

func (m *Manager) loop() {
	defer m.wg.Done()
	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := m.RunOnce(m.ctx); err != nil && m.ctx.Err() == nil {
				m.logger.Warn("periodic snapshot failed", zap.Error(err))
			}
		case <-m.ctx.Done():
			return
		}
	}
}

// RunOnce writes one snapshot and prunes older copies. It returns the path
// of the new snapshot.
func (m *Manager) RunOnce(ctx context.Context) (string, error) {
	name := filePrefix + m.now().UTC().Format(timeLayout) + fileSuffix
	dst := filepath.Join(m.cfg.Dir, name)

	if err := m.store.SnapshotTo(ctx, dst); err != nil {
		return "", fmt.Errorf("snapshot: %w", err)
	}
	m.logger.Debug("snapshot kept", zap.String("path", dst), zap.Int("keep", m.cfg.KeepLast))

	if err := pruneSnapshots(m.cfg.Dir, m.cfg.KeepLast); err != nil {
		return dst, fmt.Errorf("prune snapshots: %w", err)
	}
	return dst, nil
}

// Stop cancels an in-flight snapshot and ends the loop. Safe to call twice.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		m.cancel()
		m.wg.Wait()
	})
}

// Snapshots lists the kept snapshots, newest first.
func Snapshots(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, filePrefix+"*"+fileSuffix))
	if err != nil {
		return nil, err
	}
	// The timestamp layout sorts lexically in time order.
	slices.Sort(matches)
	slices.Reverse(matches)
	return matches, nil
}

func pruneSnapshots(dir string, keepLast int) error {
	if keepLast <= 0 {
		return nil
	}
	matches, err := Snapshots(dir)
	if err != nil {
		return err
	}
	if len(matches) <= keepLast {
		return nil
	}
	for _, old := range matches[keepLast:] {
		if err := os.Remove(old); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}
