package duckdb

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// PrunerConfig controls how long cached fetches are kept.
type PrunerConfig struct {
	MaxAge   time.Duration
	Interval time.Duration
}

// Pruner periodically forgets fetches older than MaxAge so the next read
// goes back to the upstream.
type Pruner struct {
	store    *Store
	maxAge   time.Duration
	interval time.Duration
	logger   *zap.Logger

	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewPruner starts a pruner. It returns nil when MaxAge is not positive.
// One prune runs before NewPruner returns.
func NewPruner(store *Store, conf PrunerConfig) *Pruner {
	if conf.MaxAge <= 0 {
		return nil
	}
	interval := conf.Interval
	if interval <= 0 {
		interval = time.Hour
	}

	p := &Pruner{
		store:    store,
		maxAge:   conf.MaxAge,
		interval: interval,
		logger:   store.logger,
		done:     make(chan struct{}),
	}

	p.prune()

	p.wg.Add(1)
	go p.loop()
	return p
}

func (p *Pruner) loop() {
	defer p.wg.Done()
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.prune()
		case <-p.done:
			return
		}
	}
}

func (p *Pruner) prune() {
	cutoff := p.store.now().Add(-p.maxAge)

	n, err := p.store.Prune(context.Background(), cutoff)
	if err != nil {
		p.logger.Warn("cache prune failed", zap.Error(err))
		return
	}
	if n > 0 {
		p.logger.Info("cache pruned", zap.Int64("fetches", n), zap.Duration("max_age", p.maxAge))
	}
}

// Stop ends the prune loop and waits for it. Stop is idempotent.
func (p *Pruner) Stop() {
	p.stopOnce.Do(func() {
		close(p.done)
		p.wg.Wait()
	})
}
