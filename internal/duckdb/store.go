// Package duckdb is the local catalog cache. Shows, seasons and episodes are
// stored as their JSON payloads next to the few columns the queries need.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"go.uber.org/zap"

	"github.com/tmazeterm/tvmaze/internal/duckdb/migrate"
)

const defaultQueryTimeout = 10 * time.Second

// Store manages the DuckDB connection behind the catalog cache.
type Store struct {
	db           *sql.DB
	mu           sync.RWMutex
	dbPath       string
	queryTimeout time.Duration
	logger       *zap.Logger
	clock        func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithQueryTimeout bounds every query issued by the store.
func WithQueryTimeout(d time.Duration) StoreOption {
	return func(s *Store) {
		if d > 0 {
			s.queryTimeout = d
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(l *zap.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore opens or creates a DuckDB database and applies pending
// migrations. An empty dbPath opens an in-memory database.
func NewStore(dbPath string, opts ...StoreOption) (*Store, error) {
	s := &Store{
		dbPath:       dbPath,
		queryTimeout: defaultQueryTimeout,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if dbPath != "" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	applied, err := migrate.NewRunner(db).Run(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache: %w", err)
	}
	if len(applied) > 0 {
		s.logger.Info("cache schema migrated", zap.Strings("applied", applied), zap.String("path", dbPath))
	}

	s.db = db
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// queryCtx derives a context bounded by the store's query timeout.
func (s *Store) queryCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.queryTimeout)
}

// withTx runs fn in a transaction under the write lock.
func (s *Store) withTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	return tx.Commit()
}
