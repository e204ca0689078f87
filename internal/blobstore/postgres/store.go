// Package postgres keeps blobs in a single two-column Postgres table.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	"github.com/lib/pq"

	"turnero/internal/blobstore/core"
)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/turnero?sslmode=disable"
	defaultTable  = "kv_blobs"
)

var sqlOpen = sql.Open

// Store implements core.Store on Postgres.
type Store struct {
	db    *sql.DB
	table string
	owned bool
}

// Open connects to dsn (falls back to defaultDSN), ensures the table exists
// and returns a store that owns the pool.
func Open(ctx context.Context, dsn, table string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	db, err := sqlOpen(defaultDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	s, err := New(ctx, db, table)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.owned = true
	return s, nil
}

// New uses an existing pool; Close leaves it open.
func New(ctx context.Context, db *sql.DB, table string) (*Store, error) {
	if table == "" {
		table = defaultTable
	}
	s := &Store{db: db, table: pq.QuoteIdentifier(table)}
	if err := s.ensureTable(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureTable(ctx context.Context) error {
	ddl := `CREATE TABLE IF NOT EXISTS ` + s.table + ` (
		key TEXT PRIMARY KEY,
		payload BYTEA NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure blob table: %w", err)
	}
	return nil
}

func (s *Store) Driver() core.Driver { return core.DriverPostgres }

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM `+s.table+` WHERE key = $1`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("blob %s: %w", key, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select blob %s: %w", key, err)
	}
	return payload, nil
}

func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	query := `
		INSERT INTO ` + s.table + ` (key, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET
			payload = EXCLUDED.payload,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, key, data); err != nil {
		return fmt.Errorf("upsert blob %s: %w", key, err)
	}
	return nil
}

// DB exposes the underlying pool for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Close() error {
	if s.owned {
		return s.db.Close()
	}
	return nil
}
