package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/amanihealth/amani/internal/localstore"

	_ "modernc.org/sqlite"
)

// Store is a sqlite-backed localstore.Store. On device the file sits inside
// the app sandbox; the secure store and the general store use separate
// database files so one writer owns each file.
type Store struct {
	db  *sql.DB
	dsn string
}

var _ localstore.Store = (*Store)(nil)

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// The kv table has a single writer per file, serialize at the driver.
	db.SetMaxOpenConns(1)

	return &Store{db: db, dsn: dsn}, nil
}

// newStoreWithDB wraps an existing handle. Used by tests to inject sqlmock.
func newStoreWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", localstore.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value,
	)
	return err
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	return err
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error { return s.db.Close() }
