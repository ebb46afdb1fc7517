package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/domain"
)

var _ domain.BlobStore = (*SQLBlobStore)(nil)

const queryTimeout = 3 * time.Second

// SQLBlobStore stores blobs in a kv_store table. The same queries run on
// SQLite and Postgres; sqlx rebinds the placeholders per driver.
type SQLBlobStore struct {
	db *sqlx.DB
}

func newSQLBlobStore(ctx context.Context, db *sqlx.DB, schema string) (*SQLBlobStore, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("repository: migrate kv_store failed: %w", classify(err))
	}
	return &SQLBlobStore{db: db}, nil
}

func (s *SQLBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := s.db.Rebind(`SELECT value FROM kv_store WHERE key = ?`)

	var value []byte
	if err := s.db.GetContext(ctx, &value, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBlobNotFound
		}
		return nil, fmt.Errorf("repository: get %s failed: %w", key, classify(err))
	}
	return value, nil
}

func (s *SQLBlobStore) Put(ctx context.Context, key string, value []byte) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := s.db.Rebind(`
		INSERT INTO kv_store (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`)

	if _, err := s.db.ExecContext(ctx, query, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("repository: put %s failed: %w", key, classify(err))
	}
	return nil
}

func (s *SQLBlobStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return s.db.PingContext(ctx)
}

func (s *SQLBlobStore) Close() error {
	return s.db.Close()
}

// classify annotates Postgres errors with their SQLSTATE, whichever driver
// produced them.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("sqlstate %s: %w", pgErr.Code, err)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Errorf("sqlstate %s: %w", pqErr.Code, err)
	}
	return err
}
