package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS kv_store (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)
`

// NewSQLiteBlobStore opens (or creates) the database file at path. Use
// ":memory:" for a throwaway store.
func NewSQLiteBlobStore(ctx context.Context, path string) (*SQLBlobStore, error) {
	dsn := path
	if path != ":memory:" {
		dsn += "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("repository: open sqlite failed: %w", err)
	}
	// a single connection keeps ":memory:" databases alive and serializes writers
	db.SetMaxOpenConns(1)

	store, err := newSQLBlobStore(ctx, db, sqliteSchema)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}
