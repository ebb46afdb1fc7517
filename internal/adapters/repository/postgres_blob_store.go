package repository

import (
	"context"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS kv_store (
		key        TEXT PRIMARY KEY,
		value      BYTEA NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// OpenPostgres connects with either the "pgx" or the "postgres" (lib/pq)
// driver.
func OpenPostgres(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	if driver == "" {
		driver = "pgx"
	}
	if driver != "pgx" && driver != "postgres" {
		return nil, fmt.Errorf("repository: unsupported postgres driver %q", driver)
	}

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("repository: connect postgres failed: %w", classify(err))
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

func NewPostgresBlobStore(ctx context.Context, db *sqlx.DB) (*SQLBlobStore, error) {
	return newSQLBlobStore(ctx, db, postgresSchema)
}
