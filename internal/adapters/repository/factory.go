package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/domain"
)

const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

type Options struct {
	Backend        string
	DataDir        string
	SQLitePath     string
	DatabaseURL    string
	PostgresDriver string

	// Redis, when set, puts a read-through cache in front of the backend.
	Redis    *redis.Client
	CacheTTL time.Duration

	Logger *zap.Logger
}

func Open(ctx context.Context, opts Options) (domain.BlobStore, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		store domain.BlobStore
		err   error
	)
	switch opts.Backend {
	case BackendMemory:
		store = NewMemoryBlobStore()
	case BackendFile, "":
		store, err = NewFileBlobStore(opts.DataDir)
	case BackendSQLite:
		store, err = NewSQLiteBlobStore(ctx, opts.SQLitePath)
	case BackendPostgres:
		db, connErr := OpenPostgres(ctx, opts.PostgresDriver, opts.DatabaseURL)
		if connErr != nil {
			return nil, connErr
		}
		store, err = NewPostgresBlobStore(ctx, db)
		if err != nil {
			db.Close()
		}
	default:
		return nil, fmt.Errorf("repository: unknown storage backend %q", opts.Backend)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("Storage backend ready", zap.String("backend", opts.Backend))

	if opts.Redis != nil {
		logger.Info("Redis read-through cache enabled", zap.Duration("ttl", opts.CacheTTL))
		return NewCachedBlobStore(store, opts.Redis, opts.CacheTTL, logger), nil
	}
	return store, nil
}
