package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/domain"
)

var _ domain.BlobStore = (*CachedBlobStore)(nil)

const DefaultCacheTTL = 30 * time.Minute

// CachedBlobStore is a read-through Redis cache in front of another store.
// Writes go to the backing store and drop the cached copy.
type CachedBlobStore struct {
	next   domain.BlobStore
	cache  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedBlobStore(next domain.BlobStore, cache *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedBlobStore {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedBlobStore{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

func (s *CachedBlobStore) cacheKey(key string) string {
	return "mindfulme:blob:" + key
}

func (s *CachedBlobStore) invalidate(ctx context.Context, key string) {
	if err := s.cache.Del(ctx, s.cacheKey(key)).Err(); err != nil {
		s.logger.Warn("Cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *CachedBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	ck := s.cacheKey(key)

	val, err := s.cache.Get(ctx, ck).Bytes()
	if err == nil {
		return val, nil
	}
	if !errors.Is(err, redis.Nil) {
		s.logger.Warn("Redis read error", zap.String("key", key), zap.Error(err))
	}

	val, err = s.next.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if setErr := s.cache.Set(ctx, ck, val, s.ttl).Err(); setErr != nil {
		s.logger.Warn("Redis set error", zap.String("key", key), zap.Error(setErr))
	}
	return val, nil
}

func (s *CachedBlobStore) Put(ctx context.Context, key string, value []byte) error {
	if err := s.next.Put(ctx, key, value); err != nil {
		return err
	}
	s.invalidate(ctx, key)
	return nil
}

// Ping checks the backing store. An unreachable cache only degrades reads.
func (s *CachedBlobStore) Ping(ctx context.Context) error {
	if err := s.cache.Ping(ctx).Err(); err != nil {
		s.logger.Warn("Redis unreachable, serving from backing store", zap.Error(err))
	}
	return s.next.Ping(ctx)
}

func (s *CachedBlobStore) Close() error {
	return s.next.Close()
}
