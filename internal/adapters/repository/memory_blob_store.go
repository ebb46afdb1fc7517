package repository

import (
	"context"
	"sync"

	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/domain"
)

var _ domain.BlobStore = (*MemoryBlobStore)(nil)

type MemoryBlobStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{
		blobs: make(map[string][]byte),
	}
}

func (s *MemoryBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.blobs[key]
	if !ok {
		return nil, domain.ErrBlobNotFound
	}
	return append([]byte(nil), val...), nil
}

func (s *MemoryBlobStore) Put(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blobs[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemoryBlobStore) Ping(ctx context.Context) error {
	return nil
}

func (s *MemoryBlobStore) Close() error {
	return nil
}
