package services_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/services"
)

func ptr[T any](v T) *T {
	return &v
}

type MockBlobStore struct {
	mu            sync.Mutex
	store         map[string][]byte
	puts          int
	simulateError error
	failKey       string
}

func NewMockBlobStore() *MockBlobStore {
	return &MockBlobStore{store: make(map[string][]byte)}
}

func (m *MockBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.simulateError != nil {
		return nil, m.simulateError
	}
	v, ok := m.store[key]
	if !ok {
		return nil, domain.ErrBlobNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MockBlobStore) Put(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.simulateError != nil {
		return m.simulateError
	}
	if key == m.failKey {
		return errors.New("write failed for " + key)
	}
	m.puts++
	m.store[key] = append([]byte(nil), value...)
	return nil
}

func (m *MockBlobStore) Ping(ctx context.Context) error {
	return m.simulateError
}

func (m *MockBlobStore) Close() error {
	return nil
}

func (m *MockBlobStore) setError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.simulateError = err
}

func (m *MockBlobStore) putCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{now: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type testEnv struct {
	svc   *services.WellnessService
	blobs *MockBlobStore
	clock *fakeClock
}

func newTestEnv(start time.Time) *testEnv {
	blobs := NewMockBlobStore()
	clock := newFakeClock(start)
	svc := services.NewWellnessService(
		services.NewDataStore(blobs, nil),
		services.NewAnalyticsService(time.UTC),
		services.NewNotificationFeed(0),
		clock,
		nil,
	)
	return &testEnv{svc: svc, blobs: blobs, clock: clock}
}

func unlockedIDs(list []domain.Achievement) []string {
	ids := make([]string, 0, len(list))
	for _, a := range list {
		ids = append(ids, a.ID)
	}
	return ids
}
