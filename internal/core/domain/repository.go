package domain

import (
	"context"
	"errors"
)

var (
	ErrBlobNotFound = errors.New("blob not found")
)

const (
	RecordKey       = "mindfulme_pro_data"
	AchievementsKey = "mindfulme_pro_achievements"
)

// BlobStore is the durable key-value storage behind the journal record.
type BlobStore interface {
	// Get returns the stored value, or ErrBlobNotFound when the key was never written.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the value stored under key.
	Put(ctx context.Context, key string, value []byte) error

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	Close() error
}
