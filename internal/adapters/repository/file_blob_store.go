package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/domain"
)

var _ domain.BlobStore = (*FileBlobStore)(nil)

var ErrInvalidKey = errors.New("repository: invalid key")

var keyRegex = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// FileBlobStore keeps one JSON file per key inside a directory. Writes go to
// a temp file first and are renamed into place.
type FileBlobStore struct {
	mu  sync.Mutex
	dir string
}

func NewFileBlobStore(dir string) (*FileBlobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("repository: create data dir failed: %w", err)
	}
	return &FileBlobStore{dir: dir}, nil
}

func (s *FileBlobStore) path(key string) (string, error) {
	if !keyRegex.MatchString(key) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

func (s *FileBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrBlobNotFound
		}
		return nil, fmt.Errorf("repository: read %s failed: %w", key, err)
	}
	return data, nil
}

func (s *FileBlobStore) Put(ctx context.Context, key string, value []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("repository: write %s failed: %w", key, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("repository: write %s failed: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("repository: sync %s failed: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("repository: write %s failed: %w", key, err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("repository: rename %s failed: %w", key, err)
	}
	return nil
}

func (s *FileBlobStore) Ping(ctx context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("repository: data dir unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("repository: %s is not a directory", s.dir)
	}
	return nil
}

func (s *FileBlobStore) Close() error {
	return nil
}
