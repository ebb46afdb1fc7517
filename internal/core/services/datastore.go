package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/domain"
)

var (
	ErrInvalidImport = errors.New("import file is not a valid MindfulMe export")
)

// DataStore loads and persists the record and achievement registry through
// a BlobStore.
type DataStore struct {
	blobs  domain.BlobStore
	logger *zap.Logger
}

func NewDataStore(blobs domain.BlobStore, logger *zap.Logger) *DataStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DataStore{blobs: blobs, logger: logger}
}

// Load returns the persisted record, or a fresh default one when nothing was
// stored or the stored data cannot be read. It never fails.
func (d *DataStore) Load(ctx context.Context, now time.Time) (*domain.Record, domain.Registry) {
	record := d.loadRecord(ctx, now)
	registry := domain.NewRegistry()

	data, err := d.blobs.Get(ctx, domain.AchievementsKey)
	switch {
	case errors.Is(err, domain.ErrBlobNotFound):
	case err != nil:
		d.logger.Warn("Failed to read achievements, starting locked", zap.Error(err))
	default:
		var stored domain.Registry
		if err := json.Unmarshal(data, &stored); err != nil {
			d.logger.Warn("Malformed achievements, starting locked", zap.Error(err))
		} else {
			registry.Merge(stored)
		}
	}

	reconcileXP(record, registry)
	return record, registry
}

func (d *DataStore) loadRecord(ctx context.Context, now time.Time) *domain.Record {
	data, err := d.blobs.Get(ctx, domain.RecordKey)
	if errors.Is(err, domain.ErrBlobNotFound) {
		d.logger.Info("No stored record, starting fresh")
		return domain.NewRecord(now)
	}
	if err != nil {
		d.logger.Warn("Failed to read record, starting fresh", zap.Error(err))
		return domain.NewRecord(now)
	}

	var r domain.Record
	if err := json.Unmarshal(data, &r); err != nil {
		d.logger.Warn("Malformed record, starting fresh", zap.Error(err))
		return domain.NewRecord(now)
	}
	if r.LastVisit == "" {
		r.LastVisit = now.Format(domain.DateLayout)
	}
	r.Normalize()
	return &r
}

// Save writes the achievements before the record. A stored record never
// credits XP for an achievement stored as locked.
func (d *DataStore) Save(ctx context.Context, r *domain.Record, reg domain.Registry) error {
	achievements, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("encode achievements: %w", err)
	}
	if err := d.blobs.Put(ctx, domain.AchievementsKey, achievements); err != nil {
		return fmt.Errorf("save achievements: %w", err)
	}

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if err := d.blobs.Put(ctx, domain.RecordKey, data); err != nil {
		return fmt.Errorf("save record: %w", err)
	}
	return nil
}

func (d *DataStore) Ping(ctx context.Context) error {
	return d.blobs.Ping(ctx)
}

func (d *DataStore) Close() error {
	return d.blobs.Close()
}

// Export renders the downloadable artifact and its file name.
func Export(r *domain.Record, reg domain.Registry, now time.Time) ([]byte, string, error) {
	artifact := domain.Export{
		Record:       *r,
		ExportDate:   now.UTC(),
		Version:      domain.ExportVersion,
		Achievements: reg,
	}

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("encode export: %w", err)
	}
	return data, domain.ExportFileName(now), nil
}

// DecodeImport parses an export artifact or a bare record. The returned
// registry is nil when the payload carried no achievements.
func DecodeImport(data []byte, now time.Time) (*domain.Record, domain.Registry, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	if _, ok := probe["moods"]; !ok {
		return nil, nil, fmt.Errorf("%w: missing moods", ErrInvalidImport)
	}

	var artifact domain.Export
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}

	r := artifact.Record
	if r.LastVisit == "" {
		r.LastVisit = now.Format(domain.DateLayout)
	}
	r.Normalize()
	return &r, artifact.Achievements, nil
}
