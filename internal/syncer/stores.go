package syncer

import (
	"context"
	"time"

	"watchsync-api/internal/model"
	watchpersist "watchsync-api/internal/persistence/watch"
)

// Store is the narrow surface the engine needs from either side. Both
// adapters normalize their rows into Entry snapshots.
type Store interface {
	Snapshot(ctx context.Context) ([]Entry, error)
	Insert(ctx context.Context, key Key, active bool) error
	SetActive(ctx context.Context, id int64, active bool) error
}

type legacyStore struct {
	watch model.LegacyWatchModel
}

// NewLegacyStore adapts the legacy watch model to the engine's Store.
func NewLegacyStore(watch model.LegacyWatchModel) Store {
	return &legacyStore{watch: watch}
}

func (s *legacyStore) Snapshot(ctx context.Context) ([]Entry, error) {
	rows, err := s.watch.List(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		updatedAt := time.Time{}
		if row.UpdatedAt.Valid {
			updatedAt = row.UpdatedAt.Time
		}
		entries = append(entries, Entry{
			ID:        row.Id,
			Symbol:    row.Symbol,
			Exchange:  row.Exchange,
			Active:    row.Active,
			UpdatedAt: updatedAt,
		})
	}
	return entries, nil
}

func (s *legacyStore) Insert(ctx context.Context, key Key, active bool) error {
	_, err := s.watch.Insert(ctx, key.Symbol, key.Exchange, active)
	return err
}

func (s *legacyStore) SetActive(ctx context.Context, id int64, active bool) error {
	return s.watch.UpdateActive(ctx, id, active)
}

type canonicalStore struct {
	svc *watchpersist.Service
}

// NewCanonicalStore adapts the canonical watch service to the engine's
// Store. Inserts and flag changes go through the service so history rows
// stay consistent.
func NewCanonicalStore(svc *watchpersist.Service) Store {
	return &canonicalStore{svc: svc}
}

func (s *canonicalStore) Snapshot(ctx context.Context) ([]Entry, error) {
	rows, err := s.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		updatedAt := time.Time{}
		if row.UpdatedAt.Valid {
			updatedAt = row.UpdatedAt.Time
		}
		entries = append(entries, Entry{
			ID:        row.Id,
			Symbol:    row.Symbol,
			Exchange:  row.Exchange,
			Active:    row.Active,
			UpdatedAt: updatedAt,
		})
	}
	return entries, nil
}

func (s *canonicalStore) Insert(ctx context.Context, key Key, active bool) error {
	_, _, err := s.svc.Create(ctx, key.Symbol, key.Exchange, active)
	return err
}

func (s *canonicalStore) SetActive(ctx context.Context, id int64, active bool) error {
	return s.svc.SetActiveStatus(ctx, id, active)
}
