package syncer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store with optional per-call failures.
type fakeStore struct {
	rows        []Entry
	nextID      int64
	snapshotErr error
	failIDs     map[int64]error
	clock       time.Time
}

func newFakeStore(rows ...Entry) *fakeStore {
	maxID := int64(0)
	for _, row := range rows {
		if row.ID > maxID {
			maxID = row.ID
		}
	}
	return &fakeStore{
		rows:    rows,
		nextID:  maxID + 1,
		failIDs: map[int64]error{},
		clock:   time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
	}
}

func (s *fakeStore) Snapshot(ctx context.Context) ([]Entry, error) {
	if s.snapshotErr != nil {
		return nil, s.snapshotErr
	}
	out := make([]Entry, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

func (s *fakeStore) Insert(ctx context.Context, key Key, active bool) error {
	s.rows = append(s.rows, Entry{
		ID: s.nextID, Symbol: key.Symbol, Exchange: key.Exchange,
		Active: active, UpdatedAt: s.clock,
	})
	s.nextID++
	return nil
}

func (s *fakeStore) SetActive(ctx context.Context, id int64, active bool) error {
	if err := s.failIDs[id]; err != nil {
		return err
	}
	for i := range s.rows {
		if s.rows[i].ID == id {
			s.rows[i].Active = active
			s.rows[i].UpdatedAt = s.clock
			return nil
		}
	}
	return errors.New("row not found")
}

func TestEngineRunConverges(t *testing.T) {
	legacy := newFakeStore(
		Entry{ID: 1, Symbol: "AAPL", Active: true, UpdatedAt: newer},
		Entry{ID: 2, Symbol: "TSLA", Active: false, UpdatedAt: older},
	)
	canonical := newFakeStore(
		Entry{ID: 9, Symbol: "AAPL", Active: false, UpdatedAt: older},
		Entry{ID: 10, Symbol: "MSFT", Active: true, UpdatedAt: older},
	)
	engine := NewEngine(legacy, canonical)

	summary, err := engine.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Planned)
	assert.Equal(t, 3, summary.Applied)
	assert.Zero(t, summary.Failed)

	// Second run starts from converged stores and plans nothing.
	summary, err = engine.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, summary.Planned)

	legacySnap, _ := legacy.Snapshot(context.Background())
	canonicalSnap, _ := canonical.Snapshot(context.Background())
	assert.Len(t, legacySnap, 3)
	assert.Len(t, canonicalSnap, 3)
}

func TestEngineRunSnapshotFailureAborts(t *testing.T) {
	legacy := newFakeStore()
	legacy.snapshotErr = errors.New("mysql down")
	engine := NewEngine(legacy, newFakeStore())

	_, err := engine.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "legacy")
}

func TestEngineApplyIsolatesFailures(t *testing.T) {
	legacy := newFakeStore(
		Entry{ID: 1, Symbol: "AAPL", Active: true, UpdatedAt: older},
		Entry{ID: 2, Symbol: "TSLA", Active: true, UpdatedAt: older},
	)
	legacy.failIDs[1] = errors.New("lock timeout")
	canonical := newFakeStore(
		Entry{ID: 9, Symbol: "AAPL", Active: false, UpdatedAt: newer},
		Entry{ID: 10, Symbol: "TSLA", Active: false, UpdatedAt: newer},
	)
	engine := NewEngine(legacy, canonical)

	summary, err := engine.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Planned)
	assert.Equal(t, 1, summary.Applied)
	assert.Equal(t, 1, summary.Failed)

	// The unaffected row still converged.
	snap, _ := legacy.Snapshot(context.Background())
	for _, row := range snap {
		if row.ID == 2 {
			assert.False(t, row.Active)
		}
	}
}
