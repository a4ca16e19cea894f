package svc_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"watchsync-api/internal/model"
	"watchsync-api/internal/svc"
	"watchsync-api/pkg/assets"
)

type stubWatchListModel struct {
	rows []model.WatchList
	err  error
}

func (m *stubWatchListModel) List(ctx context.Context) ([]model.WatchList, error) {
	return m.rows, m.err
}

func (m *stubWatchListModel) ListActive(ctx context.Context) ([]model.WatchList, error) {
	return m.rows, m.err
}

func (m *stubWatchListModel) FindOne(ctx context.Context, id int64) (*model.WatchList, error) {
	return nil, model.ErrNotFound
}

func (m *stubWatchListModel) FindByKey(ctx context.Context, symbol, exchange string) (*model.WatchList, error) {
	return nil, model.ErrNotFound
}

func TestBuildResolverSeedsFromStore(t *testing.T) {
	svcCtx := &svc.ServiceContext{WatchListModel: &stubWatchListModel{rows: []model.WatchList{
		{Id: 1, Symbol: "ZETA9", Exchange: "NYSE"},
		{Id: 2, Symbol: "ZETA9", Exchange: "LSE"}, // later duplicate loses
		{Id: 3, Symbol: "AAPL", Exchange: "LSE"},
	}}}

	r, err := svcCtx.BuildResolver(context.Background())
	require.NoError(t, err)

	got := r.Resolve(assets.Candidate{Symbol: "ZETA9"})
	assert.Equal(t, "ZETA9", got.Symbol)
	assert.Equal(t, "NYSE", got.ExchangeID)

	// Curated catalog entries outrank store seeds.
	got = r.Resolve(assets.Candidate{Symbol: "AAPL"})
	assert.Equal(t, "NASDAQ", got.ExchangeID)
}

func TestBuildResolverListFailure(t *testing.T) {
	listErr := errors.New("canonical store down")
	svcCtx := &svc.ServiceContext{WatchListModel: &stubWatchListModel{err: listErr}}

	_, err := svcCtx.BuildResolver(context.Background())
	require.ErrorIs(t, err, listErr)
}
