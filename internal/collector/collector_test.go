package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"watchsync-api/internal/model"
	"watchsync-api/pkg/market"
)

type fakeSource struct {
	entries []model.WatchList
	err     error
}

func (s *fakeSource) ListActive(ctx context.Context) ([]model.WatchList, error) {
	return s.entries, s.err
}

type fakeFetcher struct {
	bySymbol map[string][]market.Bar
	trails   map[string][]market.Outcome
	requests []market.FetchRequest
}

func (f *fakeFetcher) Fetch(ctx context.Context, req market.FetchRequest) ([]market.Bar, []market.Outcome) {
	f.requests = append(f.requests, req)
	return f.bySymbol[req.Symbol], f.trails[req.Symbol]
}

type fakeSink struct {
	stored map[string][]market.Bar
	errFor map[string]error
}

func newFakeSink() *fakeSink {
	return &fakeSink{stored: map[string][]market.Bar{}, errFor: map[string]error{}}
}

func (s *fakeSink) UpsertSeries(ctx context.Context, symbol, exchange, interval string, bars []market.Bar) error {
	if err := s.errFor[symbol]; err != nil {
		return err
	}
	s.stored[symbol] = bars
	return nil
}

func bars(n int) []market.Bar {
	out := make([]market.Bar, n)
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := range out {
		out[i] = market.Bar{Ts: base.AddDate(0, 0, i), Open: 1, High: 2, Low: 1, Close: 2}
	}
	return out
}

func TestCollectorRunStoresBars(t *testing.T) {
	source := &fakeSource{entries: []model.WatchList{
		{Id: 1, Symbol: "AAPL", Exchange: "NASDAQ", Active: true},
		{Id: 2, Symbol: "MSFT", Active: true},
	}}
	fetcher := &fakeFetcher{
		bySymbol: map[string][]market.Bar{"AAPL": bars(5), "MSFT": bars(3)},
		trails: map[string][]market.Outcome{
			"AAPL": {{Provider: "twelvedata", Status: market.StatusOk}},
			"MSFT": {{Provider: "twelvedata", Status: market.StatusOk}},
		},
	}
	sink := newFakeSink()

	summary, err := New(source, fetcher, sink).Run(context.Background(), "1d", 30)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Symbols)
	assert.Equal(t, 2, summary.Stored)
	assert.Zero(t, summary.Failed)

	require.Len(t, fetcher.requests, 2)
	assert.Equal(t, "1d", fetcher.requests[0].Interval)
	assert.Equal(t, 30, fetcher.requests[0].Lookback)
	assert.Equal(t, "NASDAQ", fetcher.requests[0].Exchange)
	assert.Len(t, sink.stored["AAPL"], 5)
	assert.Len(t, sink.stored["MSFT"], 3)
}

func TestCollectorRunDefaults(t *testing.T) {
	source := &fakeSource{entries: []model.WatchList{{Id: 1, Symbol: "AAPL", Active: true}}}
	fetcher := &fakeFetcher{
		bySymbol: map[string][]market.Bar{"AAPL": bars(1)},
		trails:   map[string][]market.Outcome{"AAPL": {{Provider: "p", Status: market.StatusOk}}},
	}

	_, err := New(source, fetcher, newFakeSink()).Run(context.Background(), "  ", 0)
	require.NoError(t, err)
	require.Len(t, fetcher.requests, 1)
	assert.Equal(t, "1d", fetcher.requests[0].Interval)
	assert.Equal(t, 30, fetcher.requests[0].Lookback)
}

func TestCollectorRunSourceFailureAborts(t *testing.T) {
	source := &fakeSource{err: errors.New("pg down")}

	_, err := New(source, &fakeFetcher{}, newFakeSink()).Run(context.Background(), "1d", 30)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list active")
}

func TestCollectorRunExhaustedChainMovesOn(t *testing.T) {
	source := &fakeSource{entries: []model.WatchList{
		{Id: 1, Symbol: "DEAD", Active: true},
		{Id: 2, Symbol: "AAPL", Active: true},
	}}
	fetcher := &fakeFetcher{
		bySymbol: map[string][]market.Bar{"AAPL": bars(2)},
		trails: map[string][]market.Outcome{
			"DEAD": {
				{Provider: "a", Status: market.StatusFailed, Err: errors.New("boom")},
				{Provider: "b", Status: market.StatusEmpty},
				{Provider: "c", Status: market.StatusEmpty},
			},
			"AAPL": {{Provider: "a", Status: market.StatusOk}},
		},
	}
	sink := newFakeSink()

	summary, err := New(source, fetcher, sink).Run(context.Background(), "1d", 30)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Stored)
	assert.Equal(t, 1, summary.Exhausted)
	assert.NotContains(t, sink.stored, "DEAD")
	assert.Contains(t, sink.stored, "AAPL")
}

func TestCollectorRunPersistFailureIsIsolated(t *testing.T) {
	source := &fakeSource{entries: []model.WatchList{
		{Id: 1, Symbol: "AAPL", Active: true},
		{Id: 2, Symbol: "MSFT", Active: true},
	}}
	fetcher := &fakeFetcher{
		bySymbol: map[string][]market.Bar{"AAPL": bars(2), "MSFT": bars(2)},
		trails: map[string][]market.Outcome{
			"AAPL": {{Provider: "p", Status: market.StatusOk}},
			"MSFT": {{Provider: "p", Status: market.StatusOk}},
		},
	}
	sink := newFakeSink()
	sink.errFor["AAPL"] = errors.New("tx rollback")

	summary, err := New(source, fetcher, sink).Run(context.Background(), "1d", 30)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Stored)
	assert.Equal(t, 1, summary.Failed)
	assert.Contains(t, sink.stored, "MSFT")
}

func TestCollectorRunSkipsEmptySymbols(t *testing.T) {
	source := &fakeSource{entries: []model.WatchList{
		{Id: 1, Symbol: "   ", Active: true},
		{Id: 2, Symbol: "AAPL", Active: true},
	}}
	fetcher := &fakeFetcher{
		bySymbol: map[string][]market.Bar{"AAPL": bars(1)},
		trails:   map[string][]market.Outcome{"AAPL": {{Provider: "p", Status: market.StatusOk}}},
	}

	summary, err := New(source, fetcher, newFakeSink()).Run(context.Background(), "1d", 30)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Stored)
	require.Len(t, fetcher.requests, 1)
	assert.Equal(t, "AAPL", fetcher.requests[0].Symbol)
}
