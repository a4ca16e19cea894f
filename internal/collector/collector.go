package collector

import (
	"context"
	"fmt"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"watchsync-api/internal/model"
	"watchsync-api/pkg/market"
)

const (
	defaultInterval = "1d"
	defaultLookback = 30
)

// ActiveSource lists the canonical store's active watch entries.
type ActiveSource interface {
	ListActive(ctx context.Context) ([]model.WatchList, error)
}

// Fetcher walks the provider fallback chain for one request. Satisfied by
// *market.Chain.
type Fetcher interface {
	Fetch(ctx context.Context, req market.FetchRequest) ([]market.Bar, []market.Outcome)
}

// BarSink persists one symbol's series transactionally.
type BarSink interface {
	UpsertSeries(ctx context.Context, symbol, exchange, interval string, bars []market.Bar) error
}

// Collector pulls OHLC bars for every active watch entry. Failures are
// isolated per symbol: a vendor outage or a failed batch upsert costs that
// symbol one cycle, never the whole run.
type Collector struct {
	source ActiveSource
	chain  Fetcher
	sink   BarSink
}

// New builds a collection pipeline.
func New(source ActiveSource, chain Fetcher, sink BarSink) *Collector {
	return &Collector{source: source, chain: chain, sink: sink}
}

// Summary counts what one collection pass did per symbol.
type Summary struct {
	Symbols   int
	Stored    int
	Exhausted int
	Failed    int
	Skipped   int
}

// Run executes one collection pass. Only the initial active-entry read can
// fail the run; everything after is per-symbol and reported through logs.
func (c *Collector) Run(ctx context.Context, interval string, lookback int) (Summary, error) {
	interval = strings.TrimSpace(interval)
	if interval == "" {
		interval = defaultInterval
	}
	if lookback <= 0 {
		lookback = defaultLookback
	}

	entries, err := c.source.ListActive(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("collector: list active watch entries: %w", err)
	}
	logx.WithContext(ctx).Infof("collector: starting run interval=%s lookback=%d entries=%d",
		interval, lookback, len(entries))

	sum := Summary{Symbols: len(entries)}
	for _, entry := range entries {
		symbol := strings.TrimSpace(entry.Symbol)
		if symbol == "" {
			sum.Skipped++
			logx.WithContext(ctx).Infof("collector: skipping watch entry id=%d with empty symbol", entry.Id)
			continue
		}
		exchange := strings.TrimSpace(entry.Exchange)

		bars, trail := c.chain.Fetch(ctx, market.FetchRequest{
			Symbol:   symbol,
			Exchange: exchange,
			Interval: interval,
			Lookback: lookback,
		})
		for _, outcome := range trail {
			switch outcome.Status {
			case market.StatusFailed:
				logx.WithContext(ctx).Errorf("collector: provider %s failed for %s: %v",
					outcome.Provider, symbol, outcome.Err)
			case market.StatusEmpty:
				logx.WithContext(ctx).Infof("collector: provider %s returned no data for %s",
					outcome.Provider, symbol)
			}
		}
		if len(bars) == 0 {
			sum.Exhausted++
			logx.WithContext(ctx).Infof("collector: all providers exhausted for %s, moving on", symbol)
			continue
		}

		if err := c.sink.UpsertSeries(ctx, symbol, exchange, interval, bars); err != nil {
			sum.Failed++
			logx.WithContext(ctx).Errorf("collector: persist %s failed: %v", symbol, err)
			continue
		}
		sum.Stored++
		logx.WithContext(ctx).Infof("collector: stored %d bars for %s via %s",
			len(bars), symbol, trail[len(trail)-1].Provider)
	}

	logx.WithContext(ctx).Infof("collector: run complete stored=%d exhausted=%d failed=%d skipped=%d",
		sum.Stored, sum.Exhausted, sum.Failed, sum.Skipped)
	return sum, nil
}
