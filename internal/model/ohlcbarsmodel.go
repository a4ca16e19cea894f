package model

import (
	"context"
	"fmt"
	"time"

	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

var _ OhlcBarsModel = (*defaultOhlcBarsModel)(nil)

type (
	// OhlcBarsModel accesses the ohlc_bars time-series table (Postgres).
	// Upsert takes a session so the OHLC service can batch one symbol's
	// bars inside a single transaction.
	OhlcBarsModel interface {
		Upsert(ctx context.Context, session sqlx.Session, bar OhlcBar) error
		Range(ctx context.Context, symbol, interval string, from, to time.Time, limit, offset int) ([]OhlcBar, error)
	}

	defaultOhlcBarsModel struct {
		conn sqlx.SqlConn
	}

	// OhlcBar is one row of ohlc_bars, keyed (symbol, exchange, interval, ts).
	OhlcBar struct {
		Symbol   string    `db:"symbol"`
		Exchange string    `db:"exchange"`
		Interval string    `db:"interval"`
		Ts       time.Time `db:"ts"`
		Open     float64   `db:"open"`
		High     float64   `db:"high"`
		Low      float64   `db:"low"`
		Close    float64   `db:"close"`
		Volume   float64   `db:"volume"`
	}
)

// NewOhlcBarsModel returns a model for the ohlc_bars table.
func NewOhlcBarsModel(conn sqlx.SqlConn) OhlcBarsModel {
	return &defaultOhlcBarsModel{conn: conn}
}

// Upsert writes one bar; an existing key is overwritten, not merged.
func (m *defaultOhlcBarsModel) Upsert(ctx context.Context, session sqlx.Session, bar OhlcBar) error {
	const query = `
INSERT INTO ohlc_bars (symbol, exchange, interval, ts, open, high, low, close, volume)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (symbol, exchange, interval, ts) DO UPDATE SET
    open = EXCLUDED.open,
    high = EXCLUDED.high,
    low = EXCLUDED.low,
    close = EXCLUDED.close,
    volume = EXCLUDED.volume;`
	if _, err := session.ExecCtx(ctx, query,
		bar.Symbol, bar.Exchange, bar.Interval, bar.Ts.UTC(),
		bar.Open, bar.High, bar.Low, bar.Close, bar.Volume,
	); err != nil {
		return fmt.Errorf("ohlc upsert %s/%s %s @ %s: %w", bar.Symbol, bar.Exchange, bar.Interval, bar.Ts, err)
	}
	return nil
}

// Range pages bars for one (symbol, interval) over a time window, oldest
// first. Downstream read APIs paginate with limit/offset.
func (m *defaultOhlcBarsModel) Range(ctx context.Context, symbol, interval string, from, to time.Time, limit, offset int) ([]OhlcBar, error) {
	const query = `
SELECT symbol, COALESCE(exchange, '') AS exchange, interval, ts, open, high, low, close, volume
FROM ohlc_bars
WHERE symbol = $1 AND interval = $2 AND ts >= $3 AND ts < $4
ORDER BY ts
LIMIT $5 OFFSET $6`
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	var rows []OhlcBar
	if err := m.conn.QueryRowsCtx(ctx, &rows, query, symbol, interval, from.UTC(), to.UTC(), limit, offset); err != nil {
		return nil, fmt.Errorf("ohlc range %s %s: %w", symbol, interval, err)
	}
	return rows, nil
}
