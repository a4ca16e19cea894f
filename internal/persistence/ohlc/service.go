package ohlcpersist

import (
	"context"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/redis"
	"github.com/zeromicro/go-zero/core/stores/sqlx"

	cachekeys "watchsync-api/internal/cache"
	"watchsync-api/internal/model"
	"watchsync-api/pkg/market"
)

const defaultLatestTTL = 5 * time.Minute

// Service persists OHLC series to the time-series table and write-throughs
// each symbol's newest bar to Redis for cheap latest-price reads.
type Service struct {
	conn      sqlx.SqlConn
	bars      model.OhlcBarsModel
	rds       *redis.Redis
	latestTTL time.Duration
}

// Config enumerates dependencies required to persist OHLC data. Redis is
// optional; without it the service only writes the table.
type Config struct {
	SQLConn   sqlx.SqlConn
	BarsModel model.OhlcBarsModel
	Redis     *redis.Redis
	LatestTTL time.Duration
}

// NewService wires an OHLC persistence service.
func NewService(cfg Config) *Service {
	ttl := cfg.LatestTTL
	if ttl <= 0 {
		ttl = defaultLatestTTL
	}
	return &Service{
		conn:      cfg.SQLConn,
		bars:      cfg.BarsModel,
		rds:       cfg.Redis,
		latestTTL: ttl,
	}
}

// latestBarPayload is the msgpack-encoded cache value for the newest bar.
type latestBarPayload struct {
	Ts     int64   `msgpack:"ts"` // unix millis
	Open   float64 `msgpack:"o"`
	High   float64 `msgpack:"h"`
	Low    float64 `msgpack:"l"`
	Close  float64 `msgpack:"c"`
	Volume float64 `msgpack:"v"`
}

// UpsertSeries writes one symbol's bars inside a single transaction: a
// failing bar rolls back the whole batch so the series never persists
// half-written. Callers treat the returned error as a per-symbol failure.
func (s *Service) UpsertSeries(ctx context.Context, symbol, exchange, interval string, bars []market.Bar) error {
	if len(bars) == 0 {
		return nil
	}
	err := s.conn.TransactCtx(ctx, func(ctx context.Context, session sqlx.Session) error {
		for _, bar := range bars {
			row := model.OhlcBar{
				Symbol:   symbol,
				Exchange: exchange,
				Interval: interval,
				Ts:       bar.Ts,
				Open:     bar.Open,
				High:     bar.High,
				Low:      bar.Low,
				Close:    bar.Close,
				Volume:   bar.Volume,
			}
			if err := s.bars.Upsert(ctx, session, row); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("upsert series %s/%s %s: %w", symbol, exchange, interval, err)
	}
	s.cacheLatest(ctx, symbol, exchange, interval, bars[len(bars)-1])
	return nil
}

// Range pages persisted bars; the read-only query API downstream paginates
// through this.
func (s *Service) Range(ctx context.Context, symbol, interval string, from, to time.Time, limit, offset int) ([]model.OhlcBar, error) {
	return s.bars.Range(ctx, symbol, interval, from, to, limit, offset)
}

func (s *Service) cacheLatest(ctx context.Context, symbol, exchange, interval string, bar market.Bar) {
	if s.rds == nil {
		return
	}
	payload, err := msgpack.Marshal(latestBarPayload{
		Ts:     bar.Ts.UTC().UnixMilli(),
		Open:   bar.Open,
		High:   bar.High,
		Low:    bar.Low,
		Close:  bar.Close,
		Volume: bar.Volume,
	})
	if err != nil {
		logx.WithContext(ctx).Errorf("ohlcpersist: encode latest bar symbol=%s err=%v", symbol, err)
		return
	}
	key := cachekeys.LatestBarKey(symbol, exchange, interval)
	if err := s.rds.SetexCtx(ctx, key, string(payload), int(s.latestTTL.Seconds())); err != nil {
		logx.WithContext(ctx).Errorf("ohlcpersist: cache latest bar key=%s err=%v", key, err)
	}
}

// LatestCached returns the cached newest bar, if present.
func (s *Service) LatestCached(ctx context.Context, symbol, exchange, interval string) (*market.Bar, error) {
	if s.rds == nil {
		return nil, nil
	}
	raw, err := s.rds.GetCtx(ctx, cachekeys.LatestBarKey(symbol, exchange, interval))
	if err != nil {
		return nil, fmt.Errorf("ohlcpersist: read latest bar cache: %w", err)
	}
	if raw == "" {
		return nil, nil
	}
	var payload latestBarPayload
	if err := msgpack.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("ohlcpersist: decode latest bar cache: %w", err)
	}
	return &market.Bar{
		Symbol:   symbol,
		Exchange: exchange,
		Interval: interval,
		Ts:       time.UnixMilli(payload.Ts).UTC(),
		Open:     payload.Open,
		High:     payload.High,
		Low:      payload.Low,
		Close:    payload.Close,
		Volume:   payload.Volume,
	}, nil
}
