package svc

import (
	"context"
	"time"

	_ "github.com/go-sql-driver/mysql" // register mysql driver for the legacy store
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx driver for the canonical store
	"github.com/zeromicro/go-zero/core/stores/redis"
	"github.com/zeromicro/go-zero/core/stores/sqlx"

	"watchsync-api/internal/collector"
	"watchsync-api/internal/config"
	"watchsync-api/internal/model"
	ohlcpersist "watchsync-api/internal/persistence/ohlc"
	watchpersist "watchsync-api/internal/persistence/watch"
	"watchsync-api/internal/syncer"
	"watchsync-api/pkg/assets"
	marketpkg "watchsync-api/pkg/market"

	// Import for side-effects: registers the OHLC provider builders.
	_ "watchsync-api/pkg/market/providers/alphavantage"
	_ "watchsync-api/pkg/market/providers/finnhub"
	_ "watchsync-api/pkg/market/providers/twelvedata"
)

// ServiceContext wires everything the batch jobs need. Construction fails
// fast on wiring/config errors; it performs no queries of its own.
type ServiceContext struct {
	Config config.Config

	LegacyConn    sqlx.SqlConn
	CanonicalConn sqlx.SqlConn
	Redis         *redis.Redis

	LegacyWatchModel  model.LegacyWatchModel
	WatchListModel    model.WatchListModel
	WatchHistoryModel model.WatchHistoryModel
	OhlcBarsModel     model.OhlcBarsModel

	WatchService *watchpersist.Service
	OhlcService  *ohlcpersist.Service

	// ProviderChain and Collector are nil when no providers section is
	// configured; the sync job runs without them.
	ProviderChain *marketpkg.Chain
	Collector     *collector.Collector

	SyncEngine *syncer.Engine
}

// NewServiceContext builds the job wiring from loaded configuration.
func NewServiceContext(c config.Config) (*ServiceContext, error) {
	legacyConn := sqlx.NewMysql(c.LegacyDB.DSN)
	canonicalConn := sqlx.NewSqlConn("pgx", c.CanonicalDB.DSN)

	svc := &ServiceContext{
		Config:            c,
		LegacyConn:        legacyConn,
		CanonicalConn:     canonicalConn,
		LegacyWatchModel:  model.NewLegacyWatchModel(legacyConn),
		WatchListModel:    model.NewWatchListModel(canonicalConn),
		WatchHistoryModel: model.NewWatchHistoryModel(canonicalConn),
		OhlcBarsModel:     model.NewOhlcBarsModel(canonicalConn),
	}

	if c.Redis.Host != "" {
		rds, err := redis.NewRedis(c.Redis)
		if err != nil {
			return nil, err
		}
		svc.Redis = rds
	}

	svc.WatchService = watchpersist.NewService(watchpersist.Config{
		SQLConn:      canonicalConn,
		WatchModel:   svc.WatchListModel,
		HistoryModel: svc.WatchHistoryModel,
	})
	svc.OhlcService = ohlcpersist.NewService(ohlcpersist.Config{
		SQLConn:   canonicalConn,
		BarsModel: svc.OhlcBarsModel,
		Redis:     svc.Redis,
		LatestTTL: time.Duration(c.Collect.LatestTTLSec) * time.Second,
	})

	svc.SyncEngine = syncer.NewEngine(
		syncer.NewLegacyStore(svc.LegacyWatchModel),
		syncer.NewCanonicalStore(svc.WatchService),
	)

	if c.Providers.Value != nil {
		chain, err := c.Providers.Value.BuildChain()
		if err != nil {
			return nil, err
		}
		svc.ProviderChain = chain
		svc.Collector = collector.New(svc.WatchService, chain, svc.OhlcService)
	}

	return svc, nil
}

// BuildResolver compiles the asset resolver from the bundled catalog plus
// the canonical store's current symbols as seed pairs.
func (s *ServiceContext) BuildResolver(ctx context.Context) (*assets.Resolver, error) {
	entries, err := s.WatchListModel.List(ctx)
	if err != nil {
		return nil, err
	}
	seeds := make([]assets.SeedPair, 0, len(entries))
	for _, entry := range entries {
		seeds = append(seeds, assets.SeedPair{Symbol: entry.Symbol, Exchange: entry.Exchange})
	}
	return assets.NewResolver(assets.DefaultCatalog(), seeds...), nil
}
