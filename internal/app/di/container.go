package di

import (
	"context"
	"errors"
	"log/slog"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	candleadapters "finfetcher/internal/feature/candles/adapters"
	candlehandler "finfetcher/internal/feature/candles/transport/handler"
	candleusecase "finfetcher/internal/feature/candles/usecase"
	symboladapters "finfetcher/internal/feature/symbollist/adapters"
	symbolhandler "finfetcher/internal/feature/symbollist/transport/handler"
	symbolusecase "finfetcher/internal/feature/symbollist/usecase"
	"finfetcher/internal/platform/cache"
	"finfetcher/internal/platform/config"
	infradb "finfetcher/internal/platform/db"
	platformhandler "finfetcher/internal/platform/http/handler"
	infraredis "finfetcher/internal/platform/redis"
	"finfetcher/internal/shared/ratelimiter"
)

// App holds the wired components shared by the server and the ingest job.
type App struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redisv9.Client

	Symbols *symbolusecase.SymbolUsecase
	Candles *candleusecase.CandlesUsecase
	Ingest  *candleusecase.IngestUsecase

	CandlesHandler *candlehandler.CandlesHandler
	SymbolHandler  *symbolhandler.SymbolHandler
	ReadyChecks    []platformhandler.Check
}

// Build opens storage and wires every usecase. Redis is optional: when it
// is unreachable the app runs without caches.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := infradb.Open(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}

	rdb, err := infraredis.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		slog.Warn("Redis unavailable, running without cache", "error", err)
		rdb = nil
	}
	var cacheClient redisv9.Cmdable
	if rdb != nil {
		cacheClient = rdb
	}

	symbolUC := symbolusecase.NewSymbolUsecase(symboladapters.NewSymbolRepository(db))

	market := NewMarket(cfg.Yahoo)
	meta := candleusecase.NewChainMetadataProvider(
		cache.NewCachingMetadataProvider(cacheClient, market, cfg.Redis.InfoTTL),
		NewRegistryMetadata(symbolUC),
	)
	fetchUC := candleusecase.NewFetchUsecase(meta, market, candleusecase.NewTrimmer(nil, slog.Default()), candleusecase.RetryPolicy{
		MaxAttempts: cfg.Fetch.Attempts,
		Delay:       cfg.Fetch.RetryDelay,
	})

	refresh := cfg.Ingest.RefreshAt
	candleRepo := cache.NewCachingCandleRepository(cacheClient, candleadapters.NewCandleRepository(db), cache.CandleOptions{
		TTL:             cfg.Redis.CandleTTL,
		RefreshAt:       &refresh,
		RefreshLocation: time.UTC,
	})

	candlesUC := candleusecase.NewCandlesUsecase(candleRepo, fetchUC, cfg.Cutoffs)
	ingestUC := candleusecase.NewIngestUsecase(
		fetchUC,
		candleRepo,
		candleadapters.NewFetchStateRepository(db),
		ratelimiter.NewRateLimiter(cfg.Ingest.RateLimit, cfg.Ingest.RateWindow),
		candleusecase.IngestConfig{
			Period:      cfg.Ingest.Period,
			Intervals:   cfg.Ingest.Intervals,
			Concurrency: cfg.Ingest.Concurrency,
			Overrides:   cfg.Cutoffs,
		},
	)

	app := &App{
		Config:         cfg,
		DB:             db,
		Redis:          rdb,
		Symbols:        symbolUC,
		Candles:        candlesUC,
		Ingest:         ingestUC,
		CandlesHandler: candlehandler.NewCandlesHandler(candlesUC),
		SymbolHandler:  symbolhandler.NewSymbolHandler(symbolUC),
	}
	app.ReadyChecks = append(app.ReadyChecks, platformhandler.Check{Name: "db", Ping: func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}})
	if rdb != nil {
		app.ReadyChecks = append(app.ReadyChecks, platformhandler.Check{Name: "redis", Ping: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	}
	return app, nil
}

// Close releases the database and Redis connections.
func (a *App) Close() error {
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		errs = append(errs, sqlDB.Close())
	}
	return errors.Join(errs...)
}

// RunIngest ingests every active registry symbol once.
func (a *App) RunIngest(ctx context.Context) (candleusecase.IngestReport, error) {
	codes, err := a.Symbols.ListActiveCodes(ctx)
	if err != nil {
		return candleusecase.IngestReport{}, err
	}
	return a.Ingest.IngestAll(ctx, codes)
}
