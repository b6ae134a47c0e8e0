// Package db opens the gorm connection used by the candle, fetch-state and
// symbol stores.
package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	candleadapters "finfetcher/internal/feature/candles/adapters"
	symbolentity "finfetcher/internal/feature/symbollist/domain/entity"
	"finfetcher/internal/platform/config"
)

// Opener opens a gorm connection for dsn.
type Opener func(dsn string) (*gorm.DB, error)

const retryInterval = 3 * time.Second

// DialectorFor returns an Opener for the configured driver.
func DialectorFor(driver string) (Opener, error) {
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
	switch driver {
	case "sqlite", "":
		return func(dsn string) (*gorm.DB, error) { return gorm.Open(sqlite.Open(dsn), gcfg) }, nil
	case "postgres":
		return func(dsn string) (*gorm.DB, error) { return gorm.Open(postgres.Open(dsn), gcfg) }, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

// ConnectWithRetry calls open every interval until it succeeds, timeout
// elapses or ctx is done.
func ConnectWithRetry(ctx context.Context, dsn string, timeout, interval time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for attempt := 1; ; attempt++ {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().Add(interval).After(deadline) {
			return nil, fmt.Errorf("db connect failed after %d attempts: %w", attempt, err)
		}
		slog.Warn("db connect failed, retrying", "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}
	}
}

// Open connects using cfg and, when cfg.AutoMigrate is set, migrates the
// candles, fetch_states and symbols tables.
func Open(ctx context.Context, cfg config.DBConfig) (*gorm.DB, error) {
	open, err := DialectorFor(cfg.Driver)
	if err != nil {
		return nil, err
	}
	db, err := ConnectWithRetry(ctx, cfg.DSN, cfg.ConnectTimeout, retryInterval, open)
	if err != nil {
		return nil, err
	}
	if cfg.Driver == "sqlite" || cfg.Driver == "" {
		// sqlite serialises writers; concurrent ingest workers would hit SQLITE_BUSY.
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}
	if cfg.AutoMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&candleadapters.CandleModel{},
		&candleadapters.FetchStateModel{},
		&symbolentity.Symbol{},
	); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
