package cache

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"finfetcher/internal/feature/candles/domain/cutoff"
	"finfetcher/internal/feature/candles/domain/entity"
	"finfetcher/internal/feature/candles/usecase"
)

// CandleOptions tunes CachingCandleRepository.
type CandleOptions struct {
	// TTL defaults to five minutes.
	TTL time.Duration
	// Namespace prefixes every key. Defaults to "candles".
	Namespace string
	// RefreshAt, when set, caps entries so none outlives the next daily
	// ingest run at this wall-clock time in RefreshLocation.
	RefreshAt       *cutoff.TimeOfDay
	RefreshLocation *time.Location
	Now             func() time.Time
}

// CachingCandleRepository decorates a CandleRepository with Redis caching.
// A nil client disables caching.
type CachingCandleRepository struct {
	inner usecase.CandleRepository
	rdb   redis.Cmdable
	opts  CandleOptions
}

var _ usecase.CandleRepository = (*CachingCandleRepository)(nil)

func NewCachingCandleRepository(rdb redis.Cmdable, inner usecase.CandleRepository, opts CandleOptions) *CachingCandleRepository {
	if opts.TTL <= 0 {
		opts.TTL = 5 * time.Minute
	}
	if opts.Namespace == "" {
		opts.Namespace = "candles"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &CachingCandleRepository{inner: inner, rdb: rdb, opts: opts}
}

// UpsertBatch writes through and then invalidates every cached window of the
// affected series.
func (c *CachingCandleRepository) UpsertBatch(ctx context.Context, candles []entity.Candle) error {
	if err := c.inner.UpsertBatch(ctx, candles); err != nil {
		return err
	}
	if c.rdb == nil || len(candles) == 0 {
		return nil
	}
	seen := make(map[string]struct{})
	for _, cd := range candles {
		prefix := c.seriesPrefix(cd.Symbol, cd.Interval)
		if _, ok := seen[prefix]; ok {
			continue
		}
		seen[prefix] = struct{}{}
		if err := deleteByPattern(ctx, c.rdb, prefix+"*"); err != nil {
			slog.Warn("candle cache invalidation failed", "prefix", prefix, "error", err)
		}
	}
	return nil
}

func (c *CachingCandleRepository) Find(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error) {
	if c.rdb == nil {
		return c.inner.Find(ctx, symbol, interval, outputsize)
	}

	key := fmt.Sprintf("%s%d", c.seriesPrefix(symbol, interval), outputsize)
	var out []entity.Candle
	if getJSON(ctx, c.rdb, key, &out) {
		return out, nil
	}

	out, err := c.inner.Find(ctx, symbol, interval, outputsize)
	if err != nil {
		return nil, err
	}
	setJSON(ctx, c.rdb, key, out, capTTL(c.opts.TTL, c.opts.Now(), c.opts.RefreshAt, c.opts.RefreshLocation))
	return out, nil
}

func (c *CachingCandleRepository) seriesPrefix(symbol, interval string) string {
	return fmt.Sprintf("%s:%s:%s:", c.opts.Namespace, keyPart(strings.ToUpper(symbol)), keyPart(interval))
}
