package usecase

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"finfetcher/internal/feature/candles/domain"
	"finfetcher/internal/feature/candles/domain/cutoff"
	"finfetcher/internal/feature/candles/domain/entity"
	"finfetcher/internal/shared/ratelimiter"
)

// FetchStateRepository stores the last ingest outcome per symbol and interval.
type FetchStateRepository interface {
	// Get returns found=false when nothing has been stored yet.
	Get(ctx context.Context, symbol, interval string) (state entity.FetchState, found bool, err error)
	Save(ctx context.Context, state entity.FetchState) error
}

// IngestConfig tunes IngestUsecase. Zero values take defaults.
type IngestConfig struct {
	Period      string
	Intervals   []string
	Concurrency int
	Overrides   cutoff.Overrides
	Now         func() time.Time
	Logger      *slog.Logger
}

// IngestReport summarises one IngestAll run.
type IngestReport struct {
	RunID    string
	Ingested int64
	Skipped  int64
	Failed   int64
}

// defaultIngestIntervals are the bar intervals stored for every symbol.
var defaultIngestIntervals = []string{"1d", "1wk", "1mo"}

// IngestUsecase fetches trimmed series from the provider and persists them.
type IngestUsecase struct {
	fetch       HistoryFetcher
	candle      CandleRepository
	state       FetchStateRepository
	rateLimiter ratelimiter.RateLimiterInterface
	cfg         IngestConfig
}

// NewIngestUsecase returns an IngestUsecase.
func NewIngestUsecase(fetch HistoryFetcher, candle CandleRepository, state FetchStateRepository, rateLimiter ratelimiter.RateLimiterInterface, cfg IngestConfig) *IngestUsecase {
	if cfg.Period == "" {
		cfg.Period = domain.DefaultPeriod
	}
	if len(cfg.Intervals) == 0 {
		cfg.Intervals = defaultIngestIntervals
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &IngestUsecase{fetch: fetch, candle: candle, state: state, rateLimiter: rateLimiter, cfg: cfg}
}

// ingestOne fetches one symbol and interval and stores the candles and the new
// target date. It reports skipped=true when the stored target date is still
// in the future, since no new completed bar can exist yet.
func (iu *IngestUsecase) ingestOne(ctx context.Context, symbol, interval string) (skipped bool, err error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	prev, found, err := iu.state.Get(ctx, symbol, interval)
	if err != nil {
		return false, err
	}
	today := civil.DateOf(iu.cfg.Now().UTC())
	if found && today.Before(prev.TargetDate) {
		return true, nil
	}

	if err := iu.rateLimiter.Wait(ctx); err != nil {
		return false, err
	}

	f, err := NewDataFetcher(symbol, iu.cfg.Overrides, iu.fetch)
	if err != nil {
		return false, err
	}
	res, err := f.Fetch(ctx, iu.cfg.Period, interval)
	if err != nil {
		return false, err
	}

	if err := iu.candle.UpsertBatch(ctx, res.Candles); err != nil {
		return false, err
	}
	return false, iu.state.Save(ctx, entity.FetchState{
		Symbol:      symbol,
		Interval:    interval,
		LastBarDate: res.Candles[len(res.Candles)-1].Date(),
		TargetDate:  res.TargetDate,
		UpdatedAt:   iu.cfg.Now().UTC(),
	})
}

// IngestAll ingests every symbol for every configured interval. Failures of a
// single symbol are logged and counted without stopping the run; only context
// cancellation aborts it.
func (iu *IngestUsecase) IngestAll(ctx context.Context, symbols []string) (IngestReport, error) {
	report := IngestReport{RunID: uuid.NewString()}
	logger := iu.cfg.Logger.With("run_id", report.RunID)
	logger.Info("ingest started", "symbols", len(symbols), "intervals", iu.cfg.Intervals)

	var ingested, skipped, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(iu.cfg.Concurrency)

	for _, s := range symbols {
		s := s
		for _, interval := range iu.cfg.Intervals {
			interval := interval
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				wasSkipped, err := iu.ingestOne(gctx, s, interval)
				switch {
				case err != nil && gctx.Err() != nil:
					return gctx.Err()
				case err != nil:
					failed.Add(1)
					logger.Error("failed to ingest data", "symbol", s, "interval", interval, "error", err)
				case wasSkipped:
					skipped.Add(1)
					logger.Debug("target date not reached, skipping", "symbol", s, "interval", interval)
				default:
					ingested.Add(1)
				}
				return nil
			})
		}
	}
	err := g.Wait()

	report.Ingested, report.Skipped, report.Failed = ingested.Load(), skipped.Load(), failed.Load()
	logger.Info("ingest finished", "ingested", report.Ingested, "skipped", report.Skipped, "failed", report.Failed)
	return report, err
}
