package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"cloud.google.com/go/civil"

	"finfetcher/internal/feature/candles/domain"
	"finfetcher/internal/feature/candles/domain/cutoff"
	"finfetcher/internal/feature/candles/domain/entity"
)

// SymbolMetadataProvider resolves asset type and exchange timezone for a symbol.
type SymbolMetadataProvider interface {
	GetSymbolInfo(ctx context.Context, symbol string) (entity.SymbolInfo, error)
}

// MarketRepository downloads historical bars from the upstream provider.
// It may return an empty slice with a nil error when the provider has no data.
type MarketRepository interface {
	GetHistory(ctx context.Context, symbol string, period domain.Period, interval string) ([]entity.Candle, error)
}

// RetryPolicy bounds the download loop.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
	// Sleep waits between attempts. It returns early with ctx.Err() when ctx is done.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultRetryPolicy tries ten times, two seconds apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 10, Delay: 2 * time.Second, Sleep: SleepContext}
}

// SleepContext waits for d or until ctx is done.
func SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// FetchUsecase downloads a series, drops the unfinished bar and computes the
// next target date.
type FetchUsecase struct {
	meta    SymbolMetadataProvider
	market  MarketRepository
	trimmer *Trimmer
	retry   RetryPolicy
	logger  *slog.Logger
}

// NewFetchUsecase wires a FetchUsecase. Zero fields of retry take the defaults.
func NewFetchUsecase(meta SymbolMetadataProvider, market MarketRepository, trimmer *Trimmer, retry RetryPolicy) *FetchUsecase {
	def := DefaultRetryPolicy()
	if retry.MaxAttempts <= 0 {
		retry.MaxAttempts = def.MaxAttempts
	}
	if retry.Delay < 0 {
		retry.Delay = def.Delay
	}
	if retry.Sleep == nil {
		retry.Sleep = def.Sleep
	}
	if trimmer == nil {
		trimmer = NewTrimmer(nil, nil)
	}
	return &FetchUsecase{meta: meta, market: market, trimmer: trimmer, retry: retry, logger: trimmer.logger}
}

// Fetch returns the completed bars of symbol together with the date on which
// the next completed bar is expected.
func (u *FetchUsecase) Fetch(ctx context.Context, symbol, period, interval string, table cutoff.Table) (entity.FetchResult, error) {
	p, err := domain.ParsePeriod(period)
	if err != nil {
		return entity.FetchResult{}, err
	}
	if err := domain.ValidateInterval(interval); err != nil {
		return entity.FetchResult{}, err
	}

	info, err := u.meta.GetSymbolInfo(ctx, symbol)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return entity.FetchResult{}, ctxErr
		}
		u.logger.Error("could not retrieve ticker info", "symbol", symbol, "error", err)
		return entity.FetchResult{}, fmt.Errorf("%w: ticker %q information not found or accessible: %w", domain.ErrTickerNotFound, symbol, err)
	}
	assetType := cutoff.ParseAssetType(info.AssetType)
	u.logger.Debug("resolved ticker info", "symbol", symbol, "asset_type", assetType, "timezone", info.Timezone)

	raw, err := u.download(ctx, symbol, p, interval)
	if err != nil {
		return entity.FetchResult{}, err
	}

	loc := u.trimmer.location(info.Timezone)
	series := normalise(raw, symbol, interval, loc)
	lastRawDate := series[len(series)-1].Date()

	series = u.trimmer.trim(series, assetType, lastRawDate, info.Timezone, loc, table)
	if len(series) == 0 {
		return entity.FetchResult{}, fmt.Errorf("%w: data for %s is empty after filtering unfinished days", domain.ErrDataEmpty, symbol)
	}

	last := series[len(series)-1].Date()
	u.logger.Info("fetched history", "symbol", symbol, "from", series[0].Date().String(), "to", last.String(), "bars", len(series))

	return entity.FetchResult{
		Candles:    series,
		TargetDate: NextTargetDate(last, assetType),
		AssetType:  string(assetType),
		Timezone:   info.Timezone,
	}, nil
}

// download runs the retry loop. The outcome of the last attempt decides
// between a connection failure and an empty result.
func (u *FetchUsecase) download(ctx context.Context, symbol string, period domain.Period, interval string) ([]entity.Candle, error) {
	attempts := u.retry.MaxAttempts
	var lastErr error
	for i := 1; i <= attempts; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		bars, err := u.market.GetHistory(ctx, symbol, period, interval)
		if err == nil && len(bars) > 0 {
			return bars, nil
		}
		lastErr = err
		if err != nil {
			u.logger.Debug("history download failed, retrying", "symbol", symbol, "attempt", i, "max_attempts", attempts, "error", err)
		} else {
			u.logger.Debug("history download returned no data, retrying", "symbol", symbol, "attempt", i, "max_attempts", attempts)
		}
		if i < attempts {
			if err := u.retry.Sleep(ctx, u.retry.Delay); err != nil {
				return nil, err
			}
		}
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: failed to download data for %s after %d attempts: %w", domain.ErrConnectionFailure, symbol, attempts, lastErr)
	}
	return nil, fmt.Errorf("%w: no historical data found for symbol %q (period=%s)", domain.ErrDataEmpty, symbol, period)
}

// normalise maps bar timestamps to exchange-local calendar dates, sorts them
// and keeps the last bar seen for each date.
func normalise(raw []entity.Candle, symbol, interval string, loc *time.Location) []entity.Candle {
	out := make([]entity.Candle, len(raw))
	for i, c := range raw {
		c.Symbol = symbol
		c.Interval = interval
		c.Time = civil.DateOf(c.Time.In(loc)).In(time.UTC)
		out[i] = c
	}
	slices.SortStableFunc(out, func(a, b entity.Candle) int { return a.Time.Compare(b.Time) })

	deduped := out[:0]
	for _, c := range out {
		if n := len(deduped); n > 0 && deduped[n-1].Time.Equal(c.Time) {
			deduped[n-1] = c
			continue
		}
		deduped = append(deduped, c)
	}
	return deduped
}

// NextTargetDate returns the day after last for crypto and the next weekday
// after last for everything else. Holidays are not considered.
func NextTargetDate(last civil.Date, assetType cutoff.AssetType) civil.Date {
	next := last.AddDays(1)
	if assetType == cutoff.Cryptocurrency {
		return next
	}
	for {
		switch next.In(time.UTC).Weekday() {
		case time.Saturday, time.Sunday:
			next = next.AddDays(1)
		default:
			return next
		}
	}
}

// isKnownOrCanceled reports errors that callers are expected to branch on.
func isKnownOrCanceled(err error) bool {
	return domain.IsKnown(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
