// Package usecase implements fetching, trimming and serving candle data.
package usecase

import (
	"context"
	"strings"

	"finfetcher/internal/feature/candles/domain"
	"finfetcher/internal/feature/candles/domain/cutoff"
	"finfetcher/internal/feature/candles/domain/entity"
)

const (
	// DefaultOutputSize is the number of stored candles returned when none is requested.
	DefaultOutputSize = 200
	// MaxOutputSize caps the number of stored candles per request.
	MaxOutputSize = 5000
)

// CandleRepository abstracts the candle store. Interfaces are defined on the
// consumer side, following Go convention.
type CandleRepository interface {
	// Find returns up to outputsize of the newest candles in ascending time order.
	Find(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error)
	UpsertBatch(ctx context.Context, candles []entity.Candle) error
}

// CandlesUsecase serves stored candles and on-demand trimmed fetches.
type CandlesUsecase struct {
	candle    CandleRepository
	fetch     HistoryFetcher
	overrides cutoff.Overrides
}

// NewCandlesUsecase returns a CandlesUsecase. overrides are applied to live
// fetches whose caller does not supply its own.
func NewCandlesUsecase(candle CandleRepository, fetch HistoryFetcher, overrides cutoff.Overrides) *CandlesUsecase {
	return &CandlesUsecase{candle: candle, fetch: fetch, overrides: overrides}
}

// GetCandles returns stored candles for symbol and interval.
func (cu *CandlesUsecase) GetCandles(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error) {
	if interval == "" {
		interval = domain.DefaultInterval
	}
	if err := domain.ValidateInterval(interval); err != nil {
		return nil, err
	}
	if outputsize <= 0 || outputsize > MaxOutputSize {
		outputsize = DefaultOutputSize
	}

	return cu.candle.Find(ctx, strings.ToUpper(symbol), interval, outputsize)
}

// FetchLive downloads and trims the series for symbol right now. A nil
// overrides uses the configured defaults.
func (cu *CandlesUsecase) FetchLive(ctx context.Context, symbol, period, interval string, overrides cutoff.Overrides) (entity.FetchResult, error) {
	if overrides == nil {
		overrides = cu.overrides
	}
	f, err := NewDataFetcher(symbol, overrides, cu.fetch)
	if err != nil {
		return entity.FetchResult{}, err
	}
	return f.Fetch(ctx, period, interval)
}
