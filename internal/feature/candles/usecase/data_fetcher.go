package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"cloud.google.com/go/civil"

	"finfetcher/internal/feature/candles/domain"
	"finfetcher/internal/feature/candles/domain/cutoff"
	"finfetcher/internal/feature/candles/domain/entity"
)

// HistoryFetcher is the fetch step DataFetcher delegates to. *FetchUsecase implements it.
type HistoryFetcher interface {
	Fetch(ctx context.Context, symbol, period, interval string, table cutoff.Table) (entity.FetchResult, error)
}

var _ HistoryFetcher = (*FetchUsecase)(nil)

// DataFetcher fetches completed bars for one symbol with its own cutoff table.
type DataFetcher struct {
	symbol string
	table  cutoff.Table
	fetch  HistoryFetcher

	mu         sync.RWMutex
	targetDate civil.Date
	hasTarget  bool
}

// NewDataFetcher validates overrides and merges them into the builtin cutoff
// table. It fails with domain.ErrInvalidConfig before any network call.
func NewDataFetcher(symbol string, overrides cutoff.Overrides, fetch HistoryFetcher) (*DataFetcher, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol must not be empty", domain.ErrInvalidArgument)
	}
	table, err := cutoff.Builtin.Merge(overrides)
	if err != nil {
		return nil, err
	}
	return &DataFetcher{symbol: symbol, table: table, fetch: fetch}, nil
}

// Symbol returns the upper-cased symbol.
func (f *DataFetcher) Symbol() string { return f.symbol }

// Table returns the effective cutoff table.
func (f *DataFetcher) Table() cutoff.Table { return f.table }

// GetData fetches the completed bars for period and interval. Empty arguments
// take domain.DefaultPeriod and domain.DefaultInterval.
func (f *DataFetcher) GetData(ctx context.Context, period, interval string) ([]entity.Candle, error) {
	res, err := f.Fetch(ctx, period, interval)
	if err != nil {
		return nil, err
	}
	return res.Candles, nil
}

// Fetch is GetData returning the full result.
func (f *DataFetcher) Fetch(ctx context.Context, period, interval string) (entity.FetchResult, error) {
	if period == "" {
		period = domain.DefaultPeriod
	}
	if interval == "" {
		interval = domain.DefaultInterval
	}

	res, err := f.fetch.Fetch(ctx, f.symbol, period, interval, f.table)
	if err != nil {
		if isKnownOrCanceled(err) {
			return entity.FetchResult{}, err
		}
		return entity.FetchResult{}, fmt.Errorf("%w: fetching %s: %w", domain.ErrUnexpected, f.symbol, err)
	}

	f.mu.Lock()
	f.targetDate = res.TargetDate
	f.hasTarget = true
	f.mu.Unlock()

	return res, nil
}

// TargetDate returns the target date of the last successful fetch.
// ok is false until a fetch has succeeded.
func (f *DataFetcher) TargetDate() (date civil.Date, ok bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.targetDate, f.hasTarget
}
