package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finfetcher/internal/feature/candles/domain"
	"finfetcher/internal/feature/candles/domain/cutoff"
	"finfetcher/internal/feature/candles/domain/entity"
)

type mockHistoryFetcher struct {
	FetchFunc  func(ctx context.Context, symbol, period, interval string, table cutoff.Table) (entity.FetchResult, error)
	FetchCalls int
}

func (m *mockHistoryFetcher) Fetch(ctx context.Context, symbol, period, interval string, table cutoff.Table) (entity.FetchResult, error) {
	m.FetchCalls++
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, symbol, period, interval, table)
	}
	return entity.FetchResult{}, errors.New("FetchFunc is not implemented")
}

func TestNewDataFetcher(t *testing.T) {
	t.Run("upper-cases symbol", func(t *testing.T) {
		f, err := NewDataFetcher(" aapl ", nil, &mockHistoryFetcher{})
		require.NoError(t, err)
		assert.Equal(t, "AAPL", f.Symbol())
		assert.Equal(t, cutoff.Builtin, f.Table())
	})

	t.Run("invalid overrides fail before any fetch", func(t *testing.T) {
		fetcher := &mockHistoryFetcher{}
		_, err := NewDataFetcher("AAPL", cutoff.Overrides{
			"EQUITY": {Default: &cutoff.TimeOfDay{Hour: 24}},
		}, fetcher)
		require.ErrorIs(t, err, domain.ErrInvalidConfig)
		assert.Zero(t, fetcher.FetchCalls)
	})

	t.Run("empty symbol", func(t *testing.T) {
		_, err := NewDataFetcher("  ", nil, &mockHistoryFetcher{})
		require.ErrorIs(t, err, domain.ErrInvalidArgument)
	})

	t.Run("overrides do not leak into builtin", func(t *testing.T) {
		f, err := NewDataFetcher("AAPL", cutoff.Overrides{
			"EQUITY": {Default: &cutoff.TimeOfDay{Hour: 9, Minute: 0}},
		}, &mockHistoryFetcher{})
		require.NoError(t, err)

		rule, _ := f.Table().Lookup(cutoff.Equity)
		_, close := rule.Resolve("America/Sao_Paulo")
		assert.Equal(t, cutoff.TimeOfDay{Hour: 9}, close)

		rule, _ = cutoff.Builtin.Lookup(cutoff.Equity)
		_, close = rule.Resolve("America/Sao_Paulo")
		assert.Equal(t, cutoff.TimeOfDay{Hour: 18}, close)
	})
}

func TestDataFetcher_GetData(t *testing.T) {
	target := civil.Date{Year: 2024, Month: time.March, Day: 18}
	candles := []entity.Candle{{Symbol: "AAPL", Interval: "1d", Time: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), Close: 172.6}}

	tests := []struct {
		name       string
		period     string
		interval   string
		fetchErr   error
		wantPeriod string
		wantIntv   string
		wantErr    error
		wantTarget bool
	}{
		{name: "defaults", wantPeriod: "4y", wantIntv: "1d", wantTarget: true},
		{name: "explicit arguments", period: "6mo", interval: "1wk", wantPeriod: "6mo", wantIntv: "1wk", wantTarget: true},
		{name: "ticker not found passes through", fetchErr: domain.ErrTickerNotFound, wantPeriod: "4y", wantIntv: "1d", wantErr: domain.ErrTickerNotFound},
		{name: "data empty passes through", fetchErr: domain.ErrDataEmpty, wantPeriod: "4y", wantIntv: "1d", wantErr: domain.ErrDataEmpty},
		{name: "connection failure passes through", fetchErr: domain.ErrConnectionFailure, wantPeriod: "4y", wantIntv: "1d", wantErr: domain.ErrConnectionFailure},
		{name: "unknown error is wrapped", fetchErr: errors.New("boom"), wantPeriod: "4y", wantIntv: "1d", wantErr: domain.ErrUnexpected},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &mockHistoryFetcher{
				FetchFunc: func(_ context.Context, symbol, period, interval string, _ cutoff.Table) (entity.FetchResult, error) {
					assert.Equal(t, "AAPL", symbol)
					assert.Equal(t, tt.wantPeriod, period)
					assert.Equal(t, tt.wantIntv, interval)
					if tt.fetchErr != nil {
						return entity.FetchResult{}, tt.fetchErr
					}
					return entity.FetchResult{Candles: candles, TargetDate: target}, nil
				},
			}
			f, err := NewDataFetcher("aapl", nil, fetcher)
			require.NoError(t, err)

			got, err := f.GetData(context.Background(), tt.period, tt.interval)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, candles, got)
			}

			date, ok := f.TargetDate()
			assert.Equal(t, tt.wantTarget, ok)
			if tt.wantTarget {
				assert.Equal(t, target, date)
			}
		})
	}
}

func TestDataFetcher_UnexpectedErrorKeepsCause(t *testing.T) {
	cause := errors.New("decoder exploded")
	fetcher := &mockHistoryFetcher{
		FetchFunc: func(context.Context, string, string, string, cutoff.Table) (entity.FetchResult, error) {
			return entity.FetchResult{}, cause
		},
	}
	f, err := NewDataFetcher("msft", nil, fetcher)
	require.NoError(t, err)

	_, err = f.GetData(context.Background(), "", "")
	require.ErrorIs(t, err, domain.ErrUnexpected)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "MSFT")
}
