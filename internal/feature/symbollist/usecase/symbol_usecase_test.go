package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finfetcher/internal/feature/symbollist/domain/entity"
	"finfetcher/internal/feature/symbollist/usecase"
)

// mockSymbolRepository is a mock implementation of SymbolRepository.
type mockSymbolRepository struct {
	ListActiveFunc      func(ctx context.Context) ([]entity.Symbol, error)
	ListActiveCodesFunc func(ctx context.Context) ([]string, error)
	FindByCodeFunc      func(ctx context.Context, code string) (entity.Symbol, error)
	UpsertFunc          func(ctx context.Context, s entity.Symbol) error
}

func (m *mockSymbolRepository) ListActive(ctx context.Context) ([]entity.Symbol, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}
	return nil, nil
}

func (m *mockSymbolRepository) ListActiveCodes(ctx context.Context) ([]string, error) {
	if m.ListActiveCodesFunc != nil {
		return m.ListActiveCodesFunc(ctx)
	}
	return nil, nil
}

func (m *mockSymbolRepository) FindByCode(ctx context.Context, code string) (entity.Symbol, error) {
	if m.FindByCodeFunc != nil {
		return m.FindByCodeFunc(ctx, code)
	}
	return entity.Symbol{}, usecase.ErrSymbolNotFound
}

func (m *mockSymbolRepository) Upsert(ctx context.Context, s entity.Symbol) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, s)
	}
	return nil
}

func TestSymbolUsecase_ListActiveSymbols(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		mockListActive  func(ctx context.Context) ([]entity.Symbol, error)
		expectedSymbols []entity.Symbol
		wantErr         bool
		errMsg          string
	}{
		{
			name: "success: returns list of active symbols",
			mockListActive: func(ctx context.Context) ([]entity.Symbol, error) {
				return []entity.Symbol{
					{ID: 1, Code: "AAPL", Name: "Apple", Market: "NASDAQ", IsActive: true, SortKey: 1},
				}, nil
			},
			expectedSymbols: []entity.Symbol{
				{ID: 1, Code: "AAPL", Name: "Apple", Market: "NASDAQ", IsActive: true, SortKey: 1},
			},
		},
		{
			name: "success: returns nil when repository returns nil",
			mockListActive: func(ctx context.Context) ([]entity.Symbol, error) {
				return nil, nil
			},
		},
		{
			name: "failure: repository returns error",
			mockListActive: func(ctx context.Context) ([]entity.Symbol, error) {
				return nil, errors.New("database connection failed")
			},
			wantErr: true,
			errMsg:  "database connection failed",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc := usecase.NewSymbolUsecase(&mockSymbolRepository{ListActiveFunc: tt.mockListActive})

			symbols, err := uc.ListActiveSymbols(context.Background())

			if tt.wantErr {
				assert.EqualError(t, err, tt.errMsg)
				assert.Nil(t, symbols)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedSymbols, symbols)
			}
		})
	}
}

func TestSymbolUsecase_Lookup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		found   entity.Symbol
		findErr error
		wantErr error
	}{
		{name: "success", found: entity.Symbol{Code: "AAPL", AssetType: "EQUITY", Timezone: "America/New_York"}},
		{name: "registered without asset type", found: entity.Symbol{Code: "AAPL"}, wantErr: usecase.ErrSymbolNotFound},
		{name: "not registered", findErr: usecase.ErrSymbolNotFound, wantErr: usecase.ErrSymbolNotFound},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc := usecase.NewSymbolUsecase(&mockSymbolRepository{
				FindByCodeFunc: func(_ context.Context, code string) (entity.Symbol, error) {
					assert.Equal(t, "AAPL", code)
					return tt.found, tt.findErr
				},
			})

			got, err := uc.Lookup(context.Background(), "AAPL")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.found, got)
		})
	}
}

func TestSymbolUsecase_Register(t *testing.T) {
	t.Parallel()

	var saved entity.Symbol
	uc := usecase.NewSymbolUsecase(&mockSymbolRepository{
		UpsertFunc: func(_ context.Context, s entity.Symbol) error {
			saved = s
			return nil
		},
	})

	require.NoError(t, uc.Register(context.Background(), entity.Symbol{Code: " btc-usd ", AssetType: "cryptocurrency", IsActive: true}))
	assert.Equal(t, "BTC-USD", saved.Code)
	assert.Equal(t, "CRYPTOCURRENCY", saved.AssetType)

	assert.Error(t, uc.Register(context.Background(), entity.Symbol{Code: "  "}))
}
