package di

import (
	"context"

	candleentity "finfetcher/internal/feature/candles/domain/entity"
	candleusecase "finfetcher/internal/feature/candles/usecase"
	symbolentity "finfetcher/internal/feature/symbollist/domain/entity"
)

// SymbolLookup is the part of the symbol registry used for metadata.
type SymbolLookup interface {
	Lookup(ctx context.Context, code string) (symbolentity.Symbol, error)
}

// registryMetadata answers metadata queries from the local symbol registry.
type registryMetadata struct {
	lookup SymbolLookup
}

var _ candleusecase.SymbolMetadataProvider = (*registryMetadata)(nil)

// NewRegistryMetadata adapts the symbol registry to SymbolMetadataProvider.
func NewRegistryMetadata(lookup SymbolLookup) candleusecase.SymbolMetadataProvider {
	return &registryMetadata{lookup: lookup}
}

func (r *registryMetadata) GetSymbolInfo(ctx context.Context, symbol string) (candleentity.SymbolInfo, error) {
	s, err := r.lookup.Lookup(ctx, symbol)
	if err != nil {
		return candleentity.SymbolInfo{}, err
	}
	return candleentity.SymbolInfo{Symbol: s.Code, AssetType: s.AssetType, Timezone: s.Timezone}, nil
}
