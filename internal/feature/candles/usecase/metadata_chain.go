package usecase

import (
	"context"
	"errors"
	"log/slog"

	"finfetcher/internal/feature/candles/domain/entity"
)

// ChainMetadataProvider asks each provider in turn and returns the first
// answer that carries an asset type. When providers answer but none knows the
// asset type, the first answer is returned as is and the caller applies its
// EQUITY fallback. It fails only when every provider errors.
type ChainMetadataProvider struct {
	providers []SymbolMetadataProvider
}

var _ SymbolMetadataProvider = (*ChainMetadataProvider)(nil)

// NewChainMetadataProvider skips nil providers.
func NewChainMetadataProvider(providers ...SymbolMetadataProvider) *ChainMetadataProvider {
	c := &ChainMetadataProvider{}
	for _, p := range providers {
		if p != nil {
			c.providers = append(c.providers, p)
		}
	}
	return c
}

var errNoMetadataProvider = errors.New("no metadata provider configured")

func (c *ChainMetadataProvider) GetSymbolInfo(ctx context.Context, symbol string) (entity.SymbolInfo, error) {
	if len(c.providers) == 0 {
		return entity.SymbolInfo{}, errNoMetadataProvider
	}
	var (
		errs     []error
		partial  entity.SymbolInfo
		answered bool
	)
	for i, p := range c.providers {
		info, err := p.GetSymbolInfo(ctx, symbol)
		if err == nil && info.AssetType != "" {
			return info, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return entity.SymbolInfo{}, ctxErr
		}
		if err != nil {
			slog.Debug("metadata provider miss", "symbol", symbol, "provider", i, "error", err)
			errs = append(errs, err)
			continue
		}
		slog.Debug("metadata provider returned no asset type", "symbol", symbol, "provider", i)
		if !answered {
			partial, answered = info, true
		}
	}
	if answered {
		slog.Warn("no metadata provider reported an asset type", "symbol", symbol, "timezone", partial.Timezone)
		return partial, nil
	}
	return entity.SymbolInfo{}, errors.Join(errs...)
}
