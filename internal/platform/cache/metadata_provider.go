package cache

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"finfetcher/internal/feature/candles/domain/entity"
	"finfetcher/internal/feature/candles/usecase"
)

// CachingMetadataProvider remembers symbol metadata so repeated fetches of
// the same symbol skip the quote lookup. Failures are never cached.
type CachingMetadataProvider struct {
	inner     usecase.SymbolMetadataProvider
	rdb       redis.Cmdable
	ttl       time.Duration
	namespace string
}

var _ usecase.SymbolMetadataProvider = (*CachingMetadataProvider)(nil)

// NewCachingMetadataProvider defaults ttl to 24 hours.
func NewCachingMetadataProvider(rdb redis.Cmdable, inner usecase.SymbolMetadataProvider, ttl time.Duration) *CachingMetadataProvider {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CachingMetadataProvider{inner: inner, rdb: rdb, ttl: ttl, namespace: "symbolinfo"}
}

func (c *CachingMetadataProvider) GetSymbolInfo(ctx context.Context, symbol string) (entity.SymbolInfo, error) {
	if c.rdb == nil {
		return c.inner.GetSymbolInfo(ctx, symbol)
	}
	key := c.namespace + ":" + keyPart(strings.ToUpper(symbol))

	var info entity.SymbolInfo
	if getJSON(ctx, c.rdb, key, &info) && info.AssetType != "" {
		return info, nil
	}
	info, err := c.inner.GetSymbolInfo(ctx, symbol)
	if err != nil {
		return entity.SymbolInfo{}, err
	}
	if info.AssetType != "" {
		setJSON(ctx, c.rdb, key, info, c.ttl)
	}
	return info, nil
}
