// Package cache provides Redis-backed decorators for the candles feature.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// getJSON loads key into dst. A miss, a Redis error and a corrupt entry all
// report false; corrupt entries are removed.
func getJSON(ctx context.Context, rdb redis.Cmdable, key string, dst any) bool {
	b, err := rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		if err != nil && !errors.Is(err, redis.Nil) {
			slog.Warn("cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		slog.Warn("dropping corrupt cache entry", "key", key, "error", err)
		_ = rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

// setJSON stores v under key. Failures are logged and otherwise ignored.
func setJSON(ctx context.Context, rdb redis.Cmdable, key string, v any, ttl time.Duration) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := rdb.Set(ctx, key, b, ttl).Err(); err != nil {
		slog.Warn("cache write failed", "key", key, "error", err)
	}
}

// deleteByPattern removes every key matching pattern using SCAN.
func deleteByPattern(ctx context.Context, rdb redis.Cmdable, pattern string) error {
	var cursor uint64
	for {
		keys, next, err := rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if cursor = next; cursor == 0 {
			return nil
		}
	}
}

// keyPart makes s safe to embed between ':' separators.
func keyPart(s string) string {
	return strings.NewReplacer(" ", "_", ":", "_").Replace(s)
}
