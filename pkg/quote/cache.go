package quote

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/model"
)

const cacheKeyPrefix = "marketpulse:quote:"

// CacheClient is the part of *redis.Client the quote cache uses.
type CacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CachedFetcher serves recent quotes from Redis. Cache failures are logged
// and fall through to the upstream.
type CachedFetcher struct {
	next   Fetcher
	rdb    CacheClient
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedFetcher(next Fetcher, rdb CacheClient, ttl time.Duration, logger *slog.Logger) *CachedFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedFetcher{next: next, rdb: rdb, ttl: ttl, logger: logger.With("component", "quote_cache")}
}

func (c *CachedFetcher) Fetch(ctx context.Context, symbol string) (*model.Quote, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, model.ErrInvalidSymbol
	}
	key := cacheKeyPrefix + symbol

	data, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var q model.Quote
		if err := json.Unmarshal(data, &q); err == nil {
			return &q, nil
		}
		c.logger.Warn("discarding corrupt cache entry", "symbol", symbol)
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("quote cache read failed", "symbol", symbol, "error", err)
	}

	q, err := c.next.Fetch(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(q); err == nil {
		if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("quote cache write failed", "symbol", symbol, "error", err)
		}
	}

	return q, nil
}
