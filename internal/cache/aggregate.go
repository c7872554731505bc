// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// aggregate.go provides a Valkey-backed cache for public aggregate reads.
// A published department, doctor, or gallery loaded by slug is stored as
// JSON so repeat visits skip the projection queries. Every successful save
// or delete of an aggregate invalidates its slug.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// aggregateKeyPrefix is the Valkey key prefix for cached aggregates.
	aggregateKeyPrefix = "aggregate:"

	// DefaultAggregateTTL is how long a projected aggregate stays cached.
	DefaultAggregateTTL = 5 * time.Minute
)

// AggregateCache manages projected-aggregate JSON caching in Valkey.
type AggregateCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAggregateCache creates a new aggregate cache backed by the given
// Valkey client.
func NewAggregateCache(client *redis.Client, ttl time.Duration) *AggregateCache {
	if ttl == 0 {
		ttl = DefaultAggregateTTL
	}
	return &AggregateCache{client: client, ttl: ttl}
}

// Key builds the cache key for one aggregate kind and slug, e.g.
// Key("departments", "cardiology").
func Key(kind, slug string) string {
	return fmt.Sprintf("%s/%s", kind, slug)
}

// Get retrieves cached JSON for an aggregate key. Returns false on miss.
func (ac *AggregateCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := ac.client.Get(ctx, aggregateKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("aggregate cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("aggregate cache hit", "key", key)
	return val, true
}

// Set stores projected JSON for an aggregate key with the configured TTL.
func (ac *AggregateCache) Set(ctx context.Context, key string, body []byte) {
	if err := ac.client.Set(ctx, aggregateKeyPrefix+key, body, ac.ttl).Err(); err != nil {
		slog.Warn("aggregate cache set error", "key", key, "error", err)
	}
}

// Invalidate removes one aggregate from the cache after a save or delete.
func (ac *AggregateCache) Invalidate(ctx context.Context, key string) {
	if err := ac.client.Del(ctx, aggregateKeyPrefix+key).Err(); err != nil {
		slog.Warn("aggregate cache invalidate error", "key", key, "error", err)
	}
	slog.Debug("aggregate cache invalidated", "key", key)
}

// InvalidateAll removes every cached aggregate by scanning for the prefix.
func (ac *AggregateCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := ac.client.Scan(ctx, cursor, aggregateKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("aggregate cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := ac.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("aggregate cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("aggregate cache fully cleared", "deleted", deleted)
	}
}
