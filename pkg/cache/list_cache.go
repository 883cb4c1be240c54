// Package cache keeps serialized read models in Redis.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Invalidator drops every cached entry it owns.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// ListCache stores JSON encoded listings under a namespace. A nil *ListCache
// or one without a Redis client is valid and never caches.
type ListCache struct {
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// NewListCache creates a cache for namespace. If ttl is 0, it defaults to 5 minutes.
func NewListCache(rdb *redis.Client, ttl time.Duration, namespace string) *ListCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ListCache{
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

func (c *ListCache) enabled() bool {
	return c != nil && c.rdb != nil
}

// Key joins parts below the cache namespace.
func (c *ListCache) Key(parts ...string) string {
	ns := ""
	if c != nil {
		ns = c.namespace
	}
	escaped := make([]string, 0, len(parts)+1)
	escaped = append(escaped, ns)
	for _, p := range parts {
		escaped = append(escaped, safe(p))
	}
	return strings.Join(escaped, ":")
}

// Remember returns the value cached at key, or calls load and caches its result.
// Redis failures never fail the call; they only bypass the cache.
func Remember[T any](ctx context.Context, c *ListCache, key string, load func(context.Context) (T, error)) (T, error) {
	if !c.enabled() {
		return load(ctx)
	}

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out T
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	} else if err != nil && err != redis.Nil {
		logrus.WithError(err).WithField("key", key).Warn("cache read failed")
	}

	out, err := load(ctx)
	if err != nil {
		return out, err
	}

	if b, err := json.Marshal(out); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
			logrus.WithError(err).WithField("key", key).Warn("cache write failed")
		}
	}

	return out, nil
}

// Invalidate deletes every key in the namespace using SCAN.
func (c *ListCache) Invalidate(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}

	pattern := c.namespace + ":*"
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return fmt.Errorf("scan %s: %w", pattern, err)
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("delete %s: %w", pattern, err)
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// InvalidateAll runs every invalidator, logging instead of failing: a stale
// listing expires on its own after the TTL.
func InvalidateAll(ctx context.Context, invalidators ...Invalidator) {
	for _, inv := range invalidators {
		if inv == nil {
			continue
		}
		if err := inv.Invalidate(ctx); err != nil {
			logrus.WithError(err).Warn("cache invalidation failed")
		}
	}
}

func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
