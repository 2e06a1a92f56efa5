package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/monther20/bassita/internal/config"
	"github.com/redis/go-redis/v9"
)

// Cache is the process-wide entity cache. Values are JSON; keys come from
// the factories in keys.go.
type Cache struct {
	client    *Client
	entityTTL time.Duration
	listTTL   time.Duration
}

// NewCache creates a cache on top of a Redis client
func NewCache(client *Client, cfg config.CacheConfig) *Cache {
	return &Cache{
		client:    client,
		entityTTL: cfg.EntityTTL,
		listTTL:   cfg.ListTTL,
	}
}

// EntityTTL returns the TTL for single-entity values.
func (c *Cache) EntityTTL() time.Duration { return c.entityTTL }

// ListTTL returns the TTL for list values.
func (c *Cache) ListTTL() time.Duration { return c.listTTL }

// Get unmarshals the cached value into dest. Returns false on a miss.
func (c *Cache) Get(ctx context.Context, key Key, dest any) (bool, error) {
	data, err := c.client.rdb.Get(ctx, key.String()).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal %s: %w", key, err)
	}
	return true, nil
}

// Set stores val under key with the given TTL.
func (c *Cache) Set(ctx context.Context, key Key, val any, ttl time.Duration) error {
	data, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("cache marshal %s: %w", key, err)
	}
	return c.client.rdb.Set(ctx, key.String(), data, ttl).Err()
}

// GetRaw returns the raw cached bytes and whether the key was present.
// Mutation snapshots use this so rollback can restore the value verbatim.
func (c *Cache) GetRaw(ctx context.Context, key Key) ([]byte, bool, error) {
	data, err := c.client.rdb.Get(ctx, key.String()).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %s: %w", key, err)
	}
	return data, true, nil
}

// SetRaw stores raw bytes under key.
func (c *Cache) SetRaw(ctx context.Context, key Key, data []byte, ttl time.Duration) error {
	return c.client.rdb.Set(ctx, key.String(), data, ttl).Err()
}

// Delete removes the given keys. Deleting an absent key is a no-op, which
// makes repeated invalidation idempotent.
func (c *Cache) Delete(ctx context.Context, keys ...Key) error {
	if len(keys) == 0 {
		return nil
	}
	raw := make([]string, len(keys))
	for i, k := range keys {
		raw[i] = k.String()
	}
	return c.client.rdb.Del(ctx, raw...).Err()
}

// DeleteByPrefix removes every key under the given prefix, returning the
// number of keys deleted.
func (c *Cache) DeleteByPrefix(ctx context.Context, prefix Key) (int64, error) {
	pattern := prefix.Pattern()
	var cursor uint64
	var deleted int64

	for {
		keys, nextCursor, err := c.client.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return deleted, fmt.Errorf("failed to scan keys: %w", err)
		}

		if len(keys) > 0 {
			count, err := c.client.rdb.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, fmt.Errorf("failed to delete keys: %w", err)
			}
			deleted += count
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return deleted, nil
}

// Apply executes an invalidation plan: exact deletes first, then prefix
// sweeps.
func (c *Cache) Apply(ctx context.Context, plan Plan) error {
	if err := c.Delete(ctx, plan.Keys...); err != nil {
		return err
	}
	for _, prefix := range plan.Prefixes {
		if _, err := c.DeleteByPrefix(ctx, prefix); err != nil {
			return err
		}
	}
	return nil
}
