// Package cache wraps go-redis for the engine's optional result cache.
// Its only user is classifier.RedisCachedClassifier, which stores
// classifier verdicts; emoji analysis results are not cached. Nothing in
// the core requires Redis; it is purely a host-side performance
// collaborator.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Default TTLs per result shape. ClassifierResultTTL is used by
// classifier.RedisCachedClassifier; nothing in this module stores entries
// under EmojiResultTTL.
const (
	ClassifierResultTTL = 6 * time.Hour
	EmojiResultTTL      = 24 * time.Hour
)

// Cache is a thin, prefix-namespaced wrapper around a redis.Client.
type Cache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache connects to url and verifies reachability with a ping.
func NewRedisCache(url, prefix string) (*Cache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &Cache{client: client, prefix: prefix}, nil
}

func (c *Cache) key(parts ...string) string {
	key := parts[0]
	for _, p := range parts[1:] {
		key += ":" + p
	}
	if c.prefix == "" {
		return key
	}
	return c.prefix + ":" + key
}

// GetJSON unmarshals the cached value at key into dest. It returns
// redis.Nil (unwrapped check via errors.Is) on a cache miss.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) error {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// SetJSON marshals value and stores it at key with the given TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}
	return c.client.Set(ctx, c.key(key), data, ttl).Err()
}

// Close releases the underlying connection pool.
func (c *Cache) Close() error {
	return c.client.Close()
}
