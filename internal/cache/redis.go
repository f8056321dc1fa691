package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Item list cache key, invalidated on any stock mutation
const ItemListKey = "items:list"

// Cache wraps an optional Redis connection. A Cache with no client (or a nil
// Cache) degrades every helper to a no-op, so callers never branch on
// availability.
type Cache struct {
	client *redis.Client
}

// New connects to Redis from REDIS_* environment variables. On failure the
// returned Cache is disabled but still usable, alongside the error.
func New() (*Cache, error) {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return &Cache{}, err
	}
	return &Cache{client: client}, nil
}

// Enabled reports whether a Redis connection is live
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// hashCredentials creates a hash of email+password for cache key
func hashCredentials(email, password string) string {
	h := sha256.New()
	h.Write([]byte(email + ":" + password))
	return "auth:" + hex.EncodeToString(h.Sum(nil))[:32]
}

// GetCachedAuth checks if credentials are cached and valid
func (c *Cache) GetCachedAuth(ctx context.Context, email, password string) (int64, bool) {
	if !c.Enabled() {
		return 0, false
	}
	key := hashCredentials(email, password)
	userID, err := c.client.Get(ctx, key).Int64()
	if err != nil {
		return 0, false
	}
	return userID, true
}

// CacheAuth caches valid credentials for 15 minutes
func (c *Cache) CacheAuth(ctx context.Context, email, password string, userID int64) {
	if !c.Enabled() {
		return
	}
	key := hashCredentials(email, password)
	c.client.Set(ctx, key, userID, 15*time.Minute)
}

// InvalidateAuth removes cached auth for a user (on password change)
func (c *Cache) InvalidateAuth(ctx context.Context, email, password string) {
	if !c.Enabled() {
		return
	}
	key := hashCredentials(email, password)
	c.client.Del(ctx, key)
}

// GetCached returns cached data for a key
func (c *Cache) GetCached(ctx context.Context, key string) ([]byte, bool) {
	if !c.Enabled() {
		return nil, false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetCached stores data with a TTL
func (c *Cache) SetCached(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if !c.Enabled() {
		return
	}
	c.client.Set(ctx, key, data, ttl)
}

// InvalidateKeys removes specific cache keys
func (c *Cache) InvalidateKeys(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}
	c.client.Del(ctx, keys...)
}

// InvalidateItemCaches clears cached item listings after a stock mutation
func (c *Cache) InvalidateItemCaches(ctx context.Context) {
	c.InvalidateKeys(ctx, ItemListKey)
}
