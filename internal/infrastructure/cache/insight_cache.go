package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultInsightTTL is how long a generated insight stays served from
// cache before the provider is consulted again.
const DefaultInsightTTL = 6 * time.Hour

// InsightCache caches rendered AI insight payloads keyed by page type
// plus the optional owner/property scope.
type InsightCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, payload string)
	Invalidate(ctx context.Context, key string)
}

// InsightKey builds the cache key for one insight scope
func InsightKey(page string, ownerID, propertyID *uuid.UUID) string {
	parts := []string{"insight", page}
	if ownerID != nil {
		parts = append(parts, "owner", ownerID.String())
	}
	if propertyID != nil {
		parts = append(parts, "property", propertyID.String())
	}
	return strings.Join(parts, ":")
}

// RedisInsightCache is the Redis-backed insight cache
type RedisInsightCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisInsightCache creates a Redis-backed insight cache
func NewRedisInsightCache(client *redis.Client, ttl time.Duration) *RedisInsightCache {
	if ttl <= 0 {
		ttl = DefaultInsightTTL
	}
	return &RedisInsightCache{client: client, ttl: ttl}
}

// Get loads a cached payload. Redis failures report a miss.
func (c *RedisInsightCache) Get(ctx context.Context, key string) (string, bool) {
	payload, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return payload, true
}

// Set stores a payload with the configured TTL
func (c *RedisInsightCache) Set(ctx context.Context, key, payload string) {
	_ = c.client.Set(ctx, key, payload, c.ttl).Err()
}

// Invalidate drops one cached payload
func (c *RedisInsightCache) Invalidate(ctx context.Context, key string) {
	_ = c.client.Del(ctx, key).Err()
}

type memoryInsightEntry struct {
	payload   string
	expiresAt time.Time
}

// MemoryInsightCache is a process-local insight cache
type MemoryInsightCache struct {
	mu      sync.RWMutex
	entries map[string]memoryInsightEntry
	ttl     time.Duration
}

// NewMemoryInsightCache creates an in-memory insight cache
func NewMemoryInsightCache(ttl time.Duration) *MemoryInsightCache {
	if ttl <= 0 {
		ttl = DefaultInsightTTL
	}
	return &MemoryInsightCache{
		entries: make(map[string]memoryInsightEntry),
		ttl:     ttl,
	}
}

// Get loads a cached payload if it has not expired
func (c *MemoryInsightCache) Get(ctx context.Context, key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return "", false
	}
	return entry.payload, true
}

// Set stores a payload with the configured TTL
func (c *MemoryInsightCache) Set(ctx context.Context, key, payload string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryInsightEntry{
		payload:   payload,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Invalidate drops one cached payload
func (c *MemoryInsightCache) Invalidate(ctx context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

var (
	_ InsightCache = (*RedisInsightCache)(nil)
	_ InsightCache = (*MemoryInsightCache)(nil)
)
