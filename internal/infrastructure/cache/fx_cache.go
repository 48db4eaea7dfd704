package cache

import (
	"context"
	"sync"
	"time"

	"github.com/pms/backend/internal/domain/finance"
	"github.com/pms/backend/internal/domain/shared/valueobject"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// DefaultFXTTL bounds how stale a cached rate snapshot may get
const DefaultFXTTL = 10 * time.Minute

// RateCache caches the FX rate table between conversions so metric
// aggregation does not hit the rates table per booking.
type RateCache interface {
	Get(ctx context.Context) (finance.RateTable, bool)
	Set(ctx context.Context, table finance.RateTable)
	Invalidate(ctx context.Context)
}

// RedisRateCache stores the rate table as a Redis hash
type RedisRateCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisRateCache creates a Redis-backed rate cache
func NewRedisRateCache(client *redis.Client, ttl time.Duration) *RedisRateCache {
	if ttl <= 0 {
		ttl = DefaultFXTTL
	}
	return &RedisRateCache{
		client: client,
		key:    "fx:rates",
		ttl:    ttl,
	}
}

// Get loads the cached rate table. A miss or a Redis failure both
// report absent; callers fall back to the repository.
func (c *RedisRateCache) Get(ctx context.Context) (finance.RateTable, bool) {
	raw, err := c.client.HGetAll(ctx, c.key).Result()
	if err != nil || len(raw) == 0 {
		return nil, false
	}

	table := make(finance.RateTable, len(raw))
	for cur, val := range raw {
		rate, err := decimal.NewFromString(val)
		if err != nil {
			return nil, false
		}
		table[valueobject.Currency(cur)] = rate
	}
	return table, true
}

// Set replaces the cached rate table
func (c *RedisRateCache) Set(ctx context.Context, table finance.RateTable) {
	if len(table) == 0 {
		return
	}

	fields := make(map[string]interface{}, len(table))
	for cur, rate := range table {
		fields[string(cur)] = rate.String()
	}

	pipe := c.client.TxPipeline()
	pipe.Del(ctx, c.key)
	pipe.HSet(ctx, c.key, fields)
	pipe.Expire(ctx, c.key, c.ttl)
	_, _ = pipe.Exec(ctx)
}

// Invalidate drops the cached table
func (c *RedisRateCache) Invalidate(ctx context.Context) {
	_ = c.client.Del(ctx, c.key).Err()
}

// MemoryRateCache is a process-local rate cache used in tests and
// single-instance deployments without Redis.
type MemoryRateCache struct {
	mu        sync.RWMutex
	table     finance.RateTable
	ttl       time.Duration
	expiresAt time.Time
}

// NewMemoryRateCache creates an in-memory rate cache
func NewMemoryRateCache(ttl time.Duration) *MemoryRateCache {
	if ttl <= 0 {
		ttl = DefaultFXTTL
	}
	return &MemoryRateCache{ttl: ttl}
}

// Get loads the cached table if it has not expired
func (c *MemoryRateCache) Get(ctx context.Context) (finance.RateTable, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.table == nil || time.Now().After(c.expiresAt) {
		return nil, false
	}

	copied := make(finance.RateTable, len(c.table))
	for k, v := range c.table {
		copied[k] = v
	}
	return copied, true
}

// Set replaces the cached table
func (c *MemoryRateCache) Set(ctx context.Context, table finance.RateTable) {
	c.mu.Lock()
	defer c.mu.Unlock()

	copied := make(finance.RateTable, len(table))
	for k, v := range table {
		copied[k] = v
	}
	c.table = copied
	c.expiresAt = time.Now().Add(c.ttl)
}

// Invalidate drops the cached table
func (c *MemoryRateCache) Invalidate(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.table = nil
}

var (
	_ RateCache = (*RedisRateCache)(nil)
	_ RateCache = (*MemoryRateCache)(nil)
)
