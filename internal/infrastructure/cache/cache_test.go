package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/finance"
	"github.com/pms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRateCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryRateCache(time.Minute)

	_, ok := c.Get(ctx)
	assert.False(t, ok, "empty cache misses")

	table := finance.RateTable{valueobject.EUR: decimal.NewFromFloat(1.08)}
	c.Set(ctx, table)

	got, ok := c.Get(ctx)
	require.True(t, ok)
	assert.True(t, got[valueobject.EUR].Equal(decimal.NewFromFloat(1.08)))

	// Mutating the returned copy must not touch the cache
	got[valueobject.EUR] = decimal.Zero
	again, ok := c.Get(ctx)
	require.True(t, ok)
	assert.True(t, again[valueobject.EUR].Equal(decimal.NewFromFloat(1.08)))

	c.Invalidate(ctx)
	_, ok = c.Get(ctx)
	assert.False(t, ok)
}

func TestMemoryRateCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryRateCache(time.Nanosecond)
	c.Set(ctx, finance.RateTable{valueobject.EUR: decimal.NewFromInt(1)})

	time.Sleep(time.Millisecond)
	_, ok := c.Get(ctx)
	assert.False(t, ok, "expired entry misses")
}

func TestMemoryInsightCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryInsightCache(time.Minute)

	key := InsightKey("dashboard", nil, nil)
	_, ok := c.Get(ctx, key)
	assert.False(t, ok)

	c.Set(ctx, key, `{"summary":"s"}`)
	payload, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.JSONEq(t, `{"summary":"s"}`, payload)

	c.Invalidate(ctx, key)
	_, ok = c.Get(ctx, key)
	assert.False(t, ok)
}

func TestInsightKeyScoping(t *testing.T) {
	ownerID := uuid.New()
	propertyID := uuid.New()

	assert.Equal(t, "insight:dashboard", InsightKey("dashboard", nil, nil))
	assert.Equal(t, "insight:owner:owner:"+ownerID.String(), InsightKey("owner", &ownerID, nil))
	assert.NotEqual(t,
		InsightKey("property", nil, &propertyID),
		InsightKey("property", &ownerID, &propertyID),
		"owner scope changes the key")
}
