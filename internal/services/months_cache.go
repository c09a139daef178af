package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/yuchialin/moodjar-backend/internal/database"
)

const (
	// monthIndexKeyPrefix is the Redis key prefix for cached month indexes.
	monthIndexKeyPrefix = "months:"
	// DefaultMonthIndexTTL keeps the cached index fresh enough that a new
	// month shows up shortly after the first entry of the month.
	DefaultMonthIndexTTL = 10 * time.Minute
	// MaxMonthIndexTTL caps configured TTLs.
	MaxMonthIndexTTL = time.Hour
)

// MonthIndexCache caches each owner's month index in Redis so that the
// bounded date-key scan does not run on every sidebar render. Invalidated
// on every create and delete.
type MonthIndexCache struct {
	TTL time.Duration
}

func NewMonthIndexCache(ttl time.Duration) *MonthIndexCache {
	if ttl <= 0 {
		ttl = DefaultMonthIndexTTL
	}
	if ttl > MaxMonthIndexTTL {
		ttl = MaxMonthIndexTTL
	}
	return &MonthIndexCache{TTL: ttl}
}

// Get returns the cached month index for the owner, with a hit flag.
// A Redis miss or error is reported as a miss, never a failure.
func (c *MonthIndexCache) Get(ctx context.Context, ownerID string) ([]string, bool) {
	val, err := database.RedisClient.Get(ctx, monthIndexKeyPrefix+ownerID).Result()
	if err != nil {
		return nil, false
	}

	var months []string
	if err := json.Unmarshal([]byte(val), &months); err != nil {
		return nil, false
	}
	return months, true
}

// Set stores the month index for the owner. Failures are ignored; the
// cache is an optimization, not a source of truth.
func (c *MonthIndexCache) Set(ctx context.Context, ownerID string, months []string) {
	data, err := json.Marshal(months)
	if err != nil {
		return
	}
	_ = database.RedisClient.Set(ctx, monthIndexKeyPrefix+ownerID, data, c.TTL).Err()
}

// Invalidate drops the cached index after a write changes the entry set.
func (c *MonthIndexCache) Invalidate(ctx context.Context, ownerID string) {
	_ = database.RedisClient.Del(ctx, monthIndexKeyPrefix+ownerID).Err()
}
