package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/studentsdesk/studentsdesk-api/internal/api/metrics"
	"github.com/studentsdesk/studentsdesk-api/internal/core/domain"
)

const defaultStatsTTL = 30 * time.Second

// StatsCache keeps each owner's dashboard statistics for a short TTL.
// Key format: stats:<owner_id>
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache creates a StatsCache wrapping the given Redis client.
func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	if ttl <= 0 {
		ttl = defaultStatsTTL
	}
	return &StatsCache{client: client, ttl: ttl}
}

// Get returns the cached stats for owner; ok is false on a miss.
func (c *StatsCache) Get(ctx context.Context, owner string) (*domain.StudentStats, bool, error) {
	raw, err := c.client.Get(ctx, statsKey(owner)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.StatsCacheTotal.WithLabelValues("miss").Inc()
		return nil, false, nil
	}
	if err != nil {
		metrics.StatsCacheTotal.WithLabelValues("error").Inc()
		return nil, false, fmt.Errorf("stats cache get: %w", err)
	}

	var st domain.StudentStats
	if err := json.Unmarshal(raw, &st); err != nil {
		metrics.StatsCacheTotal.WithLabelValues("error").Inc()
		return nil, false, fmt.Errorf("stats cache decode: %w", err)
	}
	metrics.StatsCacheTotal.WithLabelValues("hit").Inc()
	return &st, true, nil
}

// Set stores stats for owner, expiring after the configured TTL.
func (c *StatsCache) Set(ctx context.Context, owner string, st *domain.StudentStats) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("stats cache encode: %w", err)
	}
	return c.client.Set(ctx, statsKey(owner), raw, c.ttl).Err()
}

// Invalidate drops the cached entry for owner.
func (c *StatsCache) Invalidate(ctx context.Context, owner string) error {
	return c.client.Del(ctx, statsKey(owner)).Err()
}

func statsKey(owner string) string {
	return "stats:" + owner
}
