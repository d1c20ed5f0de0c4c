package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsKey(t *testing.T) {
	assert.Equal(t, "stats:65f1c0de00000000000000aa", statsKey("65f1c0de00000000000000aa"))
}

func TestNewStatsCache_DefaultTTL(t *testing.T) {
	c := NewStatsCache(nil, 0)
	assert.Equal(t, defaultStatsTTL, c.ttl)

	c = NewStatsCache(nil, time.Minute)
	assert.Equal(t, time.Minute, c.ttl)
}

func TestStatsCache_UnreachableServerReturnsError(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := NewStatsCache(client, time.Second)
	_, ok, err := c.Get(context.Background(), "owner")
	require.Error(t, err)
	assert.False(t, ok)
}
