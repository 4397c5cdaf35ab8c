package signal

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStopKey(t *testing.T) {
	assert.Equal(t, "stop:sess-1", stopKey("sess-1"))
}

func TestRedisStore_FailOpen(t *testing.T) {
	// An unreachable backend must read as "no signal" so generation continues.
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond})
	defer client.Close()
	store := NewRedisStore(client)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	assert.False(t, store.SetStop(ctx, "sess-1"))
	assert.False(t, store.CheckAndConsumeStop(ctx, "sess-1"))
	assert.False(t, store.Ping(ctx))
}

// TestRedisStore_Integration exercises the real backend. Set TEST_REDIS_ADDR
// (for example "localhost:6379") to enable it.
func TestRedisStore_Integration(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	store := NewRedisStore(client, func(o *RedisOptions) { o.StopTTL = time.Minute })

	ctx := context.Background()
	require.True(t, store.Ping(ctx))

	sessionID := "integration-" + time.Now().Format("150405.000000000")
	assert.False(t, store.CheckAndConsumeStop(ctx, sessionID))
	require.True(t, store.SetStop(ctx, sessionID))

	ttl, err := client.TTL(ctx, stopKey(sessionID)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0), "stop marker must carry an expiry")

	assert.True(t, store.CheckAndConsumeStop(ctx, sessionID))
	assert.False(t, store.CheckAndConsumeStop(ctx, sessionID), "GETDEL consumes exactly once")
}
