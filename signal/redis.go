package signal

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hupe1980/agentstream/core"
	"github.com/hupe1980/agentstream/logging"
)

// DefaultStopTTL bounds how long an unconsumed stop marker survives so that
// a stop request against an idle session cannot leak forever.
const DefaultStopTTL = time.Hour

// stopKey namespaces stop markers in the shared keyspace.
func stopKey(sessionID string) string { return "stop:" + sessionID }

// RedisOptions configures the Redis signal store.
type RedisOptions struct {
	// StopTTL is the expiry applied to stop markers.
	StopTTL time.Duration
	// Logger receives fail-open warnings and consume/set records.
	Logger logging.Logger
}

// RedisStore implements core.SignalStore on top of a Redis client. Writes use
// SET with expiry; the destructive read uses GETDEL so a marker is consumed
// atomically by at most one reader.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger logging.Logger
}

// Compile-time interface assertion.
var _ core.SignalStore = (*RedisStore)(nil)

// NewRedisStore creates a signal store from an existing Redis client.
func NewRedisStore(client *redis.Client, optFns ...func(o *RedisOptions)) *RedisStore {
	opts := RedisOptions{
		StopTTL: DefaultStopTTL,
		Logger:  logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &RedisStore{client: client, ttl: opts.StopTTL, logger: opts.Logger}
}

// SetStop creates or refreshes the time-bounded stop marker for the session.
func (s *RedisStore) SetStop(ctx context.Context, sessionID string) bool {
	if err := s.client.Set(ctx, stopKey(sessionID), "1", s.ttl).Err(); err != nil {
		s.logger.Error("failed to set stop signal session_id=%s: %v", sessionID, err)
		return false
	}
	s.logger.Info("stop signal set session_id=%s", sessionID)
	return true
}

// CheckAndConsumeStop atomically reads and clears the stop marker. Backend
// failures are treated as "no signal detected" (fail-open) and logged.
func (s *RedisStore) CheckAndConsumeStop(ctx context.Context, sessionID string) bool {
	val, err := s.client.GetDel(ctx, stopKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		s.logger.Warn("stop signal check failed, continuing session_id=%s: %v", sessionID, err)
		return false
	}
	if val == "" {
		return false
	}
	s.logger.Info("stop signal consumed session_id=%s", sessionID)
	return true
}

// Ping probes Redis liveness.
func (s *RedisStore) Ping(ctx context.Context) bool {
	if err := s.client.Ping(ctx).Err(); err != nil {
		s.logger.Error("redis ping failed: %v", err)
		return false
	}
	return true
}
