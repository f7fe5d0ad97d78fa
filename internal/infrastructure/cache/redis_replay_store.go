package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
)

const defaultKeyPrefix = "carbon:replay:"

// RedisReplayStore implements ReplayStore with SETNX so every API instance
// shares the same replay window
type RedisReplayStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisReplayStore wraps an existing client
func NewRedisReplayStore(client redis.UniversalClient, keyPrefix string) *RedisReplayStore {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisReplayStore{client: client, keyPrefix: keyPrefix}
}

// MarkSeen sets the key only if it does not exist, with ttl as expiry
func (s *RedisReplayStore) MarkSeen(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to record replay key: %w", err)
	}
	return ok, nil
}

// Forget deletes the key
func (s *RedisReplayStore) Forget(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release replay key: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisReplayStore) Close() error {
	return s.client.Close()
}

var _ shared.ReplayStore = (*RedisReplayStore)(nil)
