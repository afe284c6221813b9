package sequence

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "recipe-api:seq:"

// RedisSequencer allocates values with INCR on one key per name.
type RedisSequencer struct {
	client *redis.Client
}

func NewRedisSequencer(client *redis.Client) *RedisSequencer {
	return &RedisSequencer{client: client}
}

// NewRedisSequencerFromURL parses a redis:// URL and verifies the server answers.
func NewRedisSequencerFromURL(ctx context.Context, url string) (*RedisSequencer, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}
	return NewRedisSequencer(client), nil
}

func (s *RedisSequencer) Next(ctx context.Context, name string) (int64, error) {
	return s.client.Incr(ctx, redisKeyPrefix+name).Result()
}

func (s *RedisSequencer) Close() error {
	return s.client.Close()
}
