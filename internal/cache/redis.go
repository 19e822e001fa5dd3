package cache

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisConfig describes how to reach a shared Redis cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient builds a go-redis client.
func NewRedisClient(cfg RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// RedisStore keeps entries in Redis without expiry so several instances share lookups.
type RedisStore struct {
	client redis.Cmdable
	prefix string
}

// NewRedisStore constructs a RedisStore. Keys are namespaced with prefix.
func NewRedisStore(client redis.Cmdable, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Set implements Store.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, s.prefix+key, value, 0).Err()
}
