package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a small byte cache used for read-heavy listings. A miss is not
// an error; callers fall through to the store.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type redisCache struct {
	client *redis.Client
}

// NewRedisCache creates a Cache backed by redis.
func NewRedisCache(client *redis.Client) Cache {
	return &redisCache{client: client}
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

type nopCache struct{}

// NewNopCache creates a Cache that stores nothing. Used when redis is not
// configured.
func NewNopCache() Cache {
	return nopCache{}
}

func (nopCache) Get(ctx context.Context, key string) ([]byte, bool, error) { return nil, false, nil }
func (nopCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}
func (nopCache) Delete(ctx context.Context, keys ...string) error { return nil }
