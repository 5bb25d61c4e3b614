package redisx

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Cache is a thin JSON cache over Redis, used for dashboard series that are
// expensive to recompute on every poll.
type Cache struct{ client *redis.Client }

func NewCache(addr string) *Cache {
	c := redis.NewClient(&redis.Options{Addr: addr})
	return &Cache{client: c}
}

// GetJSON unmarshals the cached value into dest. The second return is false on
// a miss; Redis being unreachable is also reported as a miss so callers fall
// back to a recompute.
func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Cache) SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, ttl).Err()
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	return c.client.Del(ctx, keys...).Err()
}

func (c *Cache) Close() { _ = c.client.Close() }

// GetClient returns the underlying Redis client for rate limiting.
func (c *Cache) GetClient() *redis.Client {
	return c.client
}
