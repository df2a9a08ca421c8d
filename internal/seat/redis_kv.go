package seat

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RedisKV keeps the assignment record in Redis under a fixed key.
type RedisKV struct {
	client *redis.Client
	key    string
}

func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{
		client: client,
		key:    StorageKey,
	}
}

func (r *RedisKV) Get(ctx context.Context) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, r.key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (r *RedisKV) Set(ctx context.Context, value []byte) error {
	// No TTL: the assignment persists until explicitly cleared.
	return r.client.Set(ctx, r.key, value, 0).Err()
}

func (r *RedisKV) Delete(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}
