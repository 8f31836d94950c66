package storage

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisPingTimeout = 3 * time.Second
	redisScanCount   = 256
)

type RedisStore struct {
	client *redis.Client
}

// NewRedisClient returns a configured go-redis client from URL (e.g. redis://localhost:6379/0).
func NewRedisClient(redisURL string) (*redis.Client, error) {
	const op = "storage.NewRedisClient"

	if redisURL == "" {
		return nil, fmt.Errorf("%s: empty redis url", op)
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return client, nil
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Get(ctx context.Context, key Key) ([]byte, error) {
	const op = "storage.RedisStore.Get"

	value, err := r.client.Get(ctx, key.Encode()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return value, nil
}

func (r *RedisStore) Set(ctx context.Context, key Key, value []byte) error {
	const op = "storage.RedisStore.Set"

	if err := r.client.Set(ctx, key.Encode(), value, 0).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *RedisStore) Delete(ctx context.Context, key Key) error {
	const op = "storage.RedisStore.Delete"

	if err := r.client.Del(ctx, key.Encode()).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *RedisStore) List(ctx context.Context, prefix Key) ([]Entry, error) {
	const op = "storage.RedisStore.List"

	match := "*"
	if len(prefix) > 0 {
		match = prefix.Encode() + keySeparatorGlob
	}

	var keys []string
	iter := r.client.Scan(ctx, 0, match, redisScanCount).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%s (scan): %w", op, err)
	}

	if len(keys) == 0 {
		return nil, nil
	}

	// SCAN may return a key more than once.
	slices.Sort(keys)
	keys = slices.Compact(keys)

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("%s (mget): %w", op, err)
	}

	entries := make([]Entry, 0, len(keys))
	for i, raw := range values {
		s, ok := raw.(string)
		if !ok {
			// deleted between SCAN and MGET
			continue
		}

		key, err := DecodeKey(keys[i])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		entries = append(entries, Entry{Key: key, Value: []byte(s)})
	}

	return entries, nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
