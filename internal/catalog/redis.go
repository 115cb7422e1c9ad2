package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/verte-zerg/tuitoeic/internal/model"
)

const indexKey = "exercises"

// RedisStore keeps exercise documents as strings and their keys in a sorted
// set scored by creation time.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

// OpenRedis connects to addr and pings the server.
func OpenRedis(ctx context.Context, addr string, db int) (*RedisStore, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return NewRedisStore(client), nil
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

func (s *RedisStore) key(key string) string {
	return fmt.Sprintf("exercise:%s", key)
}

// Save writes the document and indexes its key.
func (s *RedisStore) Save(ctx context.Context, ex model.Exercise) (string, error) {
	data, err := encode(ex)
	if err != nil {
		return "", err
	}
	now := s.now()
	key := NewKey(now)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(key), data, 0)
		pipe.ZAdd(ctx, indexKey, redis.Z{Score: float64(now.UnixMilli()), Member: key})
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to save exercise: %w", err)
	}
	return key, nil
}

// List returns indexed keys, newest first.
func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	keys, err := s.client.ZRevRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}
	if keys == nil {
		keys = []string{}
	}
	return keys, nil
}

// Get loads one exercise.
func (s *RedisStore) Get(ctx context.Context, key string) (model.Exercise, error) {
	if !ValidKey(key) {
		return model.Exercise{}, ErrNotFound
	}
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Exercise{}, ErrNotFound
	}
	if err != nil {
		return model.Exercise{}, fmt.Errorf("failed to load exercise: %w", err)
	}
	return decode(data)
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
