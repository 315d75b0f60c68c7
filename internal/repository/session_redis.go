package repository

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

type redisSessionRepository struct {
	client *redis.Client
}

// NewRedisSessionRepository stores snapshots as plain Redis strings without expiry.
func NewRedisSessionRepository(client *redis.Client) SessionSnapshotRepository {
	return &redisSessionRepository{client: client}
}

func (r *redisSessionRepository) Load(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (r *redisSessionRepository) Save(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, key, value, 0).Err()
}

func (r *redisSessionRepository) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
