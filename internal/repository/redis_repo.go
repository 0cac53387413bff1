package repository

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisRepository stores documents as plain string values under prefix+key
type RedisRepository struct {
	redis  *redis.Client
	prefix string
}

// NewRedisRepository creates a new RedisRepository
func NewRedisRepository(client *redis.Client, prefix string) *RedisRepository {
	return &RedisRepository{redis: client, prefix: prefix}
}

// Get retrieves the document stored under key
func (r *RedisRepository) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.redis.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Put replaces the document stored under key. Documents never expire.
func (r *RedisRepository) Put(ctx context.Context, key string, data []byte) error {
	return r.redis.Set(ctx, r.prefix+key, data, 0).Err()
}
