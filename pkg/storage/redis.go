package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis is a Store backed by a redis string value per key. Blobs are stored
// without expiration: the scheduler owns retention through its cleanup pass.
type Redis struct {
	client redis.UniversalClient
}

// NewRedis creates a redis-backed store using the provided client.
func NewRedis(client redis.UniversalClient) (*Redis, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	return &Redis{client: client}, nil
}

func (r *Redis) Load(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}

	blob, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to load key %q from redis: %w", key, err)
	}
	return blob, nil
}

func (r *Redis) Save(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return ErrEmptyKey
	}

	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save key %q to redis: %w", key, err)
	}
	return nil
}
