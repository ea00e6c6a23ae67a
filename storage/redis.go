package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type redisBlobs struct {
	client *redis.Client
	prefix string
}

func OpenRedis(ctx context.Context, rawURL, prefix string) (Blobs, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedis(client, prefix), nil
}

// NewRedis wraps an existing client. Keys are written as "<prefix>:<key>".
func NewRedis(client *redis.Client, prefix string) Blobs {
	if prefix == "" {
		prefix = "qform"
	}
	return &redisBlobs{client, prefix}
}

func (r *redisBlobs) key(k string) string {
	return r.prefix + ":" + k
}

func (r *redisBlobs) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return v, err
}

func (r *redisBlobs) Put(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, r.key(key), value, 0).Err()
}

func (r *redisBlobs) Close() error {
	return r.client.Close()
}
