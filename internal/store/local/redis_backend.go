package local

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores each key as a plain Redis string. It is meant for a
// device-local Redis (kiosk or edge deployments), not a shared server.
type RedisBackend struct {
	client        *redis.Client
	maxValueBytes int
}

func NewRedisBackend(client *redis.Client, maxValueBytes int) *RedisBackend {
	return &RedisBackend{client: client, maxValueBytes: maxValueBytes}
}

func (b *RedisBackend) Read(ctx context.Context, key string) ([]byte, error) {
	v, err := b.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return v, err
}

func (b *RedisBackend) Write(ctx context.Context, key string, value []byte) error {
	if err := checkQuota(value, b.maxValueBytes); err != nil {
		return err
	}
	err := b.client.Set(ctx, key, value, 0).Err()
	if err != nil && strings.HasPrefix(err.Error(), "OOM") {
		return ErrQuotaExceeded
	}
	return err
}
