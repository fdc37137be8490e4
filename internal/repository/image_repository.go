package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const imageKeyPrefix = "upnqr:png:"

type imageRepository struct {
	redis *redis.Client
}

func NewImageRepository(client *redis.Client) ImageRepository {
	return &imageRepository{redis: client}
}

func (r *imageRepository) Get(ctx context.Context, key string) ([]byte, error) {
	image, err := r.redis.Get(ctx, imageKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	return image, nil
}

func (r *imageRepository) Set(ctx context.Context, key string, image []byte, ttl time.Duration) error {
	return r.redis.Set(ctx, imageKeyPrefix+key, image, ttl).Err()
}

func (r *imageRepository) Ping(ctx context.Context) error {
	return r.redis.Ping(ctx).Err()
}
