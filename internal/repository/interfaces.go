package repository

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned when no image is stored under a key
var ErrCacheMiss = errors.New("cache miss")

// ImageRepository defines the interface for rendered image storage
type ImageRepository interface {
	// Get retrieves the image stored under key, or ErrCacheMiss
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores an image under key for ttl; zero ttl keeps it until evicted
	Set(ctx context.Context, key string, image []byte, ttl time.Duration) error

	// Ping checks connectivity of the backing store
	Ping(ctx context.Context) error
}
