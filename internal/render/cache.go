package render

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/segyhp/upn-qr/internal/repository"
	customError "github.com/segyhp/upn-qr/pkg/errors"
)

// CachedRasterizer serves previously rendered images from an image repository.
// Rendering is deterministic, so a cached image is identical to a fresh one.
// Repository failures are logged and bypassed; rasterizer failures are returned.
type CachedRasterizer struct {
	next   Rasterizer
	images repository.ImageRepository
	ttl    time.Duration
	salt   string
	logger *slog.Logger
}

// NewCachedRasterizer wraps next. salt must identify the render options so that
// images rendered with different settings never share a key.
func NewCachedRasterizer(next Rasterizer, images repository.ImageRepository, ttl time.Duration, salt string, logger *slog.Logger) *CachedRasterizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedRasterizer{
		next:   next,
		images: images,
		ttl:    ttl,
		salt:   salt,
		logger: logger,
	}
}

// Render returns the cached image for payload or renders and stores it
func (c *CachedRasterizer) Render(ctx context.Context, payload string) ([]byte, error) {
	key := CacheKey(c.salt, payload)

	image, err := c.images.Get(ctx, key)
	switch {
	case err == nil:
		return image, nil
	case !errors.Is(err, repository.ErrCacheMiss):
		c.warn(ctx, "render cache read failed", key, err)
	}

	image, err = c.next.Render(ctx, payload)
	if err != nil {
		return nil, err
	}

	if err := c.images.Set(ctx, key, image, c.ttl); err != nil {
		c.warn(ctx, "render cache write failed", key, err)
	}

	return image, nil
}

func (c *CachedRasterizer) warn(ctx context.Context, msg, key string, err error) {
	err = customError.WrapCacheError(err)
	c.logger.WarnContext(ctx, msg, "key", key, "code", customError.Code(err), "error", err)
}

// CacheKey derives the cache key of payload rendered with the given options salt
func CacheKey(salt, payload string) string {
	sum := sha256.Sum256([]byte(salt + "\x00" + payload))
	return hex.EncodeToString(sum[:])
}
