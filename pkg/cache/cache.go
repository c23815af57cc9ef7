// Package cache stores rendered artifacts (PNG, SVG, snapshot JSON)
// keyed by the inputs that produced them. Scene generation is cheap;
// raster export at 4K is not, so the HTTP service caches finished
// artifacts rather than scenes.
//
// Three backends are provided: a file cache for CLI usage, a Redis
// cache for the service, and a null cache that disables caching.
package cache

import (
	"context"
	"time"
)

// Cache is the artifact storage interface shared by all backends.
// Get reports a miss with ok=false and a nil error; errors are reserved
// for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
