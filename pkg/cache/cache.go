// Package cache stores computed layouts and rendered artifacts.
//
// Three backends implement [Cache]: [NullCache] (disabled), [FileCache]
// (local directory, used by the CLI) and [RedisCache] (shared, used by the
// server). Keys come from a [Keyer] so every backend agrees on naming.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value store with per-entry expiry.
//
// Get reports a miss with ok == false and a nil error. Implementations must
// be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Entry lifetimes. Layouts are pure functions of their key, so they live
// longer than artifacts, which also depend on renderer versions.
const (
	TTLLayout   = 30 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)
