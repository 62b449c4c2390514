// Package cache stores generated layouts and rendered artifacts.
//
// Three backends implement [Cache]:
//   - [FileCache] stores entries as files under a directory (CLI default)
//   - [RedisCache] shares entries between server instances
//   - [NullCache] stores nothing (--no-cache)
//
// Keys come from a [Keyer]. [DefaultKeyer] hashes every input that affects
// the output, so a key changes whenever the layout or render options do.
// [ScopedKeyer] prefixes keys to separate editing sessions.
//
// A failing cache is never fatal: callers treat Get errors as misses and
// ignore Set errors.
package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss
	// (nil, false, nil), not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the backend.
	Close() error
}

// Entry lifetimes.
const (
	// TTLLayout covers generated layouts. Generation is deterministic, so
	// layouts stay valid for as long as the rule tables do.
	TTLLayout = 7 * 24 * time.Hour

	// TTLArtifact covers rendered rasters.
	TTLArtifact = 24 * time.Hour
)

// DefaultDir returns the cache directory: $XDG_CACHE_HOME/adforge, falling
// back to ~/.cache/adforge.
func DefaultDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "adforge"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "adforge"), nil
}
