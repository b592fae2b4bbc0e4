// Copyright (c) 2025-2026 Victorian Monkey
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cache holds the cache layer behind the public menu endpoint. The
// menu aggregate is rebuilt from several tables plus translations, so the
// handlers keep the rendered response body here keyed by language and reset
// the whole namespace whenever a section or entry changes.
package cache

import (
	"context"
	"time"
)

// Error is a sentinel error type for cache operations.
type Error string

func (e Error) Error() string {
	return string(e)
}

// ErrCacheMiss indicates the key was not found or has expired.
const ErrCacheMiss Error = "cache miss"

// Cache is the interface both backends implement. Values are raw bytes so
// the same interface serves the in-memory and the Redis backend.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the cached value, or ErrCacheMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value. A zero ttl means the backend default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a single key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every entry in this cache's namespace.
	Clear(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// MenuKey builds the cache key for the menu aggregate in a language.
func MenuKey(language string, activeOnly bool) string {
	if activeOnly {
		return "menu:" + language + ":active"
	}
	return "menu:" + language + ":all"
}
