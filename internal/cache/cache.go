// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cache provides the byte-oriented Cache backends (memory and
// Redis) and the typed caches built on them: the read-through site settings
// snapshot and the per-path version counters used as invalidation hints.
package cache

import (
	"context"
	"time"
)

// NoExpiry passed as a TTL keeps an entry until it is deleted.
const NoExpiry time.Duration = -1

// Cache is implemented by every backend. Implementations are safe for
// concurrent use. A zero TTL means the backend default; a negative TTL
// means the entry never expires.
type Cache interface {
	// Get returns ErrCacheMiss for absent or expired keys.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Has(ctx context.Context, key string) (bool, error)
	// Incr atomically adds one to an integer counter, creating it at 1.
	Incr(ctx context.Context, key string) (int64, error)
	Close() error
}

// Error is the type of the package sentinels.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	// ErrCacheMiss indicates the key was not found or has expired.
	ErrCacheMiss Error = "cache miss"

	// ErrCacheClosed indicates the cache has been closed.
	ErrCacheClosed Error = "cache closed"
)

// Stats holds hit/miss counters of a backend.
type Stats struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	Sets    int64   `json:"sets"`
	HitRate float64 `json:"hit_rate"`
}

func newStats(hits, misses, sets int64) Stats {
	s := Stats{Hits: hits, Misses: misses, Sets: sets}
	if total := hits + misses; total > 0 {
		s.HitRate = float64(hits) / float64(total) * 100
	}
	return s
}
