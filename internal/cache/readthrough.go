// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"
)

// Loader produces the value of a read-through entry on a miss.
type Loader[T any] func(ctx context.Context) (T, error)

// ReadThrough caches one JSON-encoded value under a fixed key. The value is
// loaded lazily on the first Get and kept until Invalidate. Concurrent
// misses each call the loader; no refresh deduplication is attempted.
//
// Each stored value is tagged with the generation counter kept under
// key+":gen". Invalidate advances the counter, so a load that raced with
// it is stored under an old generation and never served.
type ReadThrough[T any] struct {
	cache  Cache
	key    string
	genKey string
	ttl    time.Duration
	load   Loader[T]
}

// stamped is the stored form of a read-through value.
type stamped[T any] struct {
	Gen   int64 `json:"gen"`
	Value T     `json:"value"`
}

// NewReadThrough creates a read-through entry. A zero or negative ttl
// keeps the value until it is invalidated.
func NewReadThrough[T any](c Cache, key string, ttl time.Duration, load Loader[T]) *ReadThrough[T] {
	if ttl <= 0 {
		ttl = NoExpiry
	}
	return &ReadThrough[T]{cache: c, key: key, genKey: key + ":gen", ttl: ttl, load: load}
}

// Get returns the cached value, loading and storing it on a miss.
// A cache backend failure is logged and served from the loader.
func (r *ReadThrough[T]) Get(ctx context.Context) (T, error) {
	var zero T

	gen, genErr := r.generation(ctx)
	if genErr != nil {
		slog.Warn("cache read failed", "category", "cache", "key", r.genKey, "error", genErr)
	} else if v, ok := r.cached(ctx, gen); ok {
		return v, nil
	}

	v, err := r.load(ctx)
	if err != nil {
		return zero, fmt.Errorf("loading %s: %w", r.key, err)
	}
	if genErr != nil {
		return v, nil
	}

	if encoded, err := json.Marshal(stamped[T]{Gen: gen, Value: v}); err == nil {
		if err := r.cache.Set(ctx, r.key, encoded, r.ttl); err != nil {
			slog.Warn("cache write failed", "category", "cache", "key", r.key, "error", err)
		}
	}
	return v, nil
}

// cached returns the stored value when it belongs to generation gen.
func (r *ReadThrough[T]) cached(ctx context.Context, gen int64) (T, bool) {
	var zero T

	data, err := r.cache.Get(ctx, r.key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			slog.Warn("cache read failed", "category", "cache", "key", r.key, "error", err)
		}
		return zero, false
	}

	var e stamped[T]
	if err := json.Unmarshal(data, &e); err != nil {
		slog.Warn("dropping undecodable cache entry", "category", "cache", "key", r.key)
		return zero, false
	}
	if e.Gen != gen {
		slog.Debug("dropping superseded cache entry", "category", "cache", "key", r.key, "gen", e.Gen, "current", gen)
		return zero, false
	}
	return e.Value, true
}

// generation reads the invalidation counter. A counter never advanced is 0.
func (r *ReadThrough[T]) generation(ctx context.Context) (int64, error) {
	data, err := r.cache.Get(ctx, r.genKey)
	if errors.Is(err, ErrCacheMiss) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(string(data), 10, 64)
}

// Invalidate advances the generation and drops the cached value; the next
// Get reloads it.
func (r *ReadThrough[T]) Invalidate(ctx context.Context) error {
	_, incrErr := r.cache.Incr(ctx, r.genKey)
	return errors.Join(incrErr, r.cache.Delete(ctx, r.key))
}
