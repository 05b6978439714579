// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"strconv"
)

const versionPrefix = "pathver:"

// PathVersions keeps a counter per listing path. Mutations Bump the path
// they affect; readers derive validators such as ETags from Version.
// The counters are hints only: losing them just causes a re-read.
type PathVersions struct {
	cache Cache
}

// NewPathVersions creates path counters stored in c.
func NewPathVersions(c Cache) *PathVersions {
	return &PathVersions{cache: c}
}

// Bump advances the version of each path.
func (p *PathVersions) Bump(ctx context.Context, paths ...string) error {
	var errs []error
	for _, path := range paths {
		if _, err := p.cache.Incr(ctx, versionPrefix+path); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Version returns the current version of path. A path never bumped is at 0.
func (p *PathVersions) Version(ctx context.Context, path string) (int64, error) {
	data, err := p.cache.Get(ctx, versionPrefix+path)
	if errors.Is(err, ErrCacheMiss) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(string(data), 10, 64)
}
