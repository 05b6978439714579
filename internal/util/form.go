// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"strconv"
	"strings"
)

// ParseIDPtr parses an optional positive id from a form value.
// Empty, zero, negative or malformed input yields nil.
func ParseIDPtr(s string) *int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}

// ParseIDs parses every positive id out of vals, skipping the rest.
// Each value may itself be a comma-separated list.
func ParseIDs(vals []string) []int64 {
	ids := []int64{}
	for _, v := range vals {
		for _, part := range strings.Split(v, ",") {
			if id := ParseIDPtr(part); id != nil {
				ids = append(ids, *id)
			}
		}
	}
	return ids
}

// SplitLines returns the trimmed non-empty lines of s.
func SplitLines(s string) []string {
	out := []string{}
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Deref returns *p, or the zero value for nil.
func Deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
