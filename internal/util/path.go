// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ErrPathEscapes is returned when a joined path leaves its base directory.
var ErrPathEscapes = fmt.Errorf("path escapes base directory")

// SafeJoin joins components under base and rejects results outside base.
func SafeJoin(base string, components ...string) (string, error) {
	full := filepath.Join(append([]string{base}, components...)...)

	absBase, err := filepath.Abs(filepath.Clean(base))
	if err != nil {
		return "", fmt.Errorf("resolving base: %w", err)
	}
	absFull, err := filepath.Abs(full)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	// The separator suffix keeps /uploads-other from matching /uploads.
	if absFull != absBase && !strings.HasPrefix(absFull, absBase+string(filepath.Separator)) {
		return "", ErrPathEscapes
	}
	return full, nil
}

// UploadFile maps a public upload URL such as "/uploads/ab12.jpg" to its
// file under dir. Foreign URLs and traversal attempts are rejected.
func UploadFile(dir, prefix, publicURL string) (string, error) {
	name, ok := strings.CutPrefix(publicURL, strings.TrimSuffix(prefix, "/")+"/")
	if !ok || name == "" || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("not a local upload: %q", publicURL)
	}
	return SafeJoin(dir, name)
}
