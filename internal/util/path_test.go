// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestSafeJoin(t *testing.T) {
	base := t.TempDir()

	tests := []struct {
		name       string
		components []string
		wantErr    bool
	}{
		{"simple", []string{"images", "a.jpg"}, false},
		{"base itself", nil, false},
		{"parent", []string{".."}, true},
		{"hidden traversal", []string{"images", "..", "..", "etc"}, true},
		{"absolute component stays inside", []string{"/etc/passwd"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SafeJoin(base, tt.components...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SafeJoin(%v) err = %v, wantErr %v", tt.components, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrPathEscapes) {
				t.Errorf("err = %v, want ErrPathEscapes", err)
			}
		})
	}

	if _, err := SafeJoin(base + "-malicious"); err != nil {
		t.Errorf("sibling as its own base should be fine: %v", err)
	}
}

func TestUploadFile(t *testing.T) {
	dir := t.TempDir()

	got, err := UploadFile(dir, "/uploads", "/uploads/ab12.jpg")
	if err != nil {
		t.Fatalf("UploadFile: %v", err)
	}
	if want := filepath.Join(dir, "ab12.jpg"); got != want {
		t.Errorf("UploadFile = %q, want %q", got, want)
	}

	for _, u := range []string{"https://cdn.example.com/a.jpg", "/uploads/", "/uploads/../x", "/uploads/a/b.jpg", "/other/a.jpg"} {
		if _, err := UploadFile(dir, "/uploads/", u); err == nil {
			t.Errorf("UploadFile(%q) succeeded, want error", u)
		}
	}
}
