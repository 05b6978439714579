// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"strings"
	"testing"
)

func TestSanitize(t *testing.T) {
	got := Sanitize(`<p onclick="x()">Bonjour<script>alert(1)</script></p>`)
	if strings.Contains(got, "script") || strings.Contains(got, "onclick") {
		t.Errorf("Sanitize kept unsafe markup: %q", got)
	}
	if !strings.Contains(got, "<p>Bonjour</p>") {
		t.Errorf("Sanitize dropped safe markup: %q", got)
	}
}

func TestMarkdown(t *testing.T) {
	got, err := Markdown("# Titre\n\nDu **gras** et <script>x</script>")
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	s := string(got)
	if !strings.Contains(s, "<h1") || !strings.Contains(s, "<strong>gras</strong>") {
		t.Errorf("Markdown = %q", s)
	}
	if strings.Contains(s, "<script>") {
		t.Errorf("Markdown kept a script tag: %q", s)
	}
}

func TestExcerpt(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"<p>Une   recette</p>", 50, "Une recette"},
		{"abcdef", 3, "abc…"},
		{"été", 3, "été"},
		{"x", 0, "x"},
	}
	for _, tt := range tests {
		if got := Excerpt(tt.in, tt.n); got != tt.want {
			t.Errorf("Excerpt(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
