// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content renders Markdown and sanitizes HTML written by editors.
package content

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// htmlSanitizer is shared; bluemonday policies are safe for concurrent use.
var htmlSanitizer = bluemonday.UGCPolicy()

// Raw HTML passes through goldmark; the sanitizer runs on the output.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps(), html.WithUnsafe()),
)

// Sanitize strips scripts, event handlers and unknown tags from s.
func Sanitize(s string) string {
	return htmlSanitizer.Sanitize(s)
}

// Markdown renders src and sanitizes the result.
func Markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(htmlSanitizer.SanitizeBytes(buf.Bytes())), nil //nolint:gosec // sanitized above
}

// Safe marks already stored HTML for templates after sanitizing it again.
func Safe(s string) template.HTML {
	return template.HTML(Sanitize(s)) //nolint:gosec // sanitized
}

// Excerpt returns the text of s without tags, cut to at most n runes.
func Excerpt(s string, n int) string {
	text := strings.Join(strings.Fields(bluemonday.StrictPolicy().Sanitize(s)), " ")
	r := []rune(text)
	if n <= 0 || len(r) <= n {
		return text
	}
	return strings.TrimSpace(string(r[:n])) + "…"
}
