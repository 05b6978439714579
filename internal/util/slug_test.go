// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple title", "Ma Recette", "ma-recette"},
		{"accents", "Ma Recette Modifiée", "ma-recette-modifiee"},
		{"punctuation", "Crème brûlée, à l'ancienne !", "creme-brulee-a-l-ancienne"},
		{"ligatures", "Œufs cocotte", "oeufs-cocotte"},
		{"numbers", "Top 10 des desserts", "top-10-des-desserts"},
		{"hyphen runs", "Hello -- World", "hello-world"},
		{"leading and trailing", "  --Hello World--  ", "hello-world"},
		{"only symbols", "!@#$%^&*()", ""},
		{"empty", "", ""},
		{"german", "Über München", "uber-munchen"},
		{"eszett", "Straße", "strasse"},
		{"underscore", "snake_case_title", "snake-case-title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSlugify_Shape(t *testing.T) {
	inputs := []string{
		"Ma Recette", "  Été 2026 : les nouveautés ", "日本語タイトル", "a--b__c  d",
		"---", "Ça, c'est « la » vie", "x", strings.Repeat("Très long titre ", 40),
	}
	for _, in := range inputs {
		got := Slugify(in)
		if got != Slugify(in) {
			t.Errorf("Slugify(%q) is not deterministic", in)
		}
		if got != "" && !IsValidSlug(got) {
			t.Errorf("Slugify(%q) = %q, not a valid slug", in, got)
		}
	}
}

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		slug string
		want bool
	}{
		{"ma-recette", true},
		{"a1", true},
		{"", false},
		{"-a", false},
		{"a-", false},
		{"a--b", false},
		{"Ma-Recette", false},
		{"ma_recette", false},
		{"é", false},
		{strings.Repeat("a", MaxSlugLength+1), false},
	}
	for _, tt := range tests {
		if got := IsValidSlug(tt.slug); got != tt.want {
			t.Errorf("IsValidSlug(%q) = %v, want %v", tt.slug, got, tt.want)
		}
	}
}
