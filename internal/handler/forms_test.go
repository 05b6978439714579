// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/vitrine/internal/service"
	"github.com/olegiv/vitrine/internal/store"
	"github.com/olegiv/vitrine/internal/validation"
)

func TestDecodeValuesBlog(t *testing.T) {
	form := url.Values{
		"title":       {"Le levain"},
		"featured":    {"on"},
		"category_id": {"3"},
		"tag_ids":     {"1", "x", "4"},
		"unknown":     {"ignored"},
	}
	var in service.BlogInput
	require.NoError(t, decodeValues(form, &in))

	assert.Equal(t, "Le levain", in.Title)
	assert.True(t, in.Featured)
	require.NotNil(t, in.CategoryID)
	assert.Equal(t, int64(3), *in.CategoryID)
	assert.Equal(t, []int64{1, 4}, in.TagIDs)
}

func TestDecodeValuesEmptyCategory(t *testing.T) {
	var in service.BlogInput
	require.NoError(t, decodeValues(url.Values{"category_id": {""}}, &in))
	assert.Nil(t, in.CategoryID)
	assert.False(t, in.Featured, "absent checkbox is false")
}

func TestDecodeValuesBadNumber(t *testing.T) {
	var in service.AboutInput
	err := decodeValues(url.Values{"experience_years": {"ten"}, "satisfaction_rate": {" 98 "}}, &in)

	errs, ok := validation.As(err)
	require.True(t, ok)
	assert.Equal(t, "Years of experience must be a whole number", errs["experience_years"])
	assert.Equal(t, int64(98), in.SatisfactionRate)
}

func TestDecodeValuesLines(t *testing.T) {
	var in service.ContactInfoInput
	require.NoError(t, decodeValues(url.Values{"emails": {"a@example.com\n\n b@example.com "}}, &in))
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, in.Emails)
}

func TestDecodeValuesRejectsNonStruct(t *testing.T) {
	var s string
	assert.Error(t, decodeValues(url.Values{}, &s))
	assert.Error(t, decodeValues(url.Values{}, service.TermInput{}))
}

func TestValuesOf(t *testing.T) {
	cat := int64(2)
	v := valuesOf(store.Blog{
		Title:      "Pain",
		Featured:   true,
		CategoryID: &cat,
		TagIDs:     []int64{5, 6},
		CreatedAt:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	})

	assert.Equal(t, "Pain", v.Get("title"))
	assert.Equal(t, "true", v.Get("featured"))
	assert.Equal(t, "2", v.Get("category_id"))
	assert.Equal(t, []string{"5", "6"}, v["tag_ids"])
}

func TestValuesOfNilPointer(t *testing.T) {
	v := valuesOf(store.Blog{Title: "Pain"})
	assert.Empty(t, v.Get("category_id"))
}

func TestIsChecked(t *testing.T) {
	for in, want := range map[string]bool{"on": true, "true": true, "1": true, "": false, "off": false, "false": false} {
		assert.Equal(t, want, isChecked(in), in)
	}
}
