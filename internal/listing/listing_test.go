// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package listing

import (
	"net/url"
	"testing"
)

func TestPaginate(t *testing.T) {
	tests := []struct {
		name             string
		total            int64
		page, size, rows int
		wantFrom, wantTo int
		wantTotalPages   int
	}{
		{"empty", 0, 1, 10, 0, 1, 0, 0},
		{"single partial page", 7, 1, 10, 7, 1, 7, 1},
		{"exact multiple", 20, 2, 10, 10, 11, 20, 2},
		{"last partial page", 57, 6, 10, 7, 51, 57, 6},
		{"middle page", 57, 2, 9, 9, 10, 18, 7},
		{"beyond last page", 20, 5, 10, 0, 41, 40, 2},
		{"size one", 3, 3, 1, 1, 3, 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Paginate(tt.total, tt.page, tt.size, tt.rows)
			if w.From != tt.wantFrom || w.To != tt.wantTo || w.TotalPages != tt.wantTotalPages {
				t.Errorf("Paginate(%d, %d, %d, %d) = %+v, want from=%d to=%d totalPages=%d",
					tt.total, tt.page, tt.size, tt.rows, w, tt.wantFrom, tt.wantTo, tt.wantTotalPages)
			}
		})
	}
}

func TestPaginateArithmetic(t *testing.T) {
	for total := int64(0); total <= 60; total++ {
		for size := 1; size <= 12; size++ {
			wantPages := int((total + int64(size) - 1) / int64(size))
			for page := 1; page <= wantPages; page++ {
				rows := size
				if remaining := int(total) - (page-1)*size; remaining < size {
					rows = remaining
				}
				w := Paginate(total, page, size, rows)
				if w.TotalPages != wantPages {
					t.Fatalf("total=%d size=%d: TotalPages=%d, want %d", total, size, w.TotalPages, wantPages)
				}
				if got := w.To - w.From + 1; got != rows {
					t.Fatalf("total=%d size=%d page=%d: range covers %d rows, want %d", total, size, page, got, rows)
				}
			}
		}
	}
}

func TestNewPageNoMatch(t *testing.T) {
	p := NewPage[string](Request{Page: 1, Query: "zzz-no-match"}, nil, 0)

	if p.Rows == nil || len(p.Rows) != 0 {
		t.Errorf("Rows = %v, want empty non-nil slice", p.Rows)
	}
	if p.TotalCount != 0 || p.TotalPages != 0 || p.From != 1 || p.To != 0 {
		t.Errorf("got %+v, want totalCount=0 totalPages=0 from=1 to=0", p)
	}
	if !p.Empty() {
		t.Error("Empty() = false, want true")
	}
	if p.ShowControls() {
		t.Error("ShowControls() = true for zero pages")
	}
}

func TestPageNavigation(t *testing.T) {
	p := NewPage(Request{Page: 2, PageSize: 10}, make([]int, 10), 25)

	if !p.HasPrev() || !p.HasNext() {
		t.Errorf("page 2 of 3: HasPrev=%v HasNext=%v, want both true", p.HasPrev(), p.HasNext())
	}
	if !p.ShowControls() {
		t.Error("ShowControls() = false with 3 pages")
	}

	single := NewPage(Request{Page: 1, PageSize: 10}, make([]int, 4), 4)
	if single.ShowControls() {
		t.Error("ShowControls() = true with a single page")
	}
	if single.HasPrev() || single.HasNext() {
		t.Error("single page must have no neighbours")
	}
}

func TestBeyondLast(t *testing.T) {
	// The only row of page 3 was deleted: 20 rows left, 2 pages.
	p := NewPage[int](Request{Page: 3, PageSize: 10}, nil, 20)
	if !p.BeyondLast() {
		t.Fatal("BeyondLast() = false, want true")
	}
	if got := ClampPage(p.Page, p.TotalPages); got != 2 {
		t.Errorf("ClampPage = %d, want 2", got)
	}

	first := NewPage[int](Request{Page: 1, PageSize: 10}, nil, 0)
	if first.BeyondLast() {
		t.Error("empty first page is not beyond the last page")
	}
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		page, total, want int
	}{
		{1, 0, 1},
		{3, 0, 1},
		{0, 5, 1},
		{3, 5, 3},
		{7, 5, 5},
	}
	for _, tt := range tests {
		if got := ClampPage(tt.page, tt.total); got != tt.want {
			t.Errorf("ClampPage(%d, %d) = %d, want %d", tt.page, tt.total, got, tt.want)
		}
	}
}

func TestParseRequest(t *testing.T) {
	v := url.Values{"page": {"3"}, "query": {"  tomate "}, "per_page": {"500"}}
	req := ParseRequest(v, 10)

	if req.Page != 3 || req.Query != "tomate" || req.PageSize != MaxPageSize {
		t.Errorf("ParseRequest = %+v", req)
	}

	req = ParseRequest(url.Values{"page": {"abc"}}, 0)
	if req.Page != 1 || req.PageSize != DefaultPageSize {
		t.Errorf("defaults not applied: %+v", req)
	}

	if got := (Request{Page: 2, Query: "a b"}).Values().Encode(); got != "page=2&query=a+b" {
		t.Errorf("Values() = %q", got)
	}
}

func TestMap(t *testing.T) {
	p := NewPage(Request{Page: 1}, []int{1, 2}, 2)
	m := Map(p, func(i int) string { return string(rune('a' + i)) })
	if len(m.Rows) != 2 || m.Rows[0] != "b" || m.TotalCount != 2 || m.TotalPages != 1 {
		t.Errorf("Map = %+v", m)
	}
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	p := Slice(items, Request{Page: 2, PageSize: 2})
	if len(p.Rows) != 2 || p.Rows[0] != 3 || p.Rows[1] != 4 || p.TotalPages != 3 {
		t.Errorf("Slice page 2 = %+v", p)
	}

	p = Slice(items, Request{Page: 9, PageSize: 2})
	if len(p.Rows) != 0 || !p.BeyondLast() {
		t.Errorf("Slice page 9 = %+v, want empty beyond last", p)
	}
}
