// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package listing holds the request and result types shared by every admin
// list screen, together with the pure pagination arithmetic.
package listing

import (
	"net/url"
	"strconv"
	"strings"
)

// Page size bounds.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Request describes one page of a filtered listing.
// Page beyond the last one is not an error: it yields no rows.
type Request struct {
	Page     int    `json:"page"`
	Query    string `json:"query"`
	PageSize int    `json:"pageSize"`
}

// Normalize returns a copy with page >= 1, a bounded page size and a trimmed query.
func (r Request) Normalize() Request {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize <= 0 {
		r.PageSize = DefaultPageSize
	}
	if r.PageSize > MaxPageSize {
		r.PageSize = MaxPageSize
	}
	r.Query = strings.TrimSpace(r.Query)
	return r
}

// Offset is the number of rows skipped before this page.
func (r Request) Offset() int {
	return (r.Page - 1) * r.PageSize
}

// Values encodes the request as URL query parameters, omitting defaults.
func (r Request) Values() url.Values {
	v := url.Values{}
	if r.Page > 1 {
		v.Set("page", strconv.Itoa(r.Page))
	}
	if r.Query != "" {
		v.Set("query", r.Query)
	}
	if r.PageSize > 0 && r.PageSize != DefaultPageSize {
		v.Set("per_page", strconv.Itoa(r.PageSize))
	}
	return v
}

// ParseRequest reads page, query and per_page from URL values.
// Unparseable numbers fall back to the defaults.
func ParseRequest(v url.Values, pageSize int) Request {
	req := Request{Query: v.Get("query"), PageSize: pageSize}
	if req.Query == "" {
		req.Query = v.Get("q")
	}
	if p, err := strconv.Atoi(v.Get("page")); err == nil {
		req.Page = p
	}
	if s, err := strconv.Atoi(v.Get("per_page")); err == nil && s > 0 {
		req.PageSize = s
	}
	return req.Normalize()
}

// Window is the display range of a page: 1-based inclusive From/To
// and the total number of pages.
type Window struct {
	From       int `json:"from"`
	To         int `json:"to"`
	TotalPages int `json:"totalPages"`
}

// Paginate computes the display window for a page holding rows rows out of total.
// TotalPages is ceil(total/pageSize) and is 0 for an empty result set.
// To is From-1 when rows is 0.
func Paginate(total int64, page, pageSize, rows int) Window {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	if total < 0 {
		total = 0
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	from := (page-1)*pageSize + 1

	return Window{
		From:       from,
		To:         from + rows - 1,
		TotalPages: totalPages,
	}
}

// ClampPage moves page into [1, totalPages]. With no pages at all it returns 1.
func ClampPage(page, totalPages int) int {
	if totalPages < 1 || page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Page is the result of a listing query.
type Page[T any] struct {
	Rows       []T   `json:"rows"`
	TotalCount int64 `json:"totalCount"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	From       int   `json:"from"`
	To         int   `json:"to"`
	TotalPages int   `json:"totalPages"`
}

// NewPage assembles a Page from the executed request, its rows and the filtered total.
func NewPage[T any](req Request, rows []T, total int64) Page[T] {
	req = req.Normalize()
	if rows == nil {
		rows = []T{}
	}
	w := Paginate(total, req.Page, req.PageSize, len(rows))
	return Page[T]{
		Rows:       rows,
		TotalCount: total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		From:       w.From,
		To:         w.To,
		TotalPages: w.TotalPages,
	}
}

// Empty reports whether the page carries no rows. Callers show "no results"
// instead of a From/To range in that case.
func (p Page[T]) Empty() bool {
	return len(p.Rows) == 0
}

// HasPrev reports whether a previous page exists.
func (p Page[T]) HasPrev() bool {
	return p.Page > 1 && p.TotalPages > 0
}

// HasNext reports whether a following page exists.
func (p Page[T]) HasNext() bool {
	return p.Page < p.TotalPages
}

// ShowControls reports whether pagination controls should be rendered.
func (p Page[T]) ShowControls() bool {
	return p.TotalPages > 1
}

// BeyondLast reports whether the page points past the last non-empty page,
// typically after the only row of the last page was deleted.
func (p Page[T]) BeyondLast() bool {
	return p.Empty() && p.Page > 1 && p.Page > p.TotalPages
}

// Map converts the rows of a page while keeping its counters.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	rows := make([]U, len(p.Rows))
	for i, r := range p.Rows {
		rows[i] = fn(r)
	}
	return Page[U]{
		Rows:       rows,
		TotalCount: p.TotalCount,
		Page:       p.Page,
		PageSize:   p.PageSize,
		From:       p.From,
		To:         p.To,
		TotalPages: p.TotalPages,
	}
}

// Slice pages an in-memory slice, for the few lists that are read whole.
func Slice[T any](items []T, req Request) Page[T] {
	req = req.Normalize()
	start := min(req.Offset(), len(items))
	end := min(start+req.PageSize, len(items))
	return NewPage(req, items[start:end], int64(len(items)))
}
