// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/olegiv/vitrine/internal/action"
	"github.com/olegiv/vitrine/internal/listing"
)

// Row is one listed entity as the API returns it.
type Row map[string]any

// labelKeys are tried in order to describe a row in one column.
var labelKeys = []string{"name", "title", "email", "subject", "message"}

// ID returns the numeric id of the row, or 0.
func (r Row) ID() int64 {
	if f, ok := r["id"].(float64); ok {
		return int64(f)
	}
	return 0
}

// Label returns the first non-empty descriptive field.
func (r Row) Label() string {
	for _, k := range labelKeys {
		if s, ok := r[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// Client talks to the admin JSON API.
type Client struct {
	base  string
	token string
	http  *http.Client
}

// NewClient creates a client for the API under server.
func NewClient(server, token string, timeout time.Duration) *Client {
	return &Client{
		base:  strings.TrimRight(server, "/") + "/api/v1",
		token: token,
		http:  &http.Client{Timeout: timeout},
	}
}

// apiError is the error envelope of non-mutation failures.
type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// List fetches one page of kind.
func (c *Client) List(ctx context.Context, kind string, req listing.Request) (listing.Page[Row], error) {
	var page listing.Page[Row]

	q := url.Values{}
	q.Set("page", strconv.Itoa(max(req.Page, 1)))
	if req.Query != "" {
		q.Set("query", req.Query)
	}
	if req.PageSize > 0 {
		q.Set("per_page", strconv.Itoa(req.PageSize))
	}

	resp, err := c.do(ctx, http.MethodGet, "/"+kind+"?"+q.Encode())
	if err != nil {
		return page, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return page, readError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return page, fmt.Errorf("decoding page: %w", err)
	}
	return page, nil
}

// Delete removes item id of kind. A refused delete is a failed outcome;
// the error is reserved for requests that did not reach the service.
func (c *Client) Delete(ctx context.Context, kind string, id int64) (action.Outcome[action.None], error) {
	var out action.Outcome[action.None]

	resp, err := c.do(ctx, http.MethodDelete, "/"+kind+"/"+strconv.FormatInt(id, 10))
	if err != nil {
		return out, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return out, fmt.Errorf("reading response: %w", err)
	}
	if err := json.Unmarshal(body, &out); err != nil || out.Message == "" {
		return out, errorFrom(resp.StatusCode, body)
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return c.http.Do(req)
}

func readError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	return errorFrom(resp.StatusCode, body)
}

func errorFrom(status int, body []byte) error {
	var e apiError
	if json.Unmarshal(body, &e) == nil && e.Error.Message != "" {
		return fmt.Errorf("%s (HTTP %d)", e.Error.Message, status)
	}
	return fmt.Errorf("unexpected response: HTTP %d", status)
}
