// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/vitrine/internal/handler/api"
	"github.com/olegiv/vitrine/internal/listing"
	"github.com/olegiv/vitrine/internal/service"
	"github.com/olegiv/vitrine/internal/store"
	"github.com/olegiv/vitrine/internal/testutil"
)

const testToken = "ctl-test-token"

type testServer struct {
	t   *testing.T
	db  *sql.DB
	svc *service.Services
	url string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	logger := testutil.TestLoggerSilent()
	svc := service.New(service.Deps{DB: db, Logger: logger})
	h := api.NewHandler(api.Deps{Services: svc, Logger: logger})

	r := chi.NewRouter()
	r.Mount("/api/v1", h.Routes(testToken))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testServer{t: t, db: db, svc: svc, url: srv.URL}
}

func (s *testServer) product(name string) store.Product {
	s.t.Helper()
	out := s.svc.Products.Create(context.Background(), service.ProductInput{Name: name, Active: true})
	require.True(s.t, out.Success, out.Message)
	return *out.Data
}

func (s *testServer) count() int64 {
	s.t.Helper()
	page, err := s.svc.Products.List(context.Background(), listing.Request{})
	require.NoError(s.t, err)
	return page.TotalCount
}

// syncBuffer is a bytes.Buffer safe to read while the console writes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newConsole(s *testServer, out io.Writer) *console {
	return &console{
		kind:     "products",
		client:   NewClient(s.url, testToken, 5*time.Second),
		pageSize: 2,
		debounce: 10 * time.Millisecond,
		out:      out,
	}
}

func TestClientList(t *testing.T) {
	s := newTestServer(t)
	for _, name := range []string{"Baguette", "Croissant", "Brioche"} {
		s.product(name)
	}
	c := NewClient(s.url, testToken, 5*time.Second)

	page, err := c.List(context.Background(), "products", listing.Request{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalCount)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Rows, 1)
	assert.NotZero(t, page.Rows[0].ID())
	assert.NotEmpty(t, page.Rows[0].Label())

	page, err = c.List(context.Background(), "products", listing.Request{Page: 1, Query: "crois", PageSize: 2})
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, "Croissant", page.Rows[0].Label())
}

func TestClientErrors(t *testing.T) {
	s := newTestServer(t)

	_, err := NewClient(s.url, "wrong", time.Second).List(context.Background(), "products", listing.Request{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid API token")
	assert.Contains(t, err.Error(), "HTTP 401")

	c := NewClient(s.url, testToken, time.Second)
	out, err := c.Delete(context.Background(), "products", 999)
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Equal(t, "Product not found", out.Message)
}

func TestRowLabel(t *testing.T) {
	assert.Equal(t, "Tarte", Row{"id": float64(3), "title": "Tarte"}.Label())
	assert.Equal(t, "a@example.com", Row{"name": "", "email": "a@example.com"}.Label())
	assert.Equal(t, int64(3), Row{"id": float64(3)}.ID())
	assert.Zero(t, Row{}.ID())
}

func TestConsoleDeleteDeclined(t *testing.T) {
	s := newTestServer(t)
	p := s.product("Baguette")
	var out syncBuffer

	in := strings.NewReader("d " + strconv.FormatInt(p.ID, 10) + "\n\nq\n")
	require.NoError(t, newConsole(s, &out).run(context.Background(), in))

	assert.Equal(t, int64(1), s.count())
	assert.Contains(t, out.String(), "Delete products #"+strconv.FormatInt(p.ID, 10)+"? [y/N]")
	assert.Contains(t, out.String(), "Deletion cancelled")
}

func TestConsoleDeleteConfirmed(t *testing.T) {
	s := newTestServer(t)
	p := s.product("Baguette")
	var out syncBuffer

	in := strings.NewReader("d " + strconv.FormatInt(p.ID, 10) + "\ny\nq\n")
	require.NoError(t, newConsole(s, &out).run(context.Background(), in))

	assert.Zero(t, s.count())
	assert.Contains(t, out.String(), "Product deleted")
}

func TestConsoleCommandErrors(t *testing.T) {
	s := newTestServer(t)
	var out syncBuffer

	in := strings.NewReader("d abc\ng x\nzz\nq\n")
	require.NoError(t, newConsole(s, &out).run(context.Background(), in))

	assert.Contains(t, out.String(), "usage: d ID")
	assert.Contains(t, out.String(), "page must be a number")
	assert.Contains(t, out.String(), `unknown command "zz"`)
}

func TestConsoleFilter(t *testing.T) {
	s := newTestServer(t)
	for _, name := range []string{"Baguette", "Croissant", "Brioche"} {
		s.product(name)
	}
	var out syncBuffer

	pr, pw := io.Pipe()
	done := make(chan error, 1)
	go func() { done <- newConsole(s, &out).run(context.Background(), pr) }()

	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "of 3 (page 1/2)")
	}, 2*time.Second, 5*time.Millisecond)

	_, err := io.WriteString(pw, "/crois\n")
	require.NoError(t, err)
	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Showing 1-1 of 1 (page 1/1)")
	}, 2*time.Second, 5*time.Millisecond)
	assert.Contains(t, out.String(), "Croissant")

	_, err = io.WriteString(pw, "/zzz\n")
	require.NoError(t, err)
	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), `No results for "zzz"`)
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, pw.Close())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal(errors.New("console did not stop at end of input"))
	}
}
