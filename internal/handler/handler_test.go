// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"io"
	"io/fs"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/vitrine/internal/imaging"
	"github.com/olegiv/vitrine/internal/middleware"
	"github.com/olegiv/vitrine/internal/render"
	"github.com/olegiv/vitrine/internal/service"
	"github.com/olegiv/vitrine/internal/store"
	"github.com/olegiv/vitrine/internal/testutil"
	"github.com/olegiv/vitrine/web"
)

// testEnv is an admin served over HTTP with a cookie-keeping client. The
// auth middleware is left out; tests call the console directly.
type testEnv struct {
	t       *testing.T
	db      *sql.DB
	svc     *service.Services
	handler *Handler
	srv     *httptest.Server
	client  *http.Client
	clock   *testClock
}

// testClock is the time seen by the sign-in guard.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestEnv(t *testing.T, pageSize int) *testEnv {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	sm := scs.New()
	templates, err := fs.Sub(web.Templates, "templates")
	require.NoError(t, err)
	renderer, err := render.New(render.Config{TemplatesFS: templates, SessionManager: sm})
	require.NoError(t, err)

	logger := testutil.TestLoggerSilent()
	svc := service.New(service.Deps{DB: db, Logger: logger})
	clock := &testClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	guardCfg := middleware.DefaultLoginGuardConfig()
	guardCfg.Clock = clock.Now

	h := New(Deps{
		DB:         db,
		Renderer:   renderer,
		Sessions:   sm,
		Services:   svc,
		Uploads:    imaging.NewProcessor(t.TempDir(), 1<<20),
		LoginGuard: middleware.NewLoginGuard(guardCfg),
		PageSize:   pageSize,
		Logger:     logger,
	})

	r := chi.NewRouter()
	r.Use(sm.LoadAndSave)
	h.RegisterAuth(r)
	h.RegisterAdmin(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &testEnv{t: t, db: db, svc: svc, handler: h, srv: srv, client: client, clock: clock}
}

func (e *testEnv) do(req *http.Request) (*http.Response, string) {
	e.t.Helper()
	resp, err := e.client.Do(req)
	require.NoError(e.t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(e.t, err)
	return resp, string(body)
}

func (e *testEnv) get(path string) (*http.Response, string) {
	e.t.Helper()
	req, err := http.NewRequest(http.MethodGet, e.srv.URL+path, nil)
	require.NoError(e.t, err)
	return e.do(req)
}

func (e *testEnv) post(path string, form url.Values) (*http.Response, string) {
	e.t.Helper()
	req, err := http.NewRequest(http.MethodPost, e.srv.URL+path, strings.NewReader(form.Encode()))
	require.NoError(e.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(req)
}

func (e *testEnv) product(name string) store.Product {
	e.t.Helper()
	out := e.svc.Products.Create(context.Background(), service.ProductInput{Name: name, Active: true})
	require.True(e.t, out.Success, out.Message)
	return *out.Data
}

var tokenRE = regexp.MustCompile(`name="confirm_token" value="([^"]+)"`)

func confirmToken(t *testing.T, body string) string {
	t.Helper()
	m := tokenRE.FindStringSubmatch(body)
	require.Len(t, m, 2, "confirmation token in page")
	return m[1]
}
