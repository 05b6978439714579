// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/vitrine/internal/action"
	"github.com/olegiv/vitrine/internal/cache"
	"github.com/olegiv/vitrine/internal/listing"
	"github.com/olegiv/vitrine/internal/service"
	"github.com/olegiv/vitrine/internal/store"
	"github.com/olegiv/vitrine/internal/testutil"
)

const testToken = "test-api-token"

type testAPI struct {
	t      *testing.T
	db     *sql.DB
	svc    *service.Services
	router chi.Router
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	mem := cache.NewMemoryCache(cache.MemoryCacheOptions{})
	t.Cleanup(func() { _ = mem.Close() })
	hints := cache.NewPathVersions(mem)

	logger := testutil.TestLoggerSilent()
	svc := service.New(service.Deps{
		DB:       db,
		Logger:   logger,
		Hints:    hints,
		Settings: cache.NewSettingsCache(mem, db),
	})
	h := NewHandler(Deps{Services: svc, Hints: hints, PageSize: 2, Logger: logger})

	return &testAPI{t: t, db: db, svc: svc, router: h.Routes(testToken)}
}

func (a *testAPI) do(method, target, body string, headers ...string) *httptest.ResponseRecorder {
	a.t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Authorization", "Bearer "+testToken)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) product(name string) store.Product {
	a.t.Helper()
	out := a.svc.Products.Create(context.Background(), service.ProductInput{Name: name, Active: true})
	require.True(a.t, out.Success, out.Message)
	return *out.Data
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// assertErrorResponse unmarshals and validates an error response.
func assertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedCode string) ErrorResponse {
	t.Helper()
	resp := decode[ErrorResponse](t, w)
	assert.Equal(t, expectedCode, resp.Error.Code)
	return resp
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusTeapot, map[string]string{"key": "value"})

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"key":"value"}`, w.Body.String())
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name   string
		write  func(w http.ResponseWriter)
		status int
		code   string
	}{
		{"bad request", func(w http.ResponseWriter) { WriteBadRequest(w, "bad") }, http.StatusBadRequest, "bad_request"},
		{"not found", func(w http.ResponseWriter) { WriteNotFound(w, "missing") }, http.StatusNotFound, "not_found"},
		{"internal", func(w http.ResponseWriter) { WriteInternalError(w, "boom") }, http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.write(w)
			assert.Equal(t, tt.status, w.Code)
			assertErrorResponse(t, w, tt.code)
		})
	}
}

func TestStatus(t *testing.T) {
	a := newTestAPI(t)
	w := a.do(http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data StatusResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Data.Status)
	assert.Equal(t, "v1", resp.Data.API)
}

func TestAdminRequiresToken(t *testing.T) {
	a := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(http.MethodGet, "/products", "", "Authorization", "Bearer wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assertErrorResponse(t, w, "unauthorized")
}

func TestAdminDisabledWithoutToken(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)
	h := NewHandler(Deps{Services: service.New(service.Deps{DB: db, Logger: testutil.TestLoggerSilent()})})
	r := h.Routes("")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListProducts(t *testing.T) {
	a := newTestAPI(t)
	for _, name := range []string{"Baguette", "Croissant", "Pain de mie"} {
		a.product(name)
	}

	w := a.do(http.MethodGet, "/products?page=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[listing.Page[store.Product]](t, w)
	assert.Equal(t, int64(3), page.TotalCount)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 3, page.From)
	assert.Equal(t, 3, page.To)
	require.Len(t, page.Rows, 1)

	w = a.do(http.MethodGet, "/products?query=zzz-no-match", "")
	page = decode[listing.Page[store.Product]](t, w)
	assert.Empty(t, page.Rows)
	assert.Equal(t, int64(0), page.TotalCount)
	assert.Equal(t, 0, page.TotalPages)
	assert.Equal(t, 1, page.From)
	assert.Equal(t, 0, page.To)
}

func TestListETag(t *testing.T) {
	a := newTestAPI(t)
	a.product("Baguette")

	w := a.do(http.MethodGet, "/products", "")
	require.Equal(t, http.StatusOK, w.Code)
	tag := w.Header().Get("ETag")
	require.NotEmpty(t, tag)

	w = a.do(http.MethodGet, "/products", "", "If-None-Match", tag)
	assert.Equal(t, http.StatusNotModified, w.Code)

	a.product("Croissant")
	w = a.do(http.MethodGet, "/products", "", "If-None-Match", tag)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEqual(t, tag, w.Header().Get("ETag"))
}

func TestProductCRUD(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(http.MethodPost, "/products", `{"name":"Pain au Chocolat","active":true}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[action.Outcome[store.Product]](t, w)
	require.True(t, created.Success)
	assert.Equal(t, "Product created", created.Message)
	require.NotNil(t, created.Data)
	assert.Equal(t, "pain-au-chocolat", created.Data.Slug)
	id := created.Data.ID

	w = a.do(http.MethodGet, "/products/"+itoa(id), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Pain au Chocolat"`)

	w = a.do(http.MethodPut, "/products/"+itoa(id), `{"name":"Chocolatine","active":false}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[action.Outcome[store.Product]](t, w)
	assert.Equal(t, "Chocolatine", updated.Data.Name)
	assert.Equal(t, "pain-au-chocolat", updated.Data.Slug)

	w = a.do(http.MethodDelete, "/products/"+itoa(id), "")
	require.Equal(t, http.StatusOK, w.Code)
	deleted := decode[action.Outcome[action.None]](t, w)
	assert.True(t, deleted.Success)
	assert.Nil(t, deleted.Data)

	w = a.do(http.MethodGet, "/products/"+itoa(id), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assertErrorResponse(t, w, "not_found")

	w = a.do(http.MethodDelete, "/products/"+itoa(id), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	gone := decode[action.Outcome[action.None]](t, w)
	assert.False(t, gone.Success)
	assert.Equal(t, "Product not found", gone.Message)
}

func TestMutationFailures(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(http.MethodPost, "/products", `{"name":"  "}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	out := decode[map[string]any](t, w)
	assert.Equal(t, false, out["success"])
	assert.NotEmpty(t, out["message"])
	assert.NotContains(t, out, "data")

	w = a.do(http.MethodPost, "/products", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, decode[action.Outcome[action.None]](t, w).Success)

	w = a.do(http.MethodPost, "/products", `{"nom":"Baguette"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodPut, "/products/abc", `{"name":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	a.product("Baguette")
	w = a.do(http.MethodPost, "/products", `{"name":"Baguette"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Slug is already in use", decode[action.Outcome[action.None]](t, w).Message)
}

func TestReadOnlyKinds(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(http.MethodGet, "/events", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodPost, "/events", `{}`)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = a.do(http.MethodPost, "/messages", `{}`)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestDeleteLastAdminRefused(t *testing.T) {
	a := newTestAPI(t)
	admin := testutil.CreateAdmin(t, a.db, "admin@example.com")

	w := a.do(http.MethodDelete, "/users/"+itoa(admin.ID), "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	out := decode[action.Outcome[action.None]](t, w)
	assert.Equal(t, "At least one administrator is required", out.Message)
}

func TestBenefitsPaged(t *testing.T) {
	a := newTestAPI(t)
	for _, title := range []string{"Fresh", "Local", "Organic"} {
		w := a.do(http.MethodPost, "/benefits", `{"title":"`+title+`","description":"d","position":1,"active":true}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := a.do(http.MethodGet, "/benefits?page=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[listing.Page[store.ServiceBenefit]](t, w)
	assert.Equal(t, int64(3), page.TotalCount)
	assert.Len(t, page.Rows, 1)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func TestSettingsServesCachedSnapshot(t *testing.T) {
	a := newTestAPI(t)
	ctx := context.Background()

	out := a.svc.Settings.SaveSite(ctx, service.SiteSettingsInput{SiteName: "La Vitrine"})
	require.True(t, out.Success, out.Message)

	w := a.do(http.MethodGet, "/settings", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"site_name":"La Vitrine"`)

	out = a.svc.Settings.SaveSite(ctx, service.SiteSettingsInput{SiteName: "Chez Nous"})
	require.True(t, out.Success, out.Message)

	w = a.do(http.MethodGet, "/settings", "")
	assert.Contains(t, w.Body.String(), `"site_name":"Chez Nous"`)
}

func TestSubmitContact(t *testing.T) {
	a := newTestAPI(t)

	body := `{"name":"Marie","email":"marie@example.com","subject":"Commande","message":"Bonjour"}`
	req := httptest.NewRequest(http.MethodPost, "/public/contact", strings.NewReader(body))
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	out := decode[map[string]any](t, w)
	assert.Equal(t, true, out["success"])
	assert.NotContains(t, out, "data")

	page, err := a.svc.Messages.List(context.Background(), listing.Request{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalCount)

	req = httptest.NewRequest(http.MethodPost, "/public/contact", strings.NewReader(`{"name":"Marie","email":"nope"}`))
	w = httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.False(t, decode[action.Outcome[action.None]](t, w).Success)
}

func TestSubscribeIdempotent(t *testing.T) {
	a := newTestAPI(t)

	for i, want := range []string{"Thank you for subscribing", "You are already subscribed"} {
		req := httptest.NewRequest(http.MethodPost, "/public/newsletter", strings.NewReader(`{"email":"Marie@Example.com"}`))
		w := httptest.NewRecorder()
		a.router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, "attempt %d", i)
		out := decode[action.Outcome[action.None]](t, w)
		assert.True(t, out.Success)
		assert.Equal(t, want, out.Message)
	}

	page, err := a.svc.Newsletters.List(context.Background(), listing.Request{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalCount)
}

func TestPublicSubmitRateLimited(t *testing.T) {
	a := newTestAPI(t)

	var last int
	for range submitsPerMinute + 1 {
		req := httptest.NewRequest(http.MethodPost, "/public/newsletter", strings.NewReader(`{"email":"a@example.com"}`))
		w := httptest.NewRecorder()
		a.router.ServeHTTP(w, req)
		last = w.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}
