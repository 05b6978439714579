// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartFile(t *testing.T, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "upload.bin")
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func (e *testEnv) upload(data []byte) (*http.Response, map[string]any) {
	e.t.Helper()
	body, ct := multipartFile(e.t, data)
	req, err := http.NewRequest(http.MethodPost, e.srv.URL+"/admin/upload", body)
	require.NoError(e.t, err)
	req.Header.Set("Content-Type", ct)
	resp, raw := e.do(req)

	var out map[string]any
	require.NoError(e.t, json.Unmarshal([]byte(raw), &out), raw)
	return resp, out
}

func TestUploadImage(t *testing.T) {
	env := newTestEnv(t, 10)

	resp, out := env.upload(pngBytes(t))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Regexp(t, `^/uploads/.+\.png$`, out["url"])
	assert.NotEmpty(t, out["thumbUrl"])
}

func TestUploadRejectsUnsupported(t *testing.T) {
	env := newTestEnv(t, 10)

	resp, out := env.upload([]byte("just some text, not an image"))
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
	assert.NotEmpty(t, out["error"])
}

func TestUploadRejectsTooLarge(t *testing.T) {
	env := newTestEnv(t, 10)

	big := append(pngBytes(t), make([]byte, 1<<20+1<<19)...)
	resp, out := env.upload(big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.NotEmpty(t, out["error"])
}

func TestUploadWithoutFile(t *testing.T) {
	env := newTestEnv(t, 10)

	resp, body := env.post("/admin/upload", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "No file uploaded")
}

func TestSlug(t *testing.T) {
	env := newTestEnv(t, 10)

	resp, body := env.get("/admin/slug?text=Cr%C3%A8me%20br%C3%BBl%C3%A9e")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"slug":"creme-brulee"}`, body)
}
