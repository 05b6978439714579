// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"net/http"

	"github.com/olegiv/vitrine/internal/imaging"
	"github.com/olegiv/vitrine/internal/util"
)

// multipart overhead allowed on top of the file size limit
const uploadSlack = 1 << 20

// Upload stores one media file posted as the "file" field and replies
// with its public URLs.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.uploads == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "Uploads are not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.uploads.MaxBytes()+uploadSlack)
	file, _, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSONError(w, http.StatusRequestEntityTooLarge, imaging.ErrTooLarge.Error())
			return
		}
		writeJSONError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer func() { _ = file.Close() }()

	up, err := h.uploads.Save(file)
	switch {
	case err == nil:
		h.logger.Info("file uploaded", "name", up.Name, "mime_type", up.MimeType, "size", up.Size)
		writeJSON(w, http.StatusCreated, up)
	case errors.Is(err, imaging.ErrTooLarge):
		writeJSONError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, imaging.ErrUnsupported):
		writeJSONError(w, http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, imaging.ErrInvalid), errors.Is(err, imaging.ErrEmpty):
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.logger.Error("storing upload failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Upload failed")
	}
}

// Slug replies with the slug derived from ?text=.
func (h *Handler) Slug(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"slug": util.Slugify(r.URL.Query().Get("text"))})
}
