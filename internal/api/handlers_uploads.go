// Parlor - Social Networking Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/parlor

package api

import (
	"errors"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/parlor/internal/uploads"
)

// multipartOverhead covers boundaries and part headers beyond the file
// payload itself.
const multipartOverhead = 64 * 1024

// Upload accepts a multipart image in the "image" field and stores it
// under a generated name.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if _, ok := identityOrFail(w, r); !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.uploads.MaxBytes()+multipartOverhead)

	file, _, err := r.FormFile("image")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respondError(w, http.StatusBadRequest, "file exceeds the upload size limit")
			return
		}
		respondError(w, http.StatusBadRequest, "multipart field \"image\" is required")
		return
	}
	defer file.Close() //nolint:errcheck

	name, err := h.uploads.Save(file)
	if err != nil {
		switch {
		case errors.Is(err, uploads.ErrTooLarge):
			respondError(w, http.StatusBadRequest, "file exceeds the upload size limit")
		case errors.Is(err, uploads.ErrUnsupportedType):
			respondError(w, http.StatusBadRequest, "only JPEG and PNG images are accepted")
		default:
			respondInternal(w, r, err)
		}
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"url": "/uploads/" + name})
}

// ServeUpload serves a stored image by filename.
func (h *Handler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "file")

	f, err := h.uploads.Open(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			respondError(w, http.StatusNotFound, msgNotFound)
			return
		}
		respondInternal(w, r, err)
		return
	}
	defer f.Close() //nolint:errcheck

	info, err := f.Stat()
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	http.ServeContent(w, r, name, info.ModTime(), f)
}
