// Parlor - Social Networking Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/parlor

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/parlor/internal/auth"
	"github.com/tomtom215/parlor/internal/authz"
	"github.com/tomtom215/parlor/internal/logging"
	"github.com/tomtom215/parlor/internal/models"
	"github.com/tomtom215/parlor/internal/validation"
)

// Canonical response messages. Privacy denials share one message so the
// response never reveals whether a follow edge exists.
const (
	msgInvalidCredentials = "invalid email or password"
	msgAccountPrivate     = "this profile is private"
	msgNotFound           = "not found"
	msgInternalError      = "internal server error"
)

// respondJSON writes v as a JSON response.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("failed to write JSON response")
	}
}

// respondError writes the uniform error envelope.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, models.ErrorResponse{Error: message})
}

// respondInternal logs the error and hides it behind a generic 500.
func respondInternal(w http.ResponseWriter, r *http.Request, err error) {
	logging.Ctx(r.Context()).Error().Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("request failed")
	respondError(w, http.StatusInternalServerError, msgInternalError)
}

// decodeJSON decodes and validates a request body. On failure it writes a
// 400 response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := validation.ValidateStruct(v); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// viewer converts the request identity into an authorizer viewer.
// Anonymous requests yield nil.
func viewer(r *http.Request) *authz.Viewer {
	identity := auth.IdentityFromContext(r.Context())
	if identity == nil {
		return nil
	}
	return &authz.Viewer{ID: identity.ID}
}

// identityOrFail returns the authenticated identity. Routes behind the
// Authenticate middleware always have one; the nil check guards against
// middleware wiring mistakes.
func identityOrFail(w http.ResponseWriter, r *http.Request) (*auth.Identity, bool) {
	identity := auth.IdentityFromContext(r.Context())
	if identity == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}
	return identity, true
}

// pathInt64 parses a numeric chi URL parameter.
func pathInt64(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, key), 10, 64)
}

// pagination reads limit/offset query parameters, clamped to the
// configured bounds.
func (h *Handler) pagination(r *http.Request) (limit, offset int) {
	limit = h.cfg.API.DefaultPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > h.cfg.API.MaxPageSize {
		limit = h.cfg.API.MaxPageSize
	}

	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}
