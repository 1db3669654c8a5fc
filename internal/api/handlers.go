// Parlor - Social Networking Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/parlor

// Package api provides the HTTP handlers and Chi routing for Parlor.
package api

import (
	"net/http"

	"github.com/tomtom215/parlor/internal/auth"
	"github.com/tomtom215/parlor/internal/authz"
	"github.com/tomtom215/parlor/internal/config"
	"github.com/tomtom215/parlor/internal/store"
	"github.com/tomtom215/parlor/internal/uploads"
	"github.com/tomtom215/parlor/internal/websocket"
)

// Handler implements all API endpoints.
type Handler struct {
	store   store.Store
	authz   *authz.Authorizer
	hub     *websocket.Hub
	uploads *uploads.Storage
	jwt     *auth.JWTManager
	authMW  *auth.Middleware
	cfg     *config.Config
}

// NewHandler creates the API handler.
func NewHandler(
	st store.Store,
	az *authz.Authorizer,
	hub *websocket.Hub,
	up *uploads.Storage,
	jwt *auth.JWTManager,
	authMW *auth.Middleware,
	cfg *config.Config,
) *Handler {
	return &Handler{
		store:   st,
		authz:   az,
		hub:     hub,
		uploads: up,
		jwt:     jwt,
		authMW:  authMW,
		cfg:     cfg,
	}
}

// HealthLive reports process liveness.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HealthReady reports readiness, including database connectivity.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"reason": "database unreachable",
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
