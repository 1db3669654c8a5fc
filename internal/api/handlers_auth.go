// Parlor - Social Networking Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/parlor

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/parlor/internal/auth"
	"github.com/tomtom215/parlor/internal/logging"
	"github.com/tomtom215/parlor/internal/metrics"
	"github.com/tomtom215/parlor/internal/models"
	"github.com/tomtom215/parlor/internal/store"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30,alphanum"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register creates an account and returns a token plus the new profile.
// Duplicate username and duplicate email share one message so the
// response does not confirm which is taken.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	hash, err := auth.HashPassword(req.Password, h.cfg.Security.BcryptCost)
	if err != nil {
		respondInternal(w, r, err)
		return
	}

	user, err := h.store.CreateUser(r.Context(), store.CreateUserParams{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			respondError(w, http.StatusBadRequest, "username or email already in use")
			return
		}
		respondInternal(w, r, err)
		return
	}

	token, err := h.jwt.GenerateToken(user.ID, user.Username)
	if err != nil {
		respondInternal(w, r, err)
		return
	}

	metrics.AccountsRegistered.Inc()
	logging.Ctx(r.Context()).Info().
		Int64("user_id", user.ID).
		Str("username", user.Username).
		Msg("account registered")

	respondJSON(w, http.StatusCreated, models.AuthResponse{
		Token: token,
		User:  user.OwnProfile(0, 0),
	})
}

// Login verifies credentials and returns a token. Unknown email and wrong
// password produce the same 401 response.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.store.UserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusUnauthorized, msgInvalidCredentials)
			return
		}
		respondInternal(w, r, err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		respondError(w, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	token, err := h.jwt.GenerateToken(user.ID, user.Username)
	if err != nil {
		respondInternal(w, r, err)
		return
	}

	followers, following, err := h.store.FollowCounts(r.Context(), user.ID)
	if err != nil {
		respondInternal(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, models.AuthResponse{
		Token: token,
		User:  user.OwnProfile(followers, following),
	})
}
