// Parlor - Social Networking Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/parlor

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/parlor/internal/metrics"
	"github.com/tomtom215/parlor/internal/store"
)

type updateProfileRequest struct {
	FullName       *string `json:"full_name" validate:"omitempty,max=100"`
	Bio            *string `json:"bio" validate:"omitempty,max=500"`
	ProfilePicture *string `json:"profile_picture" validate:"omitempty,max=512"`
	CoverPhoto     *string `json:"cover_photo" validate:"omitempty,max=512"`
	Location       *string `json:"location" validate:"omitempty,max=100"`
	Website        *string `json:"website" validate:"omitempty,max=200"`
	Occupation     *string `json:"occupation" validate:"omitempty,max=100"`
	Interests      *string `json:"interests" validate:"omitempty,max=500"`
	Pronouns       *string `json:"pronouns" validate:"omitempty,max=50"`
	IsPrivate      *bool   `json:"is_private"`
}

// Me returns the authenticated user's own profile, email included.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}

	user, err := h.store.UserByID(r.Context(), identity.ID)
	if err != nil {
		respondInternal(w, r, err)
		return
	}

	followers, following, err := h.store.FollowCounts(r.Context(), user.ID)
	if err != nil {
		respondInternal(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, user.OwnProfile(followers, following))
}

// UpdateMe applies a partial profile update. Absent fields keep their
// current value.
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}

	var req updateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.store.UpdateProfile(r.Context(), identity.ID, store.UpdateProfileParams{
		FullName:       req.FullName,
		Bio:            req.Bio,
		ProfilePicture: req.ProfilePicture,
		CoverPhoto:     req.CoverPhoto,
		Location:       req.Location,
		Website:        req.Website,
		Occupation:     req.Occupation,
		Interests:      req.Interests,
		Pronouns:       req.Pronouns,
		IsPrivate:      req.IsPrivate,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, msgNotFound)
			return
		}
		respondInternal(w, r, err)
		return
	}

	followers, following, err := h.store.FollowCounts(r.Context(), user.ID)
	if err != nil {
		respondInternal(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, user.OwnProfile(followers, following))
}

// UserProfile returns another user's public profile, gated by the
// visibility rules for private accounts.
func (h *Handler) UserProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := h.store.UserByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "user not found")
			return
		}
		respondInternal(w, r, err)
		return
	}

	v := viewer(r)
	allowed, err := h.authz.CanView(r.Context(), v, user.ID, user.IsPrivate)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	if !allowed {
		metrics.RecordVisibilityDenial("profile")
		respondError(w, http.StatusForbidden, msgAccountPrivate)
		return
	}

	followers, following, err := h.store.FollowCounts(r.Context(), user.ID)
	if err != nil {
		respondInternal(w, r, err)
		return
	}

	if v != nil && v.ID == user.ID {
		respondJSON(w, http.StatusOK, user.OwnProfile(followers, following))
		return
	}
	respondJSON(w, http.StatusOK, user.PublicProfile(followers, following))
}

// SearchUsers finds users whose username or full name contains the query.
func (h *Handler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondError(w, http.StatusBadRequest, "q is required")
		return
	}

	limit, _ := h.pagination(r)
	results, err := h.store.SearchUsers(r.Context(), query, limit)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, results)
}

// ToggleFollow flips the follow edge toward the target user and reports
// the new state.
func (h *Handler) ToggleFollow(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}

	targetID, err := pathInt64(r, "userID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if _, err := h.store.UserByID(r.Context(), targetID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "user not found")
			return
		}
		respondInternal(w, r, err)
		return
	}

	following, err := h.store.ToggleFollow(r.Context(), identity.ID, targetID)
	if err != nil {
		if errors.Is(err, store.ErrSelfAction) {
			respondError(w, http.StatusBadRequest, "cannot follow yourself")
			return
		}
		respondInternal(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"following": following})
}

// FollowStatus reports whether the authenticated user follows the target.
func (h *Handler) FollowStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}

	targetID, err := pathInt64(r, "userID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	following, err := h.store.IsFollowing(r.Context(), identity.ID, targetID)
	if err != nil {
		respondInternal(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"isFollowing": following})
}
