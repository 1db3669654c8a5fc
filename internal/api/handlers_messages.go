// Parlor - Social Networking Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/parlor

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/parlor/internal/metrics"
	"github.com/tomtom215/parlor/internal/store"
)

type sendMessageRequest struct {
	RecipientID int64  `json:"recipient_id" validate:"required,gt=0"`
	Content     string `json:"content" validate:"required,max=5000"`
}

// SendMessage delivers a direct message: persisted first, then relayed to
// both participants' open sockets.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}

	var req sendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	recipient, err := h.store.UserByID(r.Context(), req.RecipientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "user not found")
			return
		}
		respondInternal(w, r, err)
		return
	}

	allowed, err := h.authz.CanInteract(r.Context(), viewer(r), recipient.ID, recipient.IsPrivate)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	if !allowed {
		metrics.RecordVisibilityDenial("message")
		respondError(w, http.StatusForbidden, msgAccountPrivate)
		return
	}

	message, err := h.store.CreateMessage(r.Context(), identity.ID, recipient.ID, req.Content)
	if err != nil {
		if errors.Is(err, store.ErrSelfAction) {
			respondError(w, http.StatusBadRequest, "cannot message yourself")
			return
		}
		respondInternal(w, r, err)
		return
	}

	metrics.MessagesSent.Inc()
	h.hub.SendNewMessage(message)

	respondJSON(w, http.StatusCreated, message)
}

// Conversations lists the authenticated user's conversation partners,
// most recent exchange first.
func (h *Handler) Conversations(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}

	conversations, err := h.store.Conversations(r.Context(), identity.ID)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, conversations)
}

// Thread returns the full message history with one user, oldest first.
func (h *Handler) Thread(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}

	otherID, err := pathInt64(r, "userID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if _, err := h.store.UserByID(r.Context(), otherID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "user not found")
			return
		}
		respondInternal(w, r, err)
		return
	}

	messages, err := h.store.Thread(r.Context(), identity.ID, otherID)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, messages)
}
