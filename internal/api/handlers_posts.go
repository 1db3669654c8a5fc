// Parlor - Social Networking Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/parlor

package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/parlor/internal/authz"
	"github.com/tomtom215/parlor/internal/metrics"
	"github.com/tomtom215/parlor/internal/models"
	"github.com/tomtom215/parlor/internal/store"
)

type createPostRequest struct {
	Content  string `json:"content" validate:"required,max=5000"`
	ImageURL string `json:"image_url" validate:"omitempty,max=512"`
}

type createCommentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

// CreatePost creates a post and broadcasts it to connected clients.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}

	var req createPostRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ImageURL != "" && !strings.HasPrefix(req.ImageURL, "/uploads/") {
		respondError(w, http.StatusBadRequest, "image_url must reference an uploaded image")
		return
	}

	post, err := h.store.CreatePost(r.Context(), identity.ID, req.Content, req.ImageURL)
	if err != nil {
		respondInternal(w, r, err)
		return
	}

	metrics.PostsCreated.Inc()
	h.hub.BroadcastNewPost(post)

	respondJSON(w, http.StatusCreated, post)
}

// Feed returns the global feed, newest first. Posts by private accounts
// the viewer does not follow are filtered out.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	limit, offset := h.pagination(r)

	posts, err := h.store.GlobalFeed(r.Context(), limit, offset)
	if err != nil {
		respondInternal(w, r, err)
		return
	}

	visible, err := h.filterVisible(r, posts)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, visible)
}

// PostsByUser returns one user's posts. ?media=true keeps only posts
// with an image.
func (h *Handler) PostsByUser(w http.ResponseWriter, r *http.Request) {
	user, ok := h.visibleUser(w, r, "posts")
	if !ok {
		return
	}

	limit, offset := h.pagination(r)
	posts, err := h.store.PostsByUser(r.Context(), user.ID, store.PostFilter{
		MediaOnly: r.URL.Query().Get("media") == "true",
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

// PostsLikedBy returns the posts a user has liked, most recent like
// first. Liked posts whose own authors are hidden from the viewer are
// filtered out as well.
func (h *Handler) PostsLikedBy(w http.ResponseWriter, r *http.Request) {
	user, ok := h.visibleUser(w, r, "likes")
	if !ok {
		return
	}

	limit, offset := h.pagination(r)
	posts, err := h.store.PostsLikedBy(r.Context(), user.ID, limit, offset)
	if err != nil {
		respondInternal(w, r, err)
		return
	}

	visible, err := h.filterVisible(r, posts)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, visible)
}

// Post returns a single post by id.
func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	post, ok := h.viewablePost(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, post)
}

// Comments returns a post's comments, oldest first.
func (h *Handler) Comments(w http.ResponseWriter, r *http.Request) {
	post, ok := h.viewablePost(w, r)
	if !ok {
		return
	}

	comments, err := h.store.CommentsForPost(r.Context(), post.ID)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, comments)
}

// CreateComment adds a comment to a post, gated by the interaction rules.
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}

	var req createCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	post, ok := h.interactablePost(w, r)
	if !ok {
		return
	}

	comment, err := h.store.CreateComment(r.Context(), post.ID, identity.ID, req.Content)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, comment)
}

// ToggleLike flips the like on a post and returns the new state along
// with the post's like count.
func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}

	post, ok := h.interactablePost(w, r)
	if !ok {
		return
	}

	liked, likeCount, err := h.store.ToggleLike(r.Context(), identity.ID, post.ID)
	if err != nil {
		respondInternal(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"liked":      liked,
		"like_count": likeCount,
	})
}

// LikeStatus reports whether the authenticated user has liked the post.
func (h *Handler) LikeStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}

	post, ok := h.viewablePost(w, r)
	if !ok {
		return
	}

	liked, err := h.store.HasLiked(r.Context(), identity.ID, post.ID)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"isLiked": liked})
}

// visibleUser resolves the {username} parameter and applies the view
// gate. On denial it writes the response and returns false.
func (h *Handler) visibleUser(w http.ResponseWriter, r *http.Request, resource string) (*models.User, bool) {
	username := chi.URLParam(r, "username")

	user, err := h.store.UserByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "user not found")
			return nil, false
		}
		respondInternal(w, r, err)
		return nil, false
	}

	allowed, err := h.authz.CanView(r.Context(), viewer(r), user.ID, user.IsPrivate)
	if err != nil {
		respondInternal(w, r, err)
		return nil, false
	}
	if !allowed {
		metrics.RecordVisibilityDenial(resource)
		respondError(w, http.StatusForbidden, msgAccountPrivate)
		return nil, false
	}
	return user, true
}

// viewablePost resolves the {id} parameter and applies the view gate
// against the post's author.
func (h *Handler) viewablePost(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	return h.gatedPost(w, r, h.authz.CanView)
}

// interactablePost is viewablePost with the stricter interaction gate.
func (h *Handler) interactablePost(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	return h.gatedPost(w, r, h.authz.CanInteract)
}

func (h *Handler) gatedPost(
	w http.ResponseWriter,
	r *http.Request,
	gate func(ctx context.Context, v *authz.Viewer, ownerID int64, ownerPrivate bool) (bool, error),
) (*models.Post, bool) {
	postID, err := pathInt64(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid post id")
		return nil, false
	}

	post, err := h.store.PostByID(r.Context(), postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "post not found")
			return nil, false
		}
		respondInternal(w, r, err)
		return nil, false
	}

	allowed, err := gate(r.Context(), viewer(r), post.UserID, post.AuthorPrivate)
	if err != nil {
		respondInternal(w, r, err)
		return nil, false
	}
	if !allowed {
		metrics.RecordVisibilityDenial("post")
		respondError(w, http.StatusForbidden, msgAccountPrivate)
		return nil, false
	}
	return post, true
}

// filterVisible drops posts whose authors the viewer may not see. The
// verdict is cached per author since feeds repeat authors heavily.
func (h *Handler) filterVisible(r *http.Request, posts []models.Post) ([]models.Post, error) {
	v := viewer(r)
	verdicts := make(map[int64]bool)

	visible := make([]models.Post, 0, len(posts))
	for _, post := range posts {
		allowed, ok := verdicts[post.UserID]
		if !ok {
			var err error
			allowed, err = h.authz.CanView(r.Context(), v, post.UserID, post.AuthorPrivate)
			if err != nil {
				return nil, err
			}
			verdicts[post.UserID] = allowed
		}
		if allowed {
			visible = append(visible, post)
		}
	}
	return visible, nil
}
