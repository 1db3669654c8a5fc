// Parlor - Social Networking Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/parlor

// Package store defines the persistence interface for Parlor and the
// sentinel errors implementations translate driver errors into. Two
// implementations exist: postgres (production) and inmemory (tests).
package store

import (
	"context"
	"errors"

	"github.com/tomtom215/parlor/internal/models"
)

// Sentinel errors returned by all implementations. Handlers map these to
// HTTP statuses without knowing the backing driver.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate indicates a unique constraint was violated.
	ErrDuplicate = errors.New("duplicate record")

	// ErrSelfAction indicates a reflexive edge (self-follow, self-message).
	ErrSelfAction = errors.New("action targets own account")
)

// CreateUserParams carries the fields needed to register an account.
type CreateUserParams struct {
	Username     string
	Email        string
	PasswordHash string
}

// UpdateProfileParams carries a partial profile update. Nil fields keep
// their current value.
type UpdateProfileParams struct {
	FullName       *string
	Bio            *string
	ProfilePicture *string
	CoverPhoto     *string
	Location       *string
	Website        *string
	Occupation     *string
	Interests      *string
	Pronouns       *string
	IsPrivate      *bool
}

// PostFilter selects which posts a query returns.
type PostFilter struct {
	MediaOnly bool
	Limit     int
	Offset    int
}

// UserStore manages accounts and profiles.
type UserStore interface {
	CreateUser(ctx context.Context, p CreateUserParams) (*models.User, error)
	UserByID(ctx context.Context, id int64) (*models.User, error)
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, p UpdateProfileParams) (*models.User, error)
	SearchUsers(ctx context.Context, query string, limit int) ([]models.UserSummary, error)

	// FollowCounts returns (followers, following) for the user.
	FollowCounts(ctx context.Context, userID int64) (int64, int64, error)
}

// FollowStore manages the follower graph.
type FollowStore interface {
	IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error)

	// ToggleFollow flips the edge and reports whether it now exists.
	ToggleFollow(ctx context.Context, followerID, followedID int64) (bool, error)
}

// PostStore manages posts, comments, and likes.
type PostStore interface {
	CreatePost(ctx context.Context, userID int64, content, imageURL string) (*models.Post, error)
	PostByID(ctx context.Context, id int64) (*models.Post, error)
	GlobalFeed(ctx context.Context, limit, offset int) ([]models.Post, error)
	PostsByUser(ctx context.Context, userID int64, f PostFilter) ([]models.Post, error)
	PostsLikedBy(ctx context.Context, userID int64, limit, offset int) ([]models.Post, error)

	CreateComment(ctx context.Context, postID, userID int64, content string) (*models.Comment, error)
	CommentsForPost(ctx context.Context, postID int64) ([]models.Comment, error)

	// ToggleLike flips the like and returns (liked, new like count).
	ToggleLike(ctx context.Context, userID, postID int64) (bool, int64, error)
	HasLiked(ctx context.Context, userID, postID int64) (bool, error)
}

// MessageStore manages direct messages.
type MessageStore interface {
	CreateMessage(ctx context.Context, senderID, recipientID int64, content string) (*models.Message, error)
	Conversations(ctx context.Context, userID int64) ([]models.Conversation, error)
	Thread(ctx context.Context, userID, otherID int64) ([]models.Message, error)
}

// Store aggregates all persistence concerns behind one handle.
type Store interface {
	UserStore
	FollowStore
	PostStore
	MessageStore

	Ping(ctx context.Context) error
	Close()
}
