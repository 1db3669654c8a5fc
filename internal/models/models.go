// Parlor - Social Networking Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/parlor

// Package models defines the domain types shared across the API, store,
// and realtime layers.
package models

import "time"

// User is the full account record as stored. PasswordHash and Email are
// never serialized to other users; handlers build Profile or UserSummary
// views from it.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email,omitempty"`
	PasswordHash   string    `json:"-"`
	FullName       string    `json:"full_name"`
	Bio            string    `json:"bio"`
	ProfilePicture string    `json:"profile_picture"`
	CoverPhoto     string    `json:"cover_photo"`
	Location       string    `json:"location"`
	Website        string    `json:"website"`
	Occupation     string    `json:"occupation"`
	Interests      string    `json:"interests"`
	Pronouns       string    `json:"pronouns"`
	IsPrivate      bool      `json:"is_private"`
	CreatedAt      time.Time `json:"created_at"`
}

// Profile is the outward-facing view of a user, with follow counts.
type Profile struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email,omitempty"`
	FullName       string    `json:"full_name"`
	Bio            string    `json:"bio"`
	ProfilePicture string    `json:"profile_picture"`
	CoverPhoto     string    `json:"cover_photo"`
	Location       string    `json:"location"`
	Website        string    `json:"website"`
	Occupation     string    `json:"occupation"`
	Interests      string    `json:"interests"`
	Pronouns       string    `json:"pronouns"`
	IsPrivate      bool      `json:"is_private"`
	CreatedAt      time.Time `json:"created_at"`
	FollowerCount  int64     `json:"follower_count"`
	FollowingCount int64     `json:"following_count"`
}

// PublicProfile strips fields that only the account owner may see.
func (u *User) PublicProfile(followers, following int64) *Profile {
	p := u.OwnProfile(followers, following)
	p.Email = ""
	return p
}

// OwnProfile is the profile view returned to the account owner.
func (u *User) OwnProfile(followers, following int64) *Profile {
	return &Profile{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		FullName:       u.FullName,
		Bio:            u.Bio,
		ProfilePicture: u.ProfilePicture,
		CoverPhoto:     u.CoverPhoto,
		Location:       u.Location,
		Website:        u.Website,
		Occupation:     u.Occupation,
		Interests:      u.Interests,
		Pronouns:       u.Pronouns,
		IsPrivate:      u.IsPrivate,
		CreatedAt:      u.CreatedAt,
		FollowerCount:  followers,
		FollowingCount: following,
	}
}

// UserSummary is the compact author/search representation.
type UserSummary struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	FullName       string `json:"full_name"`
	ProfilePicture string `json:"profile_picture"`
	IsPrivate      bool   `json:"is_private"`
}

// Post is a post joined with its author and derived like count.
// AuthorPrivate is used by visibility filtering and never serialized.
type Post struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	Username       string    `json:"username"`
	ProfilePicture string    `json:"profile_picture"`
	Content        string    `json:"content"`
	ImageURL       string    `json:"image_url,omitempty"`
	LikeCount      int64     `json:"like_count"`
	CommentCount   int64     `json:"comment_count"`
	CreatedAt      time.Time `json:"created_at"`
	AuthorPrivate  bool      `json:"-"`
}

// Comment is a comment joined with its author.
type Comment struct {
	ID             int64     `json:"id"`
	PostID         int64     `json:"post_id"`
	UserID         int64     `json:"user_id"`
	Username       string    `json:"username"`
	ProfilePicture string    `json:"profile_picture"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// Message is a direct message joined with the sender's summary.
type Message struct {
	ID             int64     `json:"id"`
	SenderID       int64     `json:"sender_id"`
	RecipientID    int64     `json:"recipient_id"`
	SenderUsername string    `json:"sender_username"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// Conversation is one row of the conversation list: the counterpart plus
// the most recent message exchanged with them.
type Conversation struct {
	UserID         int64     `json:"user_id"`
	Username       string    `json:"username"`
	ProfilePicture string    `json:"profile_picture"`
	LastMessage    string    `json:"last_message"`
	LastMessageAt  time.Time `json:"last_message_at"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string   `json:"token"`
	User  *Profile `json:"user"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Event is a realtime frame pushed over the websocket relay.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Realtime event types.
const (
	EventNewPost    = "new_post"
	EventNewMessage = "new_message"
)
