// Parlor - Social Networking Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/parlor

package postgres

import (
	"context"
	"fmt"
)

// schemaStatements are executed in order at startup. Every statement is
// idempotent so restarts are safe.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id              BIGSERIAL PRIMARY KEY,
		username        TEXT NOT NULL UNIQUE,
		email           TEXT NOT NULL UNIQUE,
		password_hash   TEXT NOT NULL,
		full_name       TEXT NOT NULL DEFAULT '',
		bio             TEXT NOT NULL DEFAULT '',
		profile_picture TEXT NOT NULL DEFAULT '',
		cover_photo     TEXT NOT NULL DEFAULT '',
		location        TEXT NOT NULL DEFAULT '',
		website         TEXT NOT NULL DEFAULT '',
		occupation      TEXT NOT NULL DEFAULT '',
		interests       TEXT NOT NULL DEFAULT '',
		pronouns        TEXT NOT NULL DEFAULT '',
		is_private      BOOLEAN NOT NULL DEFAULT FALSE,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS followers (
		follower_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		followed_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (follower_id, followed_id),
		CHECK (follower_id <> followed_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_followers_followed
		ON followers (followed_id)`,

	`CREATE TABLE IF NOT EXISTS posts (
		id         BIGSERIAL PRIMARY KEY,
		user_id    BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		content    TEXT NOT NULL,
		image_url  TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_user_created
		ON posts (user_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_created
		ON posts (created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS comments (
		id         BIGSERIAL PRIMARY KEY,
		post_id    BIGINT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
		user_id    BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		content    TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_post_created
		ON comments (post_id, created_at)`,

	`CREATE TABLE IF NOT EXISTS likes (
		user_id    BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		post_id    BIGINT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (user_id, post_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_likes_post
		ON likes (post_id)`,

	`CREATE TABLE IF NOT EXISTS messages (
		id           BIGSERIAL PRIMARY KEY,
		sender_id    BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		recipient_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		content      TEXT NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		CHECK (sender_id <> recipient_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_pair
		ON messages (sender_id, recipient_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_recipient
		ON messages (recipient_id, created_at)`,
}

// migrate creates missing tables and indexes.
func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}
