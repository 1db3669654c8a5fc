// Parlor - Social Networking Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/parlor

package postgres

import (
	"context"
	"fmt"

	"github.com/tomtom215/parlor/internal/store"
)

// IsFollowing reports whether the follower -> followed edge exists.
func (s *Store) IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM followers
			WHERE follower_id = $1 AND followed_id = $2
		)`, followerID, followedID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check follow edge: %w", err)
	}
	return exists, nil
}

// ToggleFollow removes the edge when present, creates it otherwise, and
// reports whether the edge exists afterwards. A concurrent duplicate
// insert hits the primary key and is treated as already-following.
func (s *Store) ToggleFollow(ctx context.Context, followerID, followedID int64) (bool, error) {
	if followerID == followedID {
		return false, store.ErrSelfAction
	}

	tag, err := s.pool.Exec(ctx, `
		DELETE FROM followers
		WHERE follower_id = $1 AND followed_id = $2`, followerID, followedID)
	if err != nil {
		return false, fmt.Errorf("failed to remove follow edge: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO followers (follower_id, followed_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, followed_id) DO NOTHING`,
		followerID, followedID)
	if err != nil && !isUniqueViolation(err) {
		return false, fmt.Errorf("failed to create follow edge: %w", err)
	}
	return true, nil
}
