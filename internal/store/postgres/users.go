// Parlor - Social Networking Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/parlor

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tomtom215/parlor/internal/models"
	"github.com/tomtom215/parlor/internal/store"
)

// userColumns is the canonical column list scanned into models.User.
const userColumns = `id, username, email, password_hash, full_name, bio,
	profile_picture, cover_photo, location, website, occupation, interests,
	pronouns, is_private, created_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName, &u.Bio,
		&u.ProfilePicture, &u.CoverPhoto, &u.Location, &u.Website,
		&u.Occupation, &u.Interests, &u.Pronouns, &u.IsPrivate, &u.CreatedAt,
	)
	if err != nil {
		if noRows(err) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

// CreateUser inserts a new account. A unique violation on username or
// email maps to store.ErrDuplicate.
func (s *Store) CreateUser(ctx context.Context, p store.CreateUserParams) (*models.User, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash)
		VALUES (@username, @email, @password_hash)
		RETURNING `+userColumns,
		pgx.NamedArgs{
			"username":      p.Username,
			"email":         p.Email,
			"password_hash": p.PasswordHash,
		})

	u, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrDuplicate
		}
		return nil, err
	}
	return u, nil
}

// UserByID fetches a user by primary key.
func (s *Store) UserByID(ctx context.Context, id int64) (*models.User, error) {
	return scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// UserByUsername fetches a user by username.
func (s *Store) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	return scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

// UserByEmail fetches a user by email, for login.
func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// UpdateProfile applies a partial update and returns the updated record.
// COALESCE keeps the stored value wherever the parameter is NULL.
func (s *Store) UpdateProfile(ctx context.Context, userID int64, p store.UpdateProfileParams) (*models.User, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE users SET
			full_name       = COALESCE(@full_name, full_name),
			bio             = COALESCE(@bio, bio),
			profile_picture = COALESCE(@profile_picture, profile_picture),
			cover_photo     = COALESCE(@cover_photo, cover_photo),
			location        = COALESCE(@location, location),
			website         = COALESCE(@website, website),
			occupation      = COALESCE(@occupation, occupation),
			interests       = COALESCE(@interests, interests),
			pronouns        = COALESCE(@pronouns, pronouns),
			is_private      = COALESCE(@is_private, is_private)
		WHERE id = @id
		RETURNING `+userColumns,
		pgx.NamedArgs{
			"id":              userID,
			"full_name":       p.FullName,
			"bio":             p.Bio,
			"profile_picture": p.ProfilePicture,
			"cover_photo":     p.CoverPhoto,
			"location":        p.Location,
			"website":         p.Website,
			"occupation":      p.Occupation,
			"interests":       p.Interests,
			"pronouns":        p.Pronouns,
			"is_private":      p.IsPrivate,
		})

	return scanUser(row)
}

// SearchUsers matches username or full name, case-insensitively.
func (s *Store) SearchUsers(ctx context.Context, query string, limit int) ([]models.UserSummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, username, full_name, profile_picture, is_private
		FROM users
		WHERE username ILIKE '%' || $1 || '%'
		   OR full_name ILIKE '%' || $1 || '%'
		ORDER BY username
		LIMIT $2`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	defer rows.Close()

	results := make([]models.UserSummary, 0, limit)
	for rows.Next() {
		var u models.UserSummary
		if err := rows.Scan(&u.ID, &u.Username, &u.FullName, &u.ProfilePicture, &u.IsPrivate); err != nil {
			return nil, fmt.Errorf("failed to scan user summary: %w", err)
		}
		results = append(results, u)
	}
	return results, rows.Err()
}

// FollowCounts returns (followers, following) for the user.
func (s *Store) FollowCounts(ctx context.Context, userID int64) (int64, int64, error) {
	var followers, following int64
	err := s.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM followers WHERE followed_id = $1),
			(SELECT COUNT(*) FROM followers WHERE follower_id = $1)`,
		userID).Scan(&followers, &following)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count follows: %w", err)
	}
	return followers, following, nil
}
