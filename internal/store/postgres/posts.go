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

// postColumns joins posts with their author and derives like and comment
// counts. Every post query goes through this single fragment so list and
// detail responses can never disagree on counts.
const postColumns = `
	p.id, p.user_id, u.username, u.profile_picture, p.content, p.image_url,
	(SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id),
	(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id),
	p.created_at, u.is_private`

const postFrom = ` FROM posts p JOIN users u ON u.id = p.user_id`

func scanPost(row pgx.Row) (*models.Post, error) {
	var p models.Post
	err := row.Scan(
		&p.ID, &p.UserID, &p.Username, &p.ProfilePicture, &p.Content,
		&p.ImageURL, &p.LikeCount, &p.CommentCount, &p.CreatedAt,
		&p.AuthorPrivate,
	)
	if err != nil {
		if noRows(err) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan post: %w", err)
	}
	return &p, nil
}

func (s *Store) queryPosts(ctx context.Context, sql string, args ...any) ([]models.Post, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	posts := make([]models.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// CreatePost inserts a post and returns the joined representation.
func (s *Store) CreatePost(ctx context.Context, userID int64, content, imageURL string) (*models.Post, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO posts (user_id, content, image_url)
		VALUES ($1, $2, $3)
		RETURNING id`, userID, content, imageURL).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return s.PostByID(ctx, id)
}

// PostByID fetches a single post with author and counts.
func (s *Store) PostByID(ctx context.Context, id int64) (*models.Post, error) {
	return scanPost(s.pool.QueryRow(ctx,
		`SELECT`+postColumns+postFrom+` WHERE p.id = $1`, id))
}

// GlobalFeed returns all posts, newest first. Visibility filtering
// happens above the store.
func (s *Store) GlobalFeed(ctx context.Context, limit, offset int) ([]models.Post, error) {
	return s.queryPosts(ctx,
		`SELECT`+postColumns+postFrom+`
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $1 OFFSET $2`, limit, offset)
}

// PostsByUser returns one author's posts, newest first, optionally
// restricted to posts carrying an image.
func (s *Store) PostsByUser(ctx context.Context, userID int64, f store.PostFilter) ([]models.Post, error) {
	sql := `SELECT` + postColumns + postFrom + ` WHERE p.user_id = $1`
	if f.MediaOnly {
		sql += ` AND p.image_url <> ''`
	}
	sql += ` ORDER BY p.created_at DESC, p.id DESC LIMIT $2 OFFSET $3`
	return s.queryPosts(ctx, sql, userID, f.Limit, f.Offset)
}

// PostsLikedBy returns the posts a user has liked, most recently liked
// first.
func (s *Store) PostsLikedBy(ctx context.Context, userID int64, limit, offset int) ([]models.Post, error) {
	return s.queryPosts(ctx,
		`SELECT`+postColumns+`
		FROM likes lk
		JOIN posts p ON p.id = lk.post_id
		JOIN users u ON u.id = p.user_id
		WHERE lk.user_id = $1
		ORDER BY lk.created_at DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
}

// CreateComment inserts a comment on an existing post.
func (s *Store) CreateComment(ctx context.Context, postID, userID int64, content string) (*models.Comment, error) {
	var c models.Comment
	err := s.pool.QueryRow(ctx, `
		WITH inserted AS (
			INSERT INTO comments (post_id, user_id, content)
			VALUES ($1, $2, $3)
			RETURNING id, post_id, user_id, content, created_at
		)
		SELECT i.id, i.post_id, i.user_id, u.username, u.profile_picture,
		       i.content, i.created_at
		FROM inserted i JOIN users u ON u.id = i.user_id`,
		postID, userID, content).Scan(
		&c.ID, &c.PostID, &c.UserID, &c.Username, &c.ProfilePicture,
		&c.Content, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return &c, nil
}

// CommentsForPost returns a post's comments, oldest first.
func (s *Store) CommentsForPost(ctx context.Context, postID int64) ([]models.Comment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT c.id, c.post_id, c.user_id, u.username, u.profile_picture,
		       c.content, c.created_at
		FROM comments c JOIN users u ON u.id = c.user_id
		WHERE c.post_id = $1
		ORDER BY c.created_at ASC, c.id ASC`, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	comments := make([]models.Comment, 0)
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Username,
			&c.ProfilePicture, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// ToggleLike flips the like for (userID, postID) and returns the new
// state plus the post's like count. Duplicate inserts from concurrent
// requests land on the primary key and count as already-liked.
func (s *Store) ToggleLike(ctx context.Context, userID, postID int64) (bool, int64, error) {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM likes WHERE user_id = $1 AND post_id = $2`,
		userID, postID)
	if err != nil {
		return false, 0, fmt.Errorf("failed to remove like: %w", err)
	}

	liked := false
	if tag.RowsAffected() == 0 {
		_, err = s.pool.Exec(ctx, `
			INSERT INTO likes (user_id, post_id)
			VALUES ($1, $2)
			ON CONFLICT (user_id, post_id) DO NOTHING`, userID, postID)
		if err != nil && !isUniqueViolation(err) {
			return false, 0, fmt.Errorf("failed to create like: %w", err)
		}
		liked = true
	}

	var count int64
	err = s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM likes WHERE post_id = $1`, postID).Scan(&count)
	if err != nil {
		return liked, 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return liked, count, nil
}

// HasLiked reports whether the user has liked the post.
func (s *Store) HasLiked(ctx context.Context, userID, postID int64) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM likes WHERE user_id = $1 AND post_id = $2
		)`, userID, postID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check like: %w", err)
	}
	return exists, nil
}
