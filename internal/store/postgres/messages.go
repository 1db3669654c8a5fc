// Parlor - Social Networking Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/parlor

package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/tomtom215/parlor/internal/models"
	"github.com/tomtom215/parlor/internal/store"
)

// CreateMessage inserts a direct message and returns it joined with the
// sender's username.
func (s *Store) CreateMessage(ctx context.Context, senderID, recipientID int64, content string) (*models.Message, error) {
	if senderID == recipientID {
		return nil, store.ErrSelfAction
	}

	var m models.Message
	err := s.pool.QueryRow(ctx, `
		WITH inserted AS (
			INSERT INTO messages (sender_id, recipient_id, content)
			VALUES ($1, $2, $3)
			RETURNING id, sender_id, recipient_id, content, created_at
		)
		SELECT i.id, i.sender_id, i.recipient_id, u.username, i.content,
		       i.created_at
		FROM inserted i JOIN users u ON u.id = i.sender_id`,
		senderID, recipientID, content).Scan(
		&m.ID, &m.SenderID, &m.RecipientID, &m.SenderUsername, &m.Content,
		&m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return &m, nil
}

// Conversations returns the distinct counterparts the user has exchanged
// messages with, each carrying the latest message, newest first.
func (s *Store) Conversations(ctx context.Context, userID int64) ([]models.Conversation, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT ON (other.id)
			other.id, other.username, other.profile_picture,
			m.content, m.created_at
		FROM messages m
		JOIN users other ON other.id = CASE
			WHEN m.sender_id = $1 THEN m.recipient_id
			ELSE m.sender_id
		END
		WHERE m.sender_id = $1 OR m.recipient_id = $1
		ORDER BY other.id, m.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	conversations := make([]models.Conversation, 0)
	for rows.Next() {
		var c models.Conversation
		if err := rows.Scan(&c.UserID, &c.Username, &c.ProfilePicture,
			&c.LastMessage, &c.LastMessageAt); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		conversations = append(conversations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// DISTINCT ON requires ordering by counterpart id; the list itself
	// should be newest conversation first.
	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].LastMessageAt.After(conversations[j].LastMessageAt)
	})
	return conversations, nil
}

// Thread returns the full message history between two users, oldest
// first.
func (s *Store) Thread(ctx context.Context, userID, otherID int64) ([]models.Message, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT m.id, m.sender_id, m.recipient_id, u.username, m.content,
		       m.created_at
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		WHERE (m.sender_id = $1 AND m.recipient_id = $2)
		   OR (m.sender_id = $2 AND m.recipient_id = $1)
		ORDER BY m.created_at ASC, m.id ASC`, userID, otherID)
	if err != nil {
		return nil, fmt.Errorf("failed to query thread: %w", err)
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID,
			&m.SenderUsername, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
