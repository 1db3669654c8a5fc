// Parlor - Social Networking Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/parlor

package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/parlor/internal/models"
)

func TestSendMessage(t *testing.T) {
	env := newTestEnv(t)
	aliceToken, _ := env.register(t, "alice")
	_, bobID := env.register(t, "bob")

	rec := env.do(t, http.MethodPost, "/api/v1/messages", aliceToken, map[string]interface{}{
		"recipient_id": bobID,
		"content":      "hey bob",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var msg models.Message
	decode(t, rec, &msg)
	assert.Equal(t, "hey bob", msg.Content)
	assert.Equal(t, bobID, msg.RecipientID)
	assert.Equal(t, "alice", msg.SenderUsername)
}

func TestSendMessageToUnknownUser(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "alice")

	rec := env.do(t, http.MethodPost, "/api/v1/messages", token, map[string]interface{}{
		"recipient_id": 9999,
		"content":      "hello?",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSendMessageToSelf(t *testing.T) {
	env := newTestEnv(t)
	token, id := env.register(t, "alice")

	rec := env.do(t, http.MethodPost, "/api/v1/messages", token, map[string]interface{}{
		"recipient_id": id,
		"content":      "note to self",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMessagePrivateRecipientRequiresFollow(t *testing.T) {
	env := newTestEnv(t)
	aliceToken, _ := env.register(t, "alice")
	_, bobID := env.register(t, "bob")
	env.setPrivate(t, bobID, true)

	body := map[string]interface{}{"recipient_id": bobID, "content": "hello"}

	rec := env.do(t, http.MethodPost, "/api/v1/messages", aliceToken, body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/users/follow/%d", bobID), aliceToken, nil)

	rec = env.do(t, http.MethodPost, "/api/v1/messages", aliceToken, body)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestThreadAndConversations(t *testing.T) {
	env := newTestEnv(t)
	aliceToken, aliceID := env.register(t, "alice")
	bobToken, bobID := env.register(t, "bob")
	carolToken, carolID := env.register(t, "carol")

	send := func(token string, to int64, content string) {
		rec := env.do(t, http.MethodPost, "/api/v1/messages", token, map[string]interface{}{
			"recipient_id": to,
			"content":      content,
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	send(aliceToken, bobID, "hi bob")
	send(bobToken, aliceID, "hi alice")
	send(carolToken, aliceID, "hi from carol")

	// Thread with bob, oldest first, both directions.
	rec := env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/messages/%d", bobID), aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var thread []models.Message
	decode(t, rec, &thread)
	require.Len(t, thread, 2)
	assert.Equal(t, "hi bob", thread[0].Content)
	assert.Equal(t, "hi alice", thread[1].Content)

	// Conversations: carol is the most recent counterpart.
	rec = env.do(t, http.MethodGet, "/api/v1/messages/conversations", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var convos []models.Conversation
	decode(t, rec, &convos)
	require.Len(t, convos, 2)
	assert.Equal(t, carolID, convos[0].UserID)
	assert.Equal(t, "hi from carol", convos[0].LastMessage)
	assert.Equal(t, bobID, convos[1].UserID)
	assert.Equal(t, "hi alice", convos[1].LastMessage)
}

func TestMessagingRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/messages/conversations", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
