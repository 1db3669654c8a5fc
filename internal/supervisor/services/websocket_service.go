// Parlor - Social Networking Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/parlor

package services

import (
	"context"
)

// ContextHub matches *websocket.Hub's RunWithContext, kept as an
// interface to avoid importing the websocket package here.
type ContextHub interface {
	RunWithContext(ctx context.Context) error
}

// WebSocketHubService supervises the realtime relay hub. The hub's
// RunWithContext already follows the suture.Service pattern, so the
// wrapper only adds a name.
type WebSocketHubService struct {
	hub ContextHub
}

// NewWebSocketHubService creates the hub service wrapper.
func NewWebSocketHubService(hub ContextHub) *WebSocketHubService {
	return &WebSocketHubService{hub: hub}
}

// Serve implements suture.Service.
func (w *WebSocketHubService) Serve(ctx context.Context) error {
	return w.hub.RunWithContext(ctx)
}

// String identifies the service in suture's logs.
func (w *WebSocketHubService) String() string {
	return "websocket-hub"
}
