// Parlor - Social Networking Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/parlor

// Package websocket implements the realtime relay. A single Hub tracks
// connected clients, grouped into per-user rooms keyed by account id, and
// fans out new_post and new_message events. Delivery is fire-and-forget:
// nothing is queued or persisted, and slow clients are dropped when their
// send buffer fills.
package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/tomtom215/parlor/internal/logging"
	"github.com/tomtom215/parlor/internal/metrics"
	"github.com/tomtom215/parlor/internal/models"
)

// Control message types exchanged with clients.
const (
	messageTypePing = "ping"
	messageTypePong = "pong"
)

// frame is one delivery unit flowing through the hub. A nil target list
// means all connected clients.
type frame struct {
	event   models.Event
	targets []int64
}

// Hub maintains the set of active clients and relays events to them.
type Hub struct {
	clients map[*Client]bool
	rooms   map[int64]map[*Client]bool

	relay      chan frame
	Register   chan *Client
	Unregister chan *Client

	mu sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		rooms:      make(map[int64]map[*Client]bool),
		relay:      make(chan frame, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// RunWithContext runs the hub until the context is canceled, at which
// point all clients are closed and ctx.Err() is returned. Designed for
// suture supervision.
//
// Selection is priority based: shutdown first, then client lifecycle,
// then relay frames. This keeps client state consistent before any
// delivery happens.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.addClient(client)
			continue
		case client := <-h.Unregister:
			h.removeClient(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.addClient(client)
		case client := <-h.Unregister:
			h.removeClient(client)
		case f := <-h.relay:
			h.deliver(f)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	room := h.rooms[client.userID]
	if room == nil {
		room = make(map[*Client]bool)
		h.rooms[client.userID] = room
	}
	room[client] = true
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WebSocketConnections.Inc()
	logging.Info().
		Int64("user_id", client.userID).
		Int("total_clients", total).
		Msg("websocket client connected")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		h.detachLocked(client)
		close(client.send)
		metrics.WebSocketConnections.Dec()
	}
	total := len(h.clients)
	h.mu.Unlock()

	logging.Info().
		Int64("user_id", client.userID).
		Int("total_clients", total).
		Msg("websocket client disconnected")
}

// detachLocked removes the client from the client set and its room.
// Callers must hold h.mu.
func (h *Hub) detachLocked(client *Client) {
	delete(h.clients, client)
	if room, ok := h.rooms[client.userID]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, client.userID)
		}
	}
}

// deliver fans a frame out to its targets. Clients whose send buffer is
// full are dropped rather than allowed to stall the relay.
func (h *Hub) deliver(f frame) {
	h.mu.Lock()
	defer h.mu.Unlock()

	recipients := make([]*Client, 0)
	if f.targets == nil {
		for client := range h.clients {
			recipients = append(recipients, client)
		}
	} else {
		seen := make(map[*Client]bool)
		for _, userID := range f.targets {
			for client := range h.rooms[userID] {
				if !seen[client] {
					seen[client] = true
					recipients = append(recipients, client)
				}
			}
		}
	}

	// Stable ordering keeps delivery deterministic in tests.
	sort.Slice(recipients, func(i, j int) bool {
		return recipients[i].id < recipients[j].id
	})

	var toRemove []*Client
	for _, client := range recipients {
		select {
		case client.send <- f.event:
		default:
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		h.detachLocked(client)
		close(client.send)
		metrics.WebSocketConnections.Dec()
		metrics.RealtimeDropsTotal.Inc()
		logging.Warn().
			Int64("user_id", client.userID).
			Msg("dropped slow websocket client")
	}
}

func (h *Hub) shutdown(ctx context.Context) {
	h.mu.Lock()
	count := len(h.clients)
	for client := range h.clients {
		close(client.send)
	}
	h.clients = make(map[*Client]bool)
	h.rooms = make(map[int64]map[*Client]bool)
	h.mu.Unlock()

	reason := "context_canceled"
	if ctx.Err() == context.DeadlineExceeded {
		reason = "context_deadline"
	}
	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", reason).
		Int("clients_closed", count).
		Msg("websocket hub stopped")
}

// enqueue hands a frame to the relay without blocking. The relay channel
// is the only queue; when it is full the event is dropped.
func (h *Hub) enqueue(f frame) {
	select {
	case h.relay <- f:
		metrics.RecordRealtimeEvent(f.event.Type)
	default:
		logging.Warn().
			Str("event_type", f.event.Type).
			Msg("relay channel full, dropping event")
	}
}

// BroadcastNewPost pushes a new_post event to every connected client.
func (h *Hub) BroadcastNewPost(post *models.Post) {
	h.enqueue(frame{
		event: models.Event{Type: models.EventNewPost, Payload: post},
	})
}

// SendNewMessage pushes a new_message event to the sender's and
// recipient's rooms. Every open socket for either account gets a copy.
func (h *Hub) SendNewMessage(message *models.Message) {
	h.enqueue(frame{
		event:   models.Event{Type: models.EventNewMessage, Payload: message},
		targets: []int64{message.SenderID, message.RecipientID},
	})
}

// SendToUser pushes an arbitrary event to one user's room.
func (h *Hub) SendToUser(userID int64, event models.Event) {
	h.enqueue(frame{event: event, targets: []int64{userID}})
}

// GetClientCount returns the number of connected clients.
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// RoomSize returns the number of open sockets for one user.
func (h *Hub) RoomSize(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[userID])
}
