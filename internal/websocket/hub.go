// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package websocket implements the realtime subscription hub for the
// /ws/realtime endpoint (C9). Clients on this endpoint do not drive a
// tile-streaming view; they subscribe to named webhook sources and
// receive data_update frames as webhook ingestion broadcasts arrive.
// The tile-streaming session state machine (C7) lives in
// internal/session and is not built on this hub.
package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/tomtom215/cartographus/internal/logging"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types exchanged on the realtime subscription endpoint.
const (
	MessageTypePing        = "ping"
	MessageTypePong        = "pong"
	MessageTypeHello       = "hello"
	MessageTypeSubscribe   = "subscribe"
	MessageTypeUnsubscribe = "unsubscribe"
	MessageTypeDataUpdate  = "data_update"
	MessageTypeError       = "error"
)

// Message represents a WebSocket frame.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub maintains the set of connected realtime-subscription clients and
// fans out data_update messages to the ones subscribed to a given source.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan sourceMessage
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

type sourceMessage struct {
	source  string
	message Message
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan sourceMessage, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// RunWithContext starts the hub with context support for graceful shutdown.
// Designed for use with suture supervision (internal/supervisor).
//
// DETERMINISM: client lifecycle events are drained before broadcasts on
// every iteration, and broadcast fan-out visits clients in ID order, so
// behavior does not depend on Go's random multi-case select ordering.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
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
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.addClient(client)
		case client := <-h.Unregister:
			h.removeClient(client)
		case sm := <-h.broadcast:
			h.dispatch(sm)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()
	logging.Info().Int("total_clients", h.GetClientCount()).Msg("realtime client connected")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	h.mu.Unlock()
	logging.Info().Int("total_clients", h.GetClientCount()).Msg("realtime client disconnected")
}

func (h *Hub) logGracefulShutdown(ctx context.Context) {
	clientCount := h.GetClientCount()
	h.closeAllClients()
	reason := getShutdownReason(ctx)
	logging.Info().
		Str("component", "realtime-hub").
		Str("reason", string(reason)).
		Int("clients_closed", clientCount).
		Msg("realtime hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return ShutdownReasonContextDeadline
	default:
		return ShutdownReasonContextCanceled
	}
}

// dispatch sends a message to every client subscribed to sm.source, in
// deterministic client-ID order. Clients whose send buffer is full are
// dropped from the hub (per spec §5 backpressure policy: a slow
// subscriber loses its connection rather than blocking the broadcaster).
func (h *Hub) dispatch(sm sourceMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].id < clients[j].id })

	var toRemove []*Client
	for _, client := range clients {
		if !client.isSubscribed(sm.source) {
			continue
		}
		select {
		case client.send <- sm.message:
		default:
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].id < clients[j].id })

	for _, client := range clients {
		close(client.send)
		delete(h.clients, client)
	}
	logging.Info().Msg("closed all realtime clients during shutdown")
}

// Publish broadcasts a data_update for source to every subscribed client.
// Mirrors the webhook registry's broadcast-channel semantics (C8): when the
// internal broadcast channel is full, the oldest queued message is dropped
// to make room, so the publisher never blocks.
func (h *Hub) Publish(source string, data interface{}) {
	msg := Message{Type: MessageTypeDataUpdate, Data: map[string]interface{}{
		"source": source,
		"data":   data,
	}}
	sm := sourceMessage{source: source, message: msg}
	for {
		select {
		case h.broadcast <- sm:
			return
		default:
		}
		select {
		case <-h.broadcast:
			logging.Warn().Str("source", source).Msg("realtime broadcast channel full, dropped oldest data_update")
		default:
		}
	}
}

// GetClientCount returns the number of connected clients.
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
