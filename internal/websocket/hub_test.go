// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package websocket

import (
	"context"
	"testing"
	"time"
)

func newTestClient(id uint64) *Client {
	return &Client{
		id:   id,
		send: make(chan Message, 8),
		subs: make(map[string]bool),
	}
}

func TestNewHub(t *testing.T) {
	h := NewHub()
	if h.GetClientCount() != 0 {
		t.Fatalf("new hub should have zero clients, got %d", h.GetClientCount())
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- h.RunWithContext(ctx) }()

	c := newTestClient(1)
	h.Register <- c
	waitForClientCount(t, h, 1)

	h.Unregister <- c
	waitForClientCount(t, h, 0)

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("RunWithContext returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("RunWithContext did not return after cancel")
	}
}

func TestHubPublishDispatchesToSubscribers(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.RunWithContext(ctx)

	subscribed := newTestClient(1)
	subscribed.subscribe("realtime")
	unsubscribed := newTestClient(2)

	h.Register <- subscribed
	h.Register <- unsubscribed
	waitForClientCount(t, h, 2)

	h.Publish("realtime", map[string]string{"feature": "point"})

	select {
	case msg := <-subscribed.send:
		if msg.Type != MessageTypeDataUpdate {
			t.Errorf("message type = %q, want %q", msg.Type, MessageTypeDataUpdate)
		}
	case <-time.After(time.Second):
		t.Fatal("subscribed client did not receive data_update")
	}

	select {
	case msg := <-unsubscribed.send:
		t.Fatalf("unsubscribed client unexpectedly received %+v", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubPublishDropsWhenBroadcastFull(t *testing.T) {
	h := NewHub()
	// No RunWithContext goroutine draining the broadcast channel: fill it,
	// then confirm Publish drops rather than blocking.
	for i := 0; i < cap(h.broadcast); i++ {
		h.Publish("realtime", i)
	}
	done := make(chan struct{})
	go func() {
		h.Publish("realtime", "overflow")
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked instead of dropping on a full broadcast channel")
	}
}

func TestHubDispatchSlowClientDropped(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.RunWithContext(ctx)

	slow := &Client{id: 1, send: make(chan Message), subs: map[string]bool{"realtime": true}}
	h.Register <- slow
	waitForClientCount(t, h, 1)

	h.Publish("realtime", "payload")

	waitForClientCount(t, h, 0)
}

func TestHubShutdownClosesAllClients(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.RunWithContext(ctx) }()

	c := newTestClient(1)
	h.Register <- c
	waitForClientCount(t, h, 1)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunWithContext did not return after cancel")
	}

	select {
	case _, ok := <-c.send:
		if ok {
			t.Error("expected client send channel to be closed")
		}
	default:
		t.Error("expected client send channel to be closed, got no value")
	}
}

func waitForClientCount(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		if h.GetClientCount() == want {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("client count did not reach %d in time, got %d", want, h.GetClientCount())
		case <-time.After(10 * time.Millisecond):
		}
	}
}
