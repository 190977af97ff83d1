// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package websocket

import "testing"

func TestNewClientAssignsIncreasingIDs(t *testing.T) {
	hub := NewHub()
	c1 := NewClient(hub, nil)
	c2 := NewClient(hub, nil)

	if c2.ID() <= c1.ID() {
		t.Errorf("expected c2.ID() (%d) > c1.ID() (%d)", c2.ID(), c1.ID())
	}
}

func TestClientSubscribeUnsubscribe(t *testing.T) {
	c := newTestClient(1)

	if c.isSubscribed("realtime") {
		t.Fatal("client should not be subscribed before subscribe()")
	}

	c.subscribe("realtime")
	if !c.isSubscribed("realtime") {
		t.Fatal("client should be subscribed after subscribe()")
	}

	c.unsubscribe("realtime")
	if c.isSubscribed("realtime") {
		t.Fatal("client should not be subscribed after unsubscribe()")
	}
}

func TestClientSubscribeMultipleSources(t *testing.T) {
	c := newTestClient(1)
	c.subscribe("realtime")
	c.subscribe("incidents")

	if !c.isSubscribed("realtime") || !c.isSubscribed("incidents") {
		t.Fatal("expected client to be subscribed to both sources")
	}

	c.unsubscribe("realtime")
	if c.isSubscribed("realtime") {
		t.Error("realtime should be unsubscribed")
	}
	if !c.isSubscribed("incidents") {
		t.Error("incidents should remain subscribed")
	}
}

func TestSourceField(t *testing.T) {
	tests := []struct {
		name   string
		data   interface{}
		want   string
		wantOk bool
	}{
		{"valid map", map[string]interface{}{"source": "realtime"}, "realtime", true},
		{"missing key", map[string]interface{}{"other": "value"}, "", false},
		{"non-string source", map[string]interface{}{"source": 42}, "", false},
		{"not a map", "realtime", "", false},
		{"nil data", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := sourceField(tt.data)
			if got != tt.want || ok != tt.wantOk {
				t.Errorf("sourceField(%v) = (%q, %v), want (%q, %v)", tt.data, got, ok, tt.want, tt.wantOk)
			}
		})
	}
}
