// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package datasource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tomtom215/cartographus/internal/protocol"
)

func TestHTTPSourceGetTileHit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/5/1/2" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("remote-tile"))
	}))
	defer srv.Close()

	src := NewHTTPSource("test-http", srv.URL+"/{z}/{x}/{y}", nil, Metadata{Name: "http"})
	data, ok, err := src.GetTile(context.Background(), protocol.NewTileCoord(5, 1, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || string(data) != "remote-tile" {
		t.Fatalf("got ok=%v data=%q", ok, data)
	}
}

func TestHTTPSourceGetTileNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	src := NewHTTPSource("test-http-404", srv.URL+"/{z}/{x}/{y}", nil, Metadata{Name: "http"})
	data, ok, err := src.GetTile(context.Background(), protocol.NewTileCoord(0, 0, 0))
	if err != nil {
		t.Fatalf("expected nil error on 404, got %v", err)
	}
	if ok || data != nil {
		t.Fatalf("expected not-found, got ok=%v data=%v", ok, data)
	}
}

func TestHTTPSourceGetTileServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	src := NewHTTPSource("test-http-500", srv.URL+"/{z}/{x}/{y}", nil, Metadata{Name: "http"})
	_, ok, err := src.GetTile(context.Background(), protocol.NewTileCoord(0, 0, 0))
	if err == nil {
		t.Fatalf("expected error for 5xx response")
	}
	if ok {
		t.Fatalf("expected ok=false on error")
	}
}

func TestHTTPSourceURLTemplateSubstitution(t *testing.T) {
	src := NewHTTPSource("test-url", "https://tiles.example.com/{z}/{x}/{y}.mvt", nil, Metadata{Name: "http"})
	got := src.url(protocol.NewTileCoord(12, 34, 56))
	want := "https://tiles.example.com/12/34/56.mvt"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
