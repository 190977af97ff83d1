// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package datasource

import (
	"context"
	"testing"

	"github.com/tomtom215/cartographus/internal/protocol"
)

func TestMemorySourceSetAndGetTile(t *testing.T) {
	src := NewMemorySource(Metadata{Name: "mem"})
	coord := protocol.NewTileCoord(4, 2, 2)

	src.SetTile(coord, []byte("hello"))
	data, ok, err := src.GetTile(context.Background(), coord)
	if err != nil || !ok || string(data) != "hello" {
		t.Fatalf("got data=%q ok=%v err=%v", data, ok, err)
	}
}

func TestMemorySourceMissReturnsNotFound(t *testing.T) {
	src := NewMemorySource(Metadata{Name: "mem"})
	data, ok, err := src.GetTile(context.Background(), protocol.NewTileCoord(0, 0, 0))
	if err != nil || ok || data != nil {
		t.Fatalf("got data=%v ok=%v err=%v", data, ok, err)
	}
}

func TestMemorySourceRemoveTile(t *testing.T) {
	src := NewMemorySource(Metadata{Name: "mem"})
	coord := protocol.NewTileCoord(0, 0, 0)
	src.SetTile(coord, []byte("x"))
	src.RemoveTile(coord)

	_, ok, _ := src.GetTile(context.Background(), coord)
	if ok {
		t.Fatalf("expected tile removed")
	}
	if src.Len() != 0 {
		t.Fatalf("expected len 0, got %d", src.Len())
	}
}

func TestMemorySourceGetTileReturnsCopyNotAlias(t *testing.T) {
	src := NewMemorySource(Metadata{Name: "mem"})
	coord := protocol.NewTileCoord(0, 0, 0)
	original := []byte("abc")
	src.SetTile(coord, original)

	data, _, _ := src.GetTile(context.Background(), coord)
	data[0] = 'z'

	data2, _, _ := src.GetTile(context.Background(), coord)
	if string(data2) != "abc" {
		t.Fatalf("mutating returned slice corrupted stored tile: %q", data2)
	}
}
