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

func TestFallbackSourceFirstHitWins(t *testing.T) {
	first := NewMemorySource(Metadata{Name: "first"})
	second := NewMemorySource(Metadata{Name: "second"})
	coord := protocol.NewTileCoord(0, 0, 0)
	first.SetTile(coord, []byte("from-first"))
	second.SetTile(coord, []byte("from-second"))

	fb := NewFallbackSource("fb", []DataSource{first, second})
	data, ok, err := fb.GetTile(context.Background(), coord)
	if err != nil || !ok || string(data) != "from-first" {
		t.Fatalf("got data=%q ok=%v err=%v", data, ok, err)
	}
}

func TestFallbackSourceMissContinuesToNext(t *testing.T) {
	first := NewMemorySource(Metadata{Name: "first"})
	second := NewMemorySource(Metadata{Name: "second"})
	coord := protocol.NewTileCoord(0, 0, 0)
	second.SetTile(coord, []byte("from-second"))

	fb := NewFallbackSource("fb", []DataSource{first, second})
	data, ok, err := fb.GetTile(context.Background(), coord)
	if err != nil || !ok || string(data) != "from-second" {
		t.Fatalf("got data=%q ok=%v err=%v", data, ok, err)
	}
}

// erroringSource always fails, to exercise the fallback chain's
// never-propagate-Err behavior.
type erroringSource struct{}

func (erroringSource) Metadata() Metadata                  { return Metadata{Name: "erroring"} }
func (erroringSource) TileFormat() protocol.TileFormat      { return protocol.TileFormatOther }
func (erroringSource) HasTile(ctx context.Context, c protocol.TileCoord) (bool, error) {
	return false, NewError("always fails")
}
func (erroringSource) GetTile(ctx context.Context, c protocol.TileCoord) ([]byte, bool, error) {
	return nil, false, NewError("always fails")
}
func (s erroringSource) GetTiles(ctx context.Context, coords []protocol.TileCoord) (map[protocol.TileCoord][]byte, error) {
	return GetTilesSequential(ctx, s, coords)
}

func TestFallbackSourceErrorIsTreatedAsMissNotPropagated(t *testing.T) {
	second := NewMemorySource(Metadata{Name: "second"})
	coord := protocol.NewTileCoord(0, 0, 0)
	second.SetTile(coord, []byte("recovered"))

	fb := NewFallbackSource("fb", []DataSource{erroringSource{}, second})
	data, ok, err := fb.GetTile(context.Background(), coord)
	if err != nil {
		t.Fatalf("fallback must never propagate an inner source's error, got %v", err)
	}
	if !ok || string(data) != "recovered" {
		t.Fatalf("got data=%q ok=%v", data, ok)
	}
}

func TestFallbackSourceAllExhaustedReturnsNotFound(t *testing.T) {
	fb := NewFallbackSource("fb", []DataSource{erroringSource{}, NewMemorySource(Metadata{Name: "empty"})})
	data, ok, err := fb.GetTile(context.Background(), protocol.NewTileCoord(0, 0, 0))
	if err != nil || ok || data != nil {
		t.Fatalf("got data=%v ok=%v err=%v", data, ok, err)
	}
}

func TestFallbackSourceEmptyChainFormatIsOther(t *testing.T) {
	fb := NewFallbackSource("fb", nil)
	if fb.TileFormat() != protocol.TileFormatOther {
		t.Fatalf("expected TileFormatOther for empty chain, got %v", fb.TileFormat())
	}
}

func TestFallbackSourceInheritsFirstSourceFormat(t *testing.T) {
	first := NewMemorySource(Metadata{Name: "first", Format: protocol.TileFormatPNG})
	fb := NewFallbackSource("fb", []DataSource{first})
	if fb.TileFormat() != protocol.TileFormatPNG {
		t.Fatalf("expected inherited png format, got %v", fb.TileFormat())
	}
}
