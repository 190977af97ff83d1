// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package datasource

import (
	"context"
	"sync"

	"github.com/tomtom215/cartographus/internal/protocol"
)

// MemorySource holds tiles entirely in an RWMutex-protected map. It is
// mutable: SetTile and RemoveTile let callers populate it at runtime,
// e.g. from a webhook-driven data update.
type MemorySource struct {
	mu    sync.RWMutex
	tiles map[protocol.TileCoord][]byte
	meta  Metadata
}

// NewMemorySource builds an empty MemorySource.
func NewMemorySource(meta Metadata) *MemorySource {
	return &MemorySource{
		tiles: make(map[protocol.TileCoord][]byte),
		meta:  meta,
	}
}

func (s *MemorySource) Metadata() Metadata { return s.meta }

func (s *MemorySource) TileFormat() protocol.TileFormat { return DefaultTileFormat(s) }

func (s *MemorySource) GetTile(ctx context.Context, coord protocol.TileCoord) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.tiles[coord]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, true, nil
}

func (s *MemorySource) HasTile(ctx context.Context, coord protocol.TileCoord) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tiles[coord]
	return ok, nil
}

func (s *MemorySource) GetTiles(ctx context.Context, coords []protocol.TileCoord) (map[protocol.TileCoord][]byte, error) {
	return GetTilesSequential(ctx, s, coords)
}

// SetTile inserts or overwrites a tile's bytes.
func (s *MemorySource) SetTile(coord protocol.TileCoord, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.tiles[coord] = cp
}

// RemoveTile deletes a tile, if present.
func (s *MemorySource) RemoveTile(coord protocol.TileCoord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tiles, coord)
}

// Len reports how many tiles are currently held.
func (s *MemorySource) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tiles)
}
