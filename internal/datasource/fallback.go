// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package datasource

import (
	"context"

	"github.com/tomtom215/cartographus/internal/logging"
	"github.com/tomtom215/cartographus/internal/protocol"
)

// FallbackSource tries each of an ordered list of sources in turn. A hit
// on any source short-circuits the chain; a miss (not-found) continues
// to the next; an error is logged and also treated as a miss — a single
// unhealthy upstream in the chain must never take down a request that a
// later source could still satisfy.
type FallbackSource struct {
	sources []DataSource
	meta    Metadata
}

// NewFallbackSource builds a FallbackSource trying sources in order.
// Its format is inherited from the first source, or TileFormatOther if
// the chain is empty.
func NewFallbackSource(name string, sources []DataSource) *FallbackSource {
	format := protocol.TileFormatOther
	if len(sources) > 0 {
		format = sources[0].TileFormat()
	}
	return &FallbackSource{
		sources: sources,
		meta: Metadata{
			Name:   name,
			Format: format,
		},
	}
}

func (s *FallbackSource) Metadata() Metadata { return s.meta }

func (s *FallbackSource) TileFormat() protocol.TileFormat { return DefaultTileFormat(s) }

func (s *FallbackSource) GetTile(ctx context.Context, coord protocol.TileCoord) ([]byte, bool, error) {
	for _, src := range s.sources {
		data, ok, err := src.GetTile(ctx, coord)
		if err != nil {
			logging.Debug().Err(err).Str("source", src.Metadata().Name).Msg("[DATASOURCE] fallback source errored, trying next")
			continue
		}
		if ok {
			return data, true, nil
		}
	}
	return nil, false, nil
}

func (s *FallbackSource) HasTile(ctx context.Context, coord protocol.TileCoord) (bool, error) {
	for _, src := range s.sources {
		ok, err := src.HasTile(ctx, coord)
		if err != nil {
			logging.Debug().Err(err).Str("source", src.Metadata().Name).Msg("[DATASOURCE] fallback source errored, trying next")
			continue
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (s *FallbackSource) GetTiles(ctx context.Context, coords []protocol.TileCoord) (map[protocol.TileCoord][]byte, error) {
	return GetTilesSequential(ctx, s, coords)
}
