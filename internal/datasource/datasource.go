// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package datasource

import (
	"context"
	"fmt"

	"github.com/tomtom215/cartographus/internal/protocol"
)

// Error wraps a data source failure, optionally carrying the underlying
// cause. A nil *Error (or a (nil, false, nil) GetTile result) means "tile
// not found", never use Error to represent that.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("datasource: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("datasource: %s", e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// NewError builds an Error with no underlying cause.
func NewError(message string) *Error {
	return &Error{Message: message}
}

// WrapError builds an Error around an underlying cause.
func WrapError(message string, cause error) *Error {
	return &Error{Message: message, Cause: cause}
}

// Metadata describes a data source's identity and coverage.
type Metadata struct {
	Name        string
	Description string
	Attribution string
	MinZoom     uint8
	MaxZoom     uint8
	// Bounds is [lonMin, latMin, lonMax, latMax] in WGS84 degrees, nil if
	// the source covers the whole world.
	Bounds []float64
	// Center is [lon, lat, zoom], nil if the source has no preferred
	// starting view.
	Center []float64
	Format protocol.TileFormat
	Layers []string
}

// DataSource serves tiles for one dataset. Implementations must be safe
// for concurrent use.
type DataSource interface {
	// Metadata returns the source's static description.
	Metadata() Metadata

	// TileFormat returns the encoding tiles are served in. Defaults to
	// Metadata().Format for sources that don't override it.
	TileFormat() protocol.TileFormat

	// GetTile fetches one tile. A (nil, false, nil) result means the
	// tile does not exist; a non-nil error means the fetch itself
	// failed.
	GetTile(ctx context.Context, coord protocol.TileCoord) ([]byte, bool, error)

	// HasTile reports whether a tile exists, without necessarily
	// reading its full contents.
	HasTile(ctx context.Context, coord protocol.TileCoord) (bool, error)

	// GetTiles fetches a batch of tiles sequentially, in the order
	// given. Entries for tiles that don't exist are omitted, not
	// zero-valued.
	GetTiles(ctx context.Context, coords []protocol.TileCoord) (map[protocol.TileCoord][]byte, error)
}

// DefaultTileFormat implements the "fall back to metadata" rule shared
// by every concrete source in this package.
func DefaultTileFormat(s DataSource) protocol.TileFormat {
	return s.Metadata().Format
}

// GetTilesSequential implements the batch-fetch default every concrete
// source in this package shares: sequential GetTile calls, skipping
// misses, stopping at the first real error.
func GetTilesSequential(ctx context.Context, s DataSource, coords []protocol.TileCoord) (map[protocol.TileCoord][]byte, error) {
	out := make(map[protocol.TileCoord][]byte, len(coords))
	for _, c := range coords {
		data, ok, err := s.GetTile(ctx, c)
		if err != nil {
			return nil, err
		}
		if ok {
			out[c] = data
		}
	}
	return out, nil
}
