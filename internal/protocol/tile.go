// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package protocol

import "strings"

// TileCoord identifies a tile in the standard ZXY scheme.
type TileCoord struct {
	Z uint8  `json:"z"`
	X uint32 `json:"x"`
	Y uint32 `json:"y"`
}

// NewTileCoord builds a TileCoord from its components.
func NewTileCoord(z uint8, x, y uint32) TileCoord {
	return TileCoord{Z: z, X: x, Y: y}
}

// TilesAtZoom returns the number of tiles at zoom level z (2^z × 2^z).
func TilesAtZoom(z uint8) uint64 {
	return uint64(1) << (2 * uint64(z))
}

// TileFormat identifies the encoding of a tile's payload bytes.
type TileFormat string

const (
	TileFormatMVT           TileFormat = "mvt"
	TileFormatGeoJSON       TileFormat = "geojson"
	TileFormatPNG           TileFormat = "png"
	TileFormatJPEG          TileFormat = "jpeg"
	TileFormatWebP          TileFormat = "webp"
	TileFormatHeightmapF32  TileFormat = "heightmapf32"
	TileFormatHeightmapI16  TileFormat = "heightmapi16"
	TileFormatQuantizedMesh TileFormat = "quantizedmesh"
	TileFormatOther         TileFormat = "other"
)

// FormatFromExtension maps a file extension to a TileFormat, defaulting
// to TileFormatOther for anything unrecognized.
func FormatFromExtension(ext string) TileFormat {
	switch strings.ToLower(ext) {
	case "mvt", "pbf":
		return TileFormatMVT
	case "json", "geojson":
		return TileFormatGeoJSON
	case "png":
		return TileFormatPNG
	case "jpg", "jpeg":
		return TileFormatJPEG
	case "webp":
		return TileFormatWebP
	case "bin", "raw", "f32":
		return TileFormatHeightmapF32
	case "terrain":
		return TileFormatQuantizedMesh
	default:
		return TileFormatOther
	}
}

// ContentType returns the HTTP content-type associated with the format.
func (f TileFormat) ContentType() string {
	switch f {
	case TileFormatMVT:
		return "application/vnd.mapbox-vector-tile"
	case TileFormatGeoJSON:
		return "application/geo+json"
	case TileFormatPNG:
		return "image/png"
	case TileFormatJPEG:
		return "image/jpeg"
	case TileFormatWebP:
		return "image/webp"
	case TileFormatHeightmapF32, TileFormatHeightmapI16:
		return "application/octet-stream"
	case TileFormatQuantizedMesh:
		return "application/vnd.quantized-mesh"
	default:
		return "application/octet-stream"
	}
}
