// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package protocol

import "testing"

func TestFormatFromExtension(t *testing.T) {
	cases := map[string]TileFormat{
		"mvt":     TileFormatMVT,
		"pbf":     TileFormatMVT,
		"PBF":     TileFormatMVT,
		"json":    TileFormatGeoJSON,
		"geojson": TileFormatGeoJSON,
		"png":     TileFormatPNG,
		"jpg":     TileFormatJPEG,
		"jpeg":    TileFormatJPEG,
		"webp":    TileFormatWebP,
		"bin":     TileFormatHeightmapF32,
		"terrain": TileFormatQuantizedMesh,
		"xyz":     TileFormatOther,
		"":        TileFormatOther,
	}
	for ext, want := range cases {
		if got := FormatFromExtension(ext); got != want {
			t.Errorf("FormatFromExtension(%q) = %v, want %v", ext, got, want)
		}
	}
}

func TestTileFormatContentType(t *testing.T) {
	if got := TileFormatPNG.ContentType(); got != "image/png" {
		t.Errorf("PNG content type = %q", got)
	}
	if got := TileFormatOther.ContentType(); got != "application/octet-stream" {
		t.Errorf("Other content type = %q", got)
	}
}

func TestTilesAtZoom(t *testing.T) {
	if got := TilesAtZoom(0); got != 1 {
		t.Errorf("TilesAtZoom(0) = %d, want 1", got)
	}
	if got := TilesAtZoom(2); got != 16 {
		t.Errorf("TilesAtZoom(2) = %d, want 16", got)
	}
}
