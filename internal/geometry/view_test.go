// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package geometry

import (
	"testing"

	"github.com/tomtom215/cartographus/internal/protocol"
)

func baseView() protocol.ViewState {
	return protocol.ViewState{
		ViewID:         1,
		Lon:            0,
		Lat:            0,
		ViewportWidth:  1920,
		ViewportHeight: 1080,
		FOVDeg:         60.0,
		MaxZoom:        14,
	}
}

func TestEstimatedZoomHighAltitude(t *testing.T) {
	view := baseView()
	view.AltitudeM = 10_000_000.0

	z := EstimatedZoom(view)
	if z > 2 {
		t.Errorf("high altitude should give low zoom, got %d", z)
	}
}

func TestEstimatedZoomLowAltitude(t *testing.T) {
	view := baseView()
	view.AltitudeM = 1000.0

	z := EstimatedZoom(view)
	if z < 10 {
		t.Errorf("low altitude should give high zoom, got %d", z)
	}
}

func TestEstimatedZoomClampedToMaxZoom(t *testing.T) {
	view := baseView()
	view.AltitudeM = 1.0
	view.MaxZoom = 5

	if z := EstimatedZoom(view); z != 5 {
		t.Errorf("expected clamp to MaxZoom=5, got %d", z)
	}
}

func TestEstimatedZoomNeverNegative(t *testing.T) {
	view := baseView()
	view.AltitudeM = 1_000_000_000_000.0

	if z := EstimatedZoom(view); z != 0 {
		t.Errorf("expected zoom 0 for extreme altitude, got %d", z)
	}
}

func TestTileVisibleNearCamera(t *testing.T) {
	view := baseView()
	view.AltitudeM = 5000.0

	coord := protocol.NewTileCoord(10, 512, 512) // covers the equator/prime meridian
	if !TileVisible(view, coord) {
		t.Error("tile at camera center should be visible")
	}
}

func TestTileVisibleFarFromCamera(t *testing.T) {
	view := baseView()
	view.AltitudeM = 1000.0 // narrow ground footprint

	// Tile on the opposite side of the globe.
	coord := protocol.NewTileCoord(10, 0, 0)
	if TileVisible(view, coord) {
		t.Error("distant tile should not be visible at low altitude")
	}
}

func TestTilePriorityPrefersCloserAndMatchingZoom(t *testing.T) {
	view := baseView()
	view.AltitudeM = 5000.0
	zoom := EstimatedZoom(view)
	center := uint32(1) << (zoom - 1)

	near := protocol.NewTileCoord(zoom, center, center)
	far := protocol.NewTileCoord(zoom, 0, 0)

	if TilePriority(view, near) >= TilePriority(view, far) {
		t.Error("nearer tile at matching zoom should have lower (better) priority")
	}
}

func TestTilePriorityPenalizesZoomMismatch(t *testing.T) {
	view := baseView()
	view.AltitudeM = 5000.0
	zoom := EstimatedZoom(view)
	center := uint32(1) << (zoom - 1)
	mismatchZoom := zoom + 3
	mismatchCenter := uint32(1) << (mismatchZoom - 1)

	matching := protocol.NewTileCoord(zoom, center, center)
	mismatched := protocol.NewTileCoord(mismatchZoom, mismatchCenter, mismatchCenter)

	if TilePriority(view, matching) >= TilePriority(view, mismatched) {
		t.Error("zoom mismatch should increase (worsen) priority score")
	}
}

func TestViewRadiusDegCappedAt180(t *testing.T) {
	view := baseView()
	view.AltitudeM = 1e12
	view.FOVDeg = 179.0

	if r := ViewRadiusDeg(view); r > 180.0 {
		t.Errorf("view radius should be capped at 180, got %v", r)
	}
}

func TestVisibleTileRangeOrdering(t *testing.T) {
	view := baseView()
	view.AltitudeM = 5000.0

	xMin, xMax, yMin, yMax := VisibleTileRange(view, 10)
	if xMin > xMax {
		t.Errorf("xMin (%d) > xMax (%d)", xMin, xMax)
	}
	if yMin > yMax {
		t.Errorf("yMin (%d) > yMax (%d)", yMin, yMax)
	}
}
