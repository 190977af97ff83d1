// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package geometry

import (
	"math"

	"github.com/tomtom215/cartographus/internal/protocol"
)

// EstimatedZoom derives a zoom level from a view's altitude: roughly
// z=0 at 20,000km, halving altitude per additional zoom level. Clamped
// to [0, view.MaxZoom].
func EstimatedZoom(view protocol.ViewState) uint8 {
	alt := view.AltitudeM
	if alt < 1.0 {
		alt = 1.0
	}
	z := int(math.Floor(math.Log2(20_000_000.0 / alt)))
	if z < 0 {
		z = 0
	}
	if z > int(view.MaxZoom) {
		z = int(view.MaxZoom)
	}
	return uint8(z)
}

// ViewRadiusDeg approximates the visible ground radius, in degrees,
// implied by a view's altitude and field of view.
func ViewRadiusDeg(view protocol.ViewState) float64 {
	halfFOVRad := degToRad(view.FOVDeg / 2.0)
	groundRadiusM := view.AltitudeM * math.Tan(halfFOVRad)
	radius := groundRadiusM / 111_000.0
	if radius > 180.0 {
		radius = 180.0
	}
	return radius
}

// TileVisible reports whether coord overlaps the disc of radius
// ViewRadiusDeg(view) centered on the view's camera position. This is
// a coarse approximation, not an actual view-frustum intersection.
func TileVisible(view protocol.ViewState, coord protocol.TileCoord) bool {
	lonMin, latMin, lonMax, latMax := BoundsWGS84(coord)
	radius := ViewRadiusDeg(view)

	lonOK := lonMax >= view.Lon-radius && lonMin <= view.Lon+radius
	latOK := latMax >= view.Lat-radius && latMin <= view.Lat+radius
	return lonOK && latOK
}

// TilePriority scores a tile for streaming order; lower values stream
// first. Combines the zoom distance from the view's estimated zoom
// (dominant term) with the tile's center distance from the camera.
func TilePriority(view protocol.ViewState, coord protocol.TileCoord) uint32 {
	lonMin, latMin, lonMax, latMax := BoundsWGS84(coord)
	centerLon := (lonMin + lonMax) / 2.0
	centerLat := (latMin + latMax) / 2.0

	dlon := math.Abs(centerLon - view.Lon)
	dlat := math.Abs(centerLat - view.Lat)
	dist := math.Sqrt(dlon*dlon + dlat*dlat)

	zoomDiff := absInt(int(coord.Z) - int(EstimatedZoom(view)))
	distScore := uint32(dist * 1000.0)

	return uint32(zoomDiff)*10000 + distScore
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// VisibleTileRange computes the tile index range (xMin, xMax, yMin,
// yMax) at zoom z that covers the view's visibility disc. Callers still
// test each candidate with TileVisible. Both x and y are clamped to
// [0, 2^z-1]: x does not wrap, so a disc that crosses the ±180° meridian
// is cut at the grid edge and tiles on the far side are not included.
func VisibleTileRange(view protocol.ViewState, z uint8) (xMin, xMax, yMin, yMax uint32) {
	radius := ViewRadiusDeg(view)

	lonMin := view.Lon - radius
	lonMax := view.Lon + radius
	latMin := math.Max(view.Lat-radius, -85.0)
	latMax := math.Min(view.Lat+radius, 85.0)

	xMin = lonToTileX(lonMin, z)
	xMax = lonToTileX(lonMax, z)
	yMin = latToTileY(latMax, z) // Y is flipped: higher latitude, smaller Y.
	yMax = latToTileY(latMin, z)
	return
}

func lonToTileX(lon float64, z uint8) uint32 {
	n := int32(1) << z
	x := int32(math.Floor((lon + 180.0) / 360.0 * float64(n)))
	return uint32(clampI32(x, 0, n-1))
}

func latToTileY(lat float64, z uint8) uint32 {
	n := int32(1) << z
	latRad := degToRad(lat)
	y := int32(math.Floor((1.0 - math.Asinh(math.Tan(latRad))/math.Pi) / 2.0 * float64(n)))
	return uint32(clampI32(y, 0, n-1))
}

func clampI32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
