// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package geometry

import (
	"math"

	"github.com/tomtom215/cartographus/internal/protocol"
)

// BoundsWGS84 returns a tile's geographic bounds as (lonMin, latMin,
// lonMax, latMax).
func BoundsWGS84(coord protocol.TileCoord) (lonMin, latMin, lonMax, latMax float64) {
	n := float64(uint32(1) << coord.Z)
	lonMin = (float64(coord.X)/n)*360.0 - 180.0
	lonMax = (float64(coord.X+1)/n)*360.0 - 180.0

	latMax = tileYToLat(coord.Y, coord.Z)
	latMin = tileYToLat(coord.Y+1, coord.Z)
	return
}

// tileYToLat is the inverse Web Mercator projection for a tile row.
func tileYToLat(y uint32, z uint8) float64 {
	n := math.Pi - 2.0*math.Pi*float64(y)/float64(uint32(1)<<z)
	return radToDeg(math.Atan(math.Sinh(n)))
}

func radToDeg(r float64) float64 {
	return r * 180.0 / math.Pi
}

func degToRad(d float64) float64 {
	return d * math.Pi / 180.0
}
