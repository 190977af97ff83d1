// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package geometry implements the pure coordinate math that drives tile
streaming prioritization (C1): ZXY tile bounds in WGS84, Web Mercator
zoom estimation from camera altitude, visibility testing against a
view's ground footprint, and tile-priority scoring.

Everything here is pure and allocation-free by design: no I/O, no
locking, no package-level state. internal/session calls these
functions on every view update to build the candidate tile set, so
they run on the hot path.

There is no geodesy library in play here; the formulas (inverse Web
Mercator, great-circle-free degree-distance approximation) are short
enough, and specific enough to this wire protocol's conventions, that
pulling in a general-purpose projection library would add a dependency
without removing any of this code.
*/
package geometry
