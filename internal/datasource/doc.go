// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package datasource implements the polymorphic data source abstraction
(C3): a single DataSource interface with filesystem, HTTP, in-memory,
and fallback-chain implementations.

GetTile distinguishes "tile does not exist" from "fetch failed": a
missing tile returns (nil, false, nil), a real fault returns (nil,
false, err). Callers that conflate the two end up retrying requests for
tiles that will never exist, or silently swallowing fetch failures as
tile-not-found; every implementation in this package preserves the
distinction the way the original Rust DataSource trait does with
Option<Vec<u8>> versus Result's Err arm.

The HTTP source wraps its round trips in a sony/gobreaker circuit
breaker, the same pattern internal/sync/circuit_breaker.go uses for the
teacher's Tautulli client: a call storm against an unreachable tile
origin should trip the breaker and fail fast rather than pile up
goroutines on the dial timeout.
*/
package datasource
