// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package session implements the tile-streaming connection state machine
(C7): one Session per open WebSocket connection, driving view updates
into prioritized tile fetches against the shared source registry.

The reader/sender goroutine pair is grounded on
internal/websocket/client.go's readPump/writePump shape. The view-update
fan-out algorithm — rate limiting, zoom-range enumeration, visibility
and inflight filtering, budget-limited dispatch, progress reporting — is
ported from original_source/crates/apps/server/src/ws_streaming.rs's
handle_view_update and handle_explicit_tile_request.

Rust's WsSession keeps its per-view candidate tiles in a BinaryHeap with
a deliberately reversed Ord so the max-heap behaves like a min-heap
(lower TilePriority value means more urgent). internal/queue.Queue
already orders by ascending priority directly, so Session reuses it
as-is for that ephemeral per-view heap with no comparator inversion
needed.
*/
package session
