// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package cache implements the byte-budgeted residency cache (C5) that
tracks which tiles are currently resident in memory, subject to a
maximum byte budget and deterministic LRU eviction.

Determinism matters here as much as correctness: every mutating call
advances a monotonic tick, and eviction breaks last-used-tick ties by
comparing CacheKey lexicographically, so two runs fed the same sequence
of calls evict the same entries in the same order. There is no
BTreeMap equivalent in the standard library, so ordered traversal is
reproduced by sorting map keys at decision time rather than maintaining
a sorted container — the cache's entry count is small enough (bounded
by what a session's view can have resident at once) that this costs
nothing observable.

The cache is safe for concurrent use, guarded by an internal mutex:
the server builds one Cache and shares it across all requests of the
HTTP tile fallback in internal/api. WebSocket sessions in
internal/session do not consult it.
*/
package cache
