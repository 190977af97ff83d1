// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package queue implements the deterministic work queue that backs tile
scheduling (C6): total ordering on (priority, id), equal priorities
served in insertion order, cancellation that never reorders the
remaining items, optional backpressure via a maximum pending length,
and optional per-pop frame budgeting.

The queue is slice-backed with an O(n) linear scan on every pop. That
is deliberate, not an oversight: determinism and an auditable ordering
rule matter more here than pop throughput, and a session's queue holds
at most a view's worth of candidate tiles, not an unbounded backlog.
A binary heap would give faster pops but makes "equal priority resolves
to insertion order" awkward to guarantee without wrapping every key in
a secondary tie-breaker anyway, at which point the asymptotic win stops
paying for the complexity.
*/
package queue
