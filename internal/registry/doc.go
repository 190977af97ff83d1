// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package registry implements the source registry (C4): a named lookup of
the data sources a server has available, shared across every session.

It mirrors the small RWMutex-protected-map registry the original
ws_streaming.rs keeps inline as DataSourceRegistry, pulled out to its own
package so internal/session and internal/api's admin surface share one
instance instead of each reimplementing it.
*/
package registry
