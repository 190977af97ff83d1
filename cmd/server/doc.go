// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package main is the entry point for the Cartographus terrain tile
streaming server.

Cartographus streams geospatial terrain and surface tiles to connected
clients over WebSocket, backed by a view-driven work queue and a
byte-budgeted residency cache, with a read-only HTTP fallback and a
webhook ingestion path for live GeoJSON updates.

# Application Architecture

The server runs under Suture v4 process supervision:

	RootSupervisor ("cartographus")
	├── MessagingSupervisor ("messaging-layer")
	│   └── WebSocket Hub (realtime webhook fanout)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (WebSocket upgrade, tile fallback, admin API)

Component initialization order:

 1. Configuration: Koanf v2 layering defaults, config file, and environment
 2. Logging: zerolog with JSON/console output modes
 3. Data source registry (C4): default terrain/surface filesystem sources
 4. Residency cache (C5) and webhook registry (C8)
 5. Supervisor tree: WebSocket hub and HTTP server as supervised services

# Configuration

Configuration loads via Koanf v2 with layered sources (highest priority
wins): environment variables > config file > built-in defaults. See
internal/config for the full set of TERRAIN_*, SERVER_*, CACHE_*,
QUEUE_*, and WEBHOOK_* environment variables.

# Signal Handling

The server handles graceful shutdown on SIGINT and SIGTERM: it stops
accepting new connections, waits for in-flight requests, closes open
WebSocket sessions, and reports any service that failed to stop within
its shutdown timeout.
*/
package main
