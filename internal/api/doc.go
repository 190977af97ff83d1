// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package api provides the HTTP surface for the tile streaming server.

Key Components:

  - Router: route configuration and middleware stack integration
  - Handler: request handlers for health, tile fallback, WebSocket
    upgrade, and the admin API
  - Response formatting: standardized JSON responses with metadata
  - Rate limiting: per-IP request counts per time window via go-chi/httprate
  - CORS: Cross-Origin Resource Sharing for frontend compatibility

Endpoint Categories:

  - Health: /healthz/live, /healthz/ready
  - Streaming (C7): /ws/tiles, /ws/realtime (WebSocket upgrade)
  - Tile fallback: /terrain/tiles/{z}/{x}/{y}.bin, /surface/tiles/{z}/{x}/{y}.bin,
    /terrain/tileset.json
  - Source registry (C4): /api/sources, /api/sources/{id},
    /api/sources/{id}/tiles/{z}/{x}/{y}
  - Webhook ingestion (C8): /api/webhooks, /webhook/{source_id}
  - Diagnostics: /api/diagnostics/performance (latency percentiles)

Usage Example:

	reg := registry.New()
	webhooks := webhook.New(webhook.DefaultConfig(), hub)
	handler := api.NewHandler(cfg, reg, tileCache, webhooks, streamingConfig)
	router := api.NewRouter(handler, api.NewChiMiddleware(nil), webhooks)
	http.ListenAndServe(cfg.Terrain.Addr, router.SetupChi())

Security:

Authorization policy (JWT/OIDC/RBAC) is out of scope for this server; the
admin endpoints above are expected to sit behind a reverse proxy or VPN
boundary. The only access control this package enforces is the
webhook's optional static bearer token, handled in internal/webhook.
*/
package api
