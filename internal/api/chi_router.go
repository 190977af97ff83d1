// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package api provides HTTP routing using Chi router.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appmiddleware "github.com/tomtom215/cartographus/internal/middleware"
)

// asChiMiddleware adapts the package's http.HandlerFunc-based middleware
// signature to the func(http.Handler) http.Handler shape chi expects.
func asChiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// SetupChi configures all HTTP routes using the Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(RequestIDWithLogging())
	r.Use(E2EDebugLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(router.handler.perf.Middleware)
	r.Use(asChiMiddleware(appmiddleware.PrometheusMetrics))

	// ========================
	// Health Endpoints
	// ========================
	r.Route("/healthz", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// ========================
	// Metrics
	// ========================
	r.Handle("/metrics", promhttp.Handler())

	// ========================
	// Streaming (C7): WebSocket tile delivery and realtime subscriptions
	// ========================
	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitWebSocket())
		r.Get("/ws/tiles", router.handler.WebSocket)
		r.Get("/ws/realtime", router.handler.WebSocket)
	})

	// ========================
	// Terrain and surface tile fallback: HTTP GET path for clients that
	// don't hold a WebSocket session. Routed through the residency cache
	// (C5), which streamed tiles bypass; never touches the work queue (C6),
	// which only serves queued WebSocket view requests.
	// ========================
	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitAPI())
		r.Use(asChiMiddleware(appmiddleware.Compression))
		r.Get("/terrain/tileset.json", router.handler.TerrainTileset)
		r.Get("/terrain/tiles/{z}/{x}/{y}.bin", router.handler.TerrainTile)
		r.Get("/surface/tiles/{z}/{x}/{y}.bin", router.handler.SurfaceTile)
	})

	// ========================
	// Admin API: data source registry (C4)
	// ========================
	r.Route("/api/sources", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitAPI())
		r.Get("/", router.handler.ListSources)
		r.Post("/", router.handler.CreateSource)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", router.handler.GetSource)
			r.Delete("/", router.handler.DeleteSource)
			r.Route("/tiles/{z}/{x}/{y}", func(r chi.Router) {
				r.With(asChiMiddleware(appmiddleware.Compression)).Get("/", router.handler.GetSourceTile)
				r.Put("/", router.handler.PutSourceTile)
				r.Delete("/", router.handler.DeleteSourceTile)
			})
		})
	})

	// ========================
	// Admin API: webhook sources (C8)
	// ========================
	r.Route("/api/webhooks", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitAPI())
		r.Get("/", router.handler.ListWebhookSources)
		r.Post("/", router.handler.CreateWebhookSource)
		r.Delete("/{id}", router.handler.DeleteWebhookSource)
	})

	// ========================
	// Admin API: diagnostics
	// ========================
	r.Route("/api/diagnostics", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitAPI())
		r.Get("/performance", router.handler.GetPerformanceStats)
	})

	// ========================
	// Webhook ingestion (C8)
	// ========================
	r.Post("/webhook/{source_id}", router.webhooks.ServeHTTP)

	return r
}
