// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package middleware provides HTTP middleware components for the application.

This package implements infrastructure middleware for compression, performance
monitoring, and Prometheus metrics integration. Request ID tracking lives in
internal/api's RequestIDWithLogging, which wraps chi's own RequestID
middleware; this package doesn't duplicate it.

Key Components:

  - Compression: Gzip compression for clients that accept it
  - Performance Monitor: Request latency tracking with percentile calculations
  - Prometheus Metrics: HTTP request/response instrumentation

Middleware Stack:

The global chi stack mounted in internal/api/chi_router.go applies these
in order:

	r.Use(RequestIDWithLogging())                         // request/correlation IDs
	r.Use(router.handler.perf.Middleware)                  // latency sampling
	r.Use(asChiMiddleware(appmiddleware.PrometheusMetrics)) // Prometheus histograms
	...
	r.Use(asChiMiddleware(appmiddleware.Compression))      // mounted on tile routes only

Usage Example - Compression:

	import "github.com/tomtom215/cartographus/internal/middleware"

	// Wrap handler with gzip compression
	http.HandleFunc("/api/v1/data",
	    middleware.Compression(handler),
	)

	// Responses of any size are compressed
	// Accept-Encoding: gzip header is required

Usage Example - Performance Monitoring:

	// Create performance monitor
	perfMon := middleware.NewPerformanceMonitor(2048)

	// Wrap handler
	http.Handle("/api/v1/stats",
	    perfMon.Middleware(handler),
	)

	// Get performance statistics
	stats := perfMon.GetStats()

Performance Characteristics:

  - Compression: 70-90% size reduction for JSON (text/json mime types)
  - Compression overhead: ~1-2ms for typical responses
  - Metrics overhead: <0.1ms per request
  - Performance monitor: bounded sliding window of latency samples

Compression Details:

The compression middleware:
  - Only compresses responses the client accepts (Accept-Encoding: gzip)
  - Skips WebSocket upgrade requests
  - Pools gzip.Writer values via sync.Pool

Performance Monitor:

The performance monitor tracks, per method+path:
  - Request count
  - Latency percentiles (p50, p95, p99)
  - A bounded sliding window of recent requests

Thread Safety:

All middleware components are thread-safe:
  - Compression uses a sync.Pool of per-request gzip writers
  - Performance monitor uses sync.RWMutex
  - Prometheus metrics use atomic operations

See Also:

  - internal/api: HTTP handlers and router wrapped by this middleware
  - internal/metrics: Prometheus metrics definitions
*/
package middleware
