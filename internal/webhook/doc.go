// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package webhook implements external data ingestion (C8): sources POST
JSON payloads to a per-source endpoint, the payload is authenticated,
rate-limited, validated against the source's declared schema, optionally
transformed, and broadcast to subscribed WebSocket clients via
internal/websocket.Hub.Publish.

Ported from original_source/crates/apps/server/src/webhooks.rs. The
token-bucket rate limiter there is hand-rolled per source; this package
uses golang.org/x/time/rate.Limiter instead, one per registered source,
which is the same library the teacher's HTTP middleware stack reaches
for elsewhere.

Cross-process fan-out (multiple server processes sharing one broadcast
bus) is optional and build-tag gated exactly as the teacher's
internal/eventprocessor/publisher.go / publisher_stub.go split: build
with -tags=nats for a real Watermill/NATS publisher, otherwise a stub
that reports the feature is unavailable.
*/
package webhook
