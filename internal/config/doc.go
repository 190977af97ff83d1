// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package config loads and validates the server's runtime configuration.
//
// Layering follows the teacher's pattern: struct defaults, then an
// optional YAML file, then environment variables, composed with
// knadh/koanf/v2. Every field carries a koanf tag for the loader and a
// validate tag checked with go-playground/validator/v10 immediately
// after the three layers are merged.
//
// Environment variables mirror the original terrain server
// (TERRAIN_ROOT, TERRAIN_ADDR, TERRAIN_ZOOM_MIN, ...) plus the
// operational knobs this rendition adds for the streaming pipeline
// (SERVER_MAX_INFLIGHT, CACHE_MAX_BYTES, QUEUE_MAX_LEN,
// WEBHOOK_MAX_PAYLOAD_BYTES, ...).
package config
