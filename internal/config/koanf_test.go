// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package config

import (
	"testing"

	"github.com/tomtom215/cartographus/internal/validation"
)

func TestDefaultConfigPassesValidation(t *testing.T) {
	cfg := defaultConfig()
	if err := validation.ValidateStruct(cfg); err != nil {
		t.Fatalf("default config should validate, got: %v", err)
	}
}

func TestDefaultConfigValues(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Terrain.Addr != "127.0.0.1:9100" {
		t.Errorf("Terrain.Addr = %q, want 127.0.0.1:9100", cfg.Terrain.Addr)
	}
	if cfg.Terrain.ZoomMax != 8 {
		t.Errorf("Terrain.ZoomMax = %d, want 8", cfg.Terrain.ZoomMax)
	}
	if cfg.Server.MaxInflight != 64 {
		t.Errorf("Server.MaxInflight = %d, want 64", cfg.Server.MaxInflight)
	}
	if cfg.Cache.MaxBytes != 512*1024*1024 {
		t.Errorf("Cache.MaxBytes = %d, want 512MiB", cfg.Cache.MaxBytes)
	}
	if cfg.Queue.MaxLen != 4096 {
		t.Errorf("Queue.MaxLen = %d, want 4096", cfg.Queue.MaxLen)
	}
	if cfg.Webhook.MaxPayloadBytes != 10*1024*1024 {
		t.Errorf("Webhook.MaxPayloadBytes = %d, want 10MiB", cfg.Webhook.MaxPayloadBytes)
	}
}

func TestEnvTransformFuncMapsKnownVars(t *testing.T) {
	cases := map[string]string{
		"TERRAIN_ROOT":                "terrain.root",
		"TERRAIN_ADDR":                "terrain.addr",
		"TERRAIN_ZOOM_MAX":            "terrain.zoom_max",
		"STAC_URL":                    "terrain.stac_url",
		"SERVER_MAX_INFLIGHT":         "server.max_inflight",
		"CACHE_MAX_BYTES":             "cache.max_bytes",
		"QUEUE_MAX_LEN":               "queue.max_len",
		"WEBHOOK_MAX_PAYLOAD_BYTES":   "webhook.max_payload_bytes",
		"WEBHOOK_BROADCAST_CAPACITY":  "webhook.broadcast_capacity",
	}
	for env, want := range cases {
		if got := envTransformFunc(env); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", env, got, want)
		}
	}
}

func TestEnvTransformFuncDropsUnknownVars(t *testing.T) {
	for _, env := range []string{"PATH", "HOME", "RANDOM_NOISE"} {
		if got := envTransformFunc(env); got != "" {
			t.Errorf("envTransformFunc(%q) = %q, want empty", env, got)
		}
	}
}

func TestLoadWithKoanfAppliesEnvOverride(t *testing.T) {
	t.Setenv("TERRAIN_ADDR", "0.0.0.0:9200")
	t.Setenv("SERVER_MAX_INFLIGHT", "128")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf: %v", err)
	}
	if cfg.Terrain.Addr != "0.0.0.0:9200" {
		t.Errorf("Terrain.Addr = %q, want 0.0.0.0:9200", cfg.Terrain.Addr)
	}
	if cfg.Server.MaxInflight != 128 {
		t.Errorf("Server.MaxInflight = %d, want 128", cfg.Server.MaxInflight)
	}
}

func TestLoadWithKoanfRejectsInvalidZoomRange(t *testing.T) {
	t.Setenv("TERRAIN_ZOOM_MIN", "10")
	t.Setenv("TERRAIN_ZOOM_MAX", "5")

	if _, err := LoadWithKoanf(); err == nil {
		t.Fatal("expected validation error for zoom_max < zoom_min")
	}
}
