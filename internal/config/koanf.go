// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/cartographus/internal/validation"
)

// DefaultConfigPaths lists the paths where a config file is searched for,
// in order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cartographus/config.yaml",
	"/etc/cartographus/config.yml",
}

// ConfigPathEnvVar overrides the config file search with an explicit path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the struct defaults, applied before the config
// file and environment layers. Values mirror the original terrain
// server's env_var_* fallbacks.
func defaultConfig() *Config {
	return &Config{
		Terrain: TerrainConfig{
			Root:          "/data/terrain",
			CacheRoot:     "/data/terrain/cache",
			SurfaceRoot:   "/data/terrain/surface",
			Addr:          "127.0.0.1:9100",
			TileSize:      256,
			ZoomMin:       0,
			ZoomMax:       8,
			MinLon:        -180.0,
			MaxLon:        180.0,
			MinLat:        -90.0,
			MaxLat:        90.0,
			MinHeight:     -500.0,
			MaxHeight:     9000.0,
			NoData:        -9999.0,
			SampleStep:    4,
			MaxCOGsPerTile: 16,
			StacURL:       "https://copernicus-dem-30m-stac.s3.amazonaws.com",
			Collection:    "dem_cop_30",
			VerticalDatum: "msl-egm2008",
			VerticalUnits: "m",
		},
		Server: ServerConfig{
			MaxInflight:       64,
			MaxTilesPerView:   256,
			MinViewIntervalMS: 100,
		},
		Cache: CacheConfig{
			MaxBytes: 512 * 1024 * 1024,
		},
		Queue: QueueConfig{
			MaxLen: 4096,
		},
		Webhook: WebhookConfig{
			MaxPayloadBytes:    10 * 1024 * 1024,
			BroadcastCapacity:  1024,
			RateLimitPerSecond: 100,
			RateLimitBurst:     200,
			RequireAuth:        false,
		},
	}
}

// LoadWithKoanf builds a Config from struct defaults, an optional YAML
// file, and environment variables, in that priority order, then runs
// struct validation.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")
	koanfInstance = k

	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validation.ValidateStruct(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envMappings translates the spec's flat legacy environment variable
// names to koanf dot-paths. Unmapped variables are left untouched by
// the env provider (empty return below), so ambient environment noise
// (PATH, HOME, ...) never pollutes the config tree.
var envMappings = map[string]string{
	"terrain_root":              "terrain.root",
	"terrain_cache_root":        "terrain.cache_root",
	"surface_root":              "terrain.surface_root",
	"terrain_addr":              "terrain.addr",
	"terrain_tile_size":         "terrain.tile_size",
	"terrain_zoom_min":          "terrain.zoom_min",
	"terrain_zoom_max":          "terrain.zoom_max",
	"terrain_min_lon":           "terrain.min_lon",
	"terrain_max_lon":           "terrain.max_lon",
	"terrain_min_lat":           "terrain.min_lat",
	"terrain_max_lat":           "terrain.max_lat",
	"terrain_min_height":        "terrain.min_height",
	"terrain_max_height":        "terrain.max_height",
	"terrain_no_data":           "terrain.no_data",
	"terrain_sample_step":       "terrain.sample_step",
	"terrain_max_cogs_per_tile": "terrain.max_cogs_per_tile",
	"stac_url":                  "terrain.stac_url",
	"terrain_collection":        "terrain.collection",
	"terrain_vertical_datum":    "terrain.vertical_datum",
	"terrain_vertical_units":    "terrain.vertical_units",

	"server_max_inflight":         "server.max_inflight",
	"server_max_tiles_per_view":   "server.max_tiles_per_view",
	"server_min_view_interval_ms": "server.min_view_interval_ms",

	"cache_max_bytes": "cache.max_bytes",

	"queue_max_len": "queue.max_len",

	"webhook_max_payload_bytes":   "webhook.max_payload_bytes",
	"webhook_broadcast_capacity":  "webhook.broadcast_capacity",
	"webhook_rate_limit_per_second": "webhook.rate_limit_per_second",
	"webhook_rate_limit_burst":    "webhook.rate_limit_burst",
	"webhook_require_auth":        "webhook.require_auth",
}

// envTransformFunc maps SCREAMING_SNAKE environment variable names onto
// koanf dot-paths via envMappings. Keys with no mapping are dropped
// (returning "" tells koanf's env provider to skip the variable).
func envTransformFunc(key string) string {
	mapped, ok := envMappings[strings.ToLower(key)]
	if !ok {
		return ""
	}
	return mapped
}

// GetKoanfInstance is exposed for callers that want to inspect the
// merged configuration tree directly (e.g. admin diagnostics).
func GetKoanfInstance() *koanf.Koanf {
	return koanfInstance
}

var koanfInstance = koanf.New(".")
