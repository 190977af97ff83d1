// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package config

// Config is the complete runtime configuration for the tile-streaming
// server. Fields are grouped by subsystem, matching the package layout
// under internal/.
type Config struct {
	Terrain TerrainConfig `koanf:"terrain" validate:"required"`
	Server  ServerConfig  `koanf:"server" validate:"required"`
	Cache   CacheConfig   `koanf:"cache" validate:"required"`
	Queue   QueueConfig   `koanf:"queue" validate:"required"`
	Webhook WebhookConfig `koanf:"webhook" validate:"required"`
}

// TerrainConfig describes the filesystem/STAC-backed DEM data source and
// the tileset metadata served at GET /terrain/tileset.json.
//
// Environment Variables:
//
//	TERRAIN_ROOT               base directory for terrain data (default /data/terrain)
//	TERRAIN_CACHE_ROOT         derived tile cache directory (default /data/terrain/cache, not derived from TERRAIN_ROOT)
//	SURFACE_ROOT               vector surface tile directory (default /data/terrain/surface, not derived from TERRAIN_ROOT)
//	TERRAIN_ADDR               listen address (default 127.0.0.1:9100)
//	TERRAIN_TILE_SIZE          heightmap tile edge length in samples (default 256)
//	TERRAIN_ZOOM_MIN           minimum served zoom (default 0)
//	TERRAIN_ZOOM_MAX           maximum served zoom (default 8)
//	TERRAIN_MIN_LON            dataset bounds, degrees (default -180)
//	TERRAIN_MAX_LON            dataset bounds, degrees (default 180)
//	TERRAIN_MIN_LAT            dataset bounds, degrees (default -90)
//	TERRAIN_MAX_LAT            dataset bounds, degrees (default 90)
//	TERRAIN_MIN_HEIGHT         advertised height range, meters (default -500)
//	TERRAIN_MAX_HEIGHT         advertised height range, meters (default 9000)
//	TERRAIN_NO_DATA            sentinel value for missing samples (default -9999)
//	TERRAIN_SAMPLE_STEP        DEM decimation stride (default 4)
//	TERRAIN_MAX_COGS_PER_TILE  max source rasters merged per output tile (default 16)
//	STAC_URL                   STAC catalog root for DEM discovery
//	TERRAIN_COLLECTION         STAC collection id (default dem_cop_30)
//	TERRAIN_VERTICAL_DATUM     vertical datum label (default msl-egm2008)
//	TERRAIN_VERTICAL_UNITS     vertical units label (default m)
type TerrainConfig struct {
	Root            string  `koanf:"root" validate:"required"`
	CacheRoot       string  `koanf:"cache_root" validate:"required"`
	SurfaceRoot     string  `koanf:"surface_root" validate:"required"`
	Addr            string  `koanf:"addr" validate:"required,hostname_port"`
	TileSize        uint32  `koanf:"tile_size" validate:"gte=1,lte=4096"`
	ZoomMin         uint32  `koanf:"zoom_min" validate:"lte=30"`
	ZoomMax         uint32  `koanf:"zoom_max" validate:"lte=30,gtefield=ZoomMin"`
	MinLon          float64 `koanf:"min_lon" validate:"gte=-180,lte=180,ltfield=MaxLon"`
	MaxLon          float64 `koanf:"max_lon" validate:"gte=-180,lte=180"`
	MinLat          float64 `koanf:"min_lat" validate:"gte=-90,lte=90,ltfield=MaxLat"`
	MaxLat          float64 `koanf:"max_lat" validate:"gte=-90,lte=90"`
	MinHeight       float64 `koanf:"min_height" validate:"ltfield=MaxHeight"`
	MaxHeight       float64 `koanf:"max_height"`
	NoData          float64 `koanf:"no_data"`
	SampleStep      uint32  `koanf:"sample_step" validate:"gte=1"`
	MaxCOGsPerTile  uint32  `koanf:"max_cogs_per_tile" validate:"gte=1"`
	StacURL         string  `koanf:"stac_url" validate:"omitempty,url"`
	Collection      string  `koanf:"collection" validate:"required"`
	VerticalDatum   string  `koanf:"vertical_datum" validate:"required"`
	VerticalUnits   string  `koanf:"vertical_units" validate:"required"`
}

// ServerConfig tunes the per-session view-streaming pipeline (C7).
//
// Environment Variables:
//
//	SERVER_MAX_INFLIGHT           max tiles a session may have in flight at once (default 64)
//	SERVER_MAX_TILES_PER_VIEW     max tiles dispatched per view update (default 256)
//	SERVER_MIN_VIEW_INTERVAL_MS   minimum spacing between accepted view updates (default 100)
type ServerConfig struct {
	MaxInflight       uint32 `koanf:"max_inflight" validate:"gte=1"`
	MaxTilesPerView   uint32 `koanf:"max_tiles_per_view" validate:"gte=1"`
	MinViewIntervalMS uint32 `koanf:"min_view_interval_ms"`
}

// CacheConfig tunes the residency cache (C5).
//
// Environment Variables:
//
//	CACHE_MAX_BYTES  byte budget for cached tile payloads (default 536870912, 512MiB)
type CacheConfig struct {
	MaxBytes uint64 `koanf:"max_bytes" validate:"gte=1"`
}

// QueueConfig tunes the bounded work queue (C6).
//
// Environment Variables:
//
//	QUEUE_MAX_LEN  max queued fetch jobs before TryPush returns Full (default 4096)
//
// The value is loaded and validated but not passed to any queue: the
// server's sessions build unbounded queues with queue.New.
type QueueConfig struct {
	MaxLen uint32 `koanf:"max_len" validate:"gte=1"`
}

// WebhookConfig tunes external data ingestion (C8).
//
// Environment Variables:
//
//	WEBHOOK_MAX_PAYLOAD_BYTES    max accepted request body size (default 10485760, 10MiB)
//	WEBHOOK_BROADCAST_CAPACITY   bounded broadcast channel capacity, drops oldest on overflow (default 1024)
//
// BroadcastCapacity is loaded and validated but not applied: websocket.NewHub
// creates its broadcast channel with a fixed capacity of 256.
type WebhookConfig struct {
	MaxPayloadBytes    int64   `koanf:"max_payload_bytes" validate:"gte=1"`
	BroadcastCapacity  uint32  `koanf:"broadcast_capacity" validate:"gte=1"`
	RateLimitPerSecond float64 `koanf:"rate_limit_per_second" validate:"gt=0"`
	RateLimitBurst     int     `koanf:"rate_limit_burst" validate:"gte=1"`
	RequireAuth        bool    `koanf:"require_auth"`
}
