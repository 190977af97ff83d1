// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package api wires the HTTP surface (C9): health checks, the
// read-only tile fallback endpoints, the WebSocket upgrade, and the
// admin API for managing data sources and webhook sources.
package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/cartographus/internal/cache"
	"github.com/tomtom215/cartographus/internal/config"
	"github.com/tomtom215/cartographus/internal/datasource"
	"github.com/tomtom215/cartographus/internal/logging"
	"github.com/tomtom215/cartographus/internal/metrics"
	appmiddleware "github.com/tomtom215/cartographus/internal/middleware"
	"github.com/tomtom215/cartographus/internal/protocol"
	"github.com/tomtom215/cartographus/internal/registry"
	"github.com/tomtom215/cartographus/internal/session"
	"github.com/tomtom215/cartographus/internal/webhook"
)

// performanceWindowSize bounds the in-memory sliding window of recent
// request metrics behind GET /api/diagnostics/performance.
const performanceWindowSize = 2048

// Handler holds everything an HTTP request needs to serve the tile
// streaming platform: the data source registry (C4), the residency
// cache (C5) backing the read-only tile fallback, the webhook registry
// (C8), and the per-session streaming tuning (C7).
type Handler struct {
	cfg             *config.Config
	registry        *registry.Registry
	cache           *cache.Cache
	webhooks        *webhook.Registry
	streamingConfig protocol.StreamingConfig
	upgrader        websocket.Upgrader
	perf            *appmiddleware.PerformanceMonitor
}

// NewHandler builds a Handler from the loaded configuration and the
// already-populated registries.
func NewHandler(cfg *config.Config, reg *registry.Registry, tileCache *cache.Cache, webhooks *webhook.Registry, streamingConfig protocol.StreamingConfig) *Handler {
	return &Handler{
		cfg:             cfg,
		registry:        reg,
		cache:           tileCache,
		webhooks:        webhooks,
		streamingConfig: streamingConfig,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		perf: appmiddleware.NewPerformanceMonitor(performanceWindowSize),
	}
}

// HealthLive answers GET /healthz/live: the process is up.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, map[string]string{"status": "live"})
}

// HealthReady answers GET /healthz/ready: the registry has at least one
// data source registered, so the server can actually serve tiles.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.registry.Len() == 0 {
		NewResponseWriter(w, r).ServiceUnavailable("no data sources registered")
		return
	}
	WriteSuccess(w, r, map[string]string{"status": "ready"})
}

// WebSocket upgrades GET /ws/tiles (and /ws/realtime) to a streaming
// session. Both endpoints share framing and message dispatch; the only
// difference is client behavior (tile vs. subscription-only use).
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	id := uuid.New().String()
	sess := session.New(id, conn, h.registry, h.streamingConfig)

	metrics.SessionsOpenedTotal.Inc()
	metrics.SessionsActive.Inc()
	defer metrics.SessionsActive.Dec()

	if err := sess.Serve(r.Context()); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Str("session_id", id).Msg("session closed")
	}
}

// TerrainTile answers GET /terrain/tiles/{z}/{x}/{y}.bin.
func (h *Handler) TerrainTile(w http.ResponseWriter, r *http.Request) {
	h.serveTile(w, r, "terrain")
}

// SurfaceTile answers GET /surface/tiles/{z}/{x}/{y}.bin.
func (h *Handler) SurfaceTile(w http.ResponseWriter, r *http.Request) {
	h.serveTile(w, r, "surface")
}

func (h *Handler) serveTile(w http.ResponseWriter, r *http.Request, sourceName string) {
	coord, ok := parseTileCoord(r)
	if !ok {
		NewResponseWriter(w, r).BadRequest("invalid tile coordinate")
		return
	}

	source, ok := h.registry.Get(sourceName)
	if !ok {
		NewResponseWriter(w, r).NotFound("source not registered: " + sourceName)
		return
	}

	key := cache.NewCacheKey(sourceName, tileResourceID(coord))
	h.cache.Request(key)

	data, found, err := source.GetTile(r.Context(), coord)
	if err != nil {
		NewResponseWriter(w, r).InternalError("tile fetch failed")
		return
	}
	if !found {
		_ = h.cache.Evict(key)
		NewResponseWriter(w, r).NotFound("tile not found")
		return
	}

	if evicted, err := h.cache.MarkResident(key, uint64(len(data))); err == nil {
		for _, k := range evicted {
			logging.Ctx(r.Context()).Debug().Str("dataset", k.DatasetID).Str("resource", k.ResourceID).Msg("cache evicted tile to stay under budget")
		}
	}
	metrics.CacheBytesUsed.Set(float64(h.cache.UsedBytes()))

	w.Header().Set("Content-Type", source.TileFormat().ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// TerrainTileset answers GET /terrain/tileset.json with the metadata
// block clients use to bootstrap a view over the terrain layer.
func (h *Handler) TerrainTileset(w http.ResponseWriter, r *http.Request) {
	t := h.cfg.Terrain
	WriteSuccess(w, r, map[string]interface{}{
		"version":            1,
		"tile_size":          t.TileSize,
		"zoom_min":           t.ZoomMin,
		"zoom_max":           t.ZoomMax,
		"data_type":          protocol.TileFormatHeightmapF32,
		"tile_path_template": "/terrain/tiles/{z}/{x}/{y}.bin",
		"vertical_datum":     t.VerticalDatum,
		"vertical_units":     t.VerticalUnits,
		"bounds":             []float64{t.MinLon, t.MinLat, t.MaxLon, t.MaxLat},
		"height_range":       []float64{t.MinHeight, t.MaxHeight},
		"no_data":            t.NoData,
		"sample_step":        t.SampleStep,
	})
}

func parseTileCoord(r *http.Request) (protocol.TileCoord, bool) {
	z, err := strconv.ParseUint(chi.URLParam(r, "z"), 10, 8)
	if err != nil {
		return protocol.TileCoord{}, false
	}
	x, err := strconv.ParseUint(chi.URLParam(r, "x"), 10, 32)
	if err != nil {
		return protocol.TileCoord{}, false
	}
	y, err := strconv.ParseUint(chi.URLParam(r, "y"), 10, 32)
	if err != nil {
		return protocol.TileCoord{}, false
	}
	return protocol.NewTileCoord(uint8(z), uint32(x), uint32(y)), true
}

func tileResourceID(coord protocol.TileCoord) string {
	return strconv.FormatUint(uint64(coord.Z), 10) + "/" +
		strconv.FormatUint(uint64(coord.X), 10) + "/" +
		strconv.FormatUint(uint64(coord.Y), 10)
}

// sourceSpec is the JSON body accepted by POST /api/sources. Only the
// memory and filesystem backends can be created over the admin API;
// HTTP and fallback sources require process-level wiring (a
// circuit-breaker-wrapped client, a chain of sub-sources) and are
// registered at startup instead.
type sourceSpec struct {
	ID          string   `json:"id" validate:"required"`
	Description string   `json:"description"`
	Attribution string   `json:"attribution"`
	MinZoom     uint8    `json:"min_zoom"`
	MaxZoom     uint8    `json:"max_zoom" validate:"gtefield=MinZoom"`
	Format      string   `json:"format" validate:"required,oneof=mvt geojson png jpeg webp heightmapf32 heightmapi16 quantizedmesh other"`
	Layers      []string `json:"layers"`
}

// ListSources answers GET /api/sources.
func (h *Handler) ListSources(w http.ResponseWriter, r *http.Request) {
	names := h.registry.List()
	out := make([]datasource.Metadata, 0, len(names))
	for _, name := range names {
		source, ok := h.registry.Get(name)
		if !ok {
			continue
		}
		out = append(out, source.Metadata())
	}
	WriteSuccess(w, r, out)
}

// GetSource answers GET /api/sources/{id}.
func (h *Handler) GetSource(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	source, ok := h.registry.Get(id)
	if !ok {
		NewResponseWriter(w, r).NotFound("source not found")
		return
	}
	WriteSuccess(w, r, source.Metadata())
}

// CreateSource answers POST /api/sources, registering a new in-memory
// data source. Filesystem/HTTP/fallback sources are process-level
// configuration, not runtime-creatable.
func (h *Handler) CreateSource(w http.ResponseWriter, r *http.Request) {
	var spec sourceSpec
	if err := decodeJSON(r, &spec); err != nil {
		NewResponseWriter(w, r).BadRequest("invalid request body")
		return
	}
	if verr := validateStruct(&spec); verr != nil {
		apiErr := verr.ToAPIError()
		NewResponseWriter(w, r).ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	if _, exists := h.registry.Get(spec.ID); exists {
		NewResponseWriter(w, r).Conflict(ErrSourceExists.Error())
		return
	}

	meta := datasource.Metadata{
		Name:        spec.ID,
		Description: spec.Description,
		Attribution: spec.Attribution,
		MinZoom:     spec.MinZoom,
		MaxZoom:     spec.MaxZoom,
		Format:      protocol.TileFormat(spec.Format),
		Layers:      spec.Layers,
	}
	h.registry.Register(spec.ID, datasource.NewMemorySource(meta))
	NewResponseWriter(w, r).Created(meta)
}

// DeleteSource answers DELETE /api/sources/{id}.
func (h *Handler) DeleteSource(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.registry.Get(id); !ok {
		NewResponseWriter(w, r).NotFound("source not found")
		return
	}
	h.registry.Unregister(id)
	NewResponseWriter(w, r).NoContent()
}

// GetSourceTile answers GET /api/sources/{id}/tiles/{z}/{x}/{y}.
func (h *Handler) GetSourceTile(w http.ResponseWriter, r *http.Request) {
	h.serveTile(w, r, chi.URLParam(r, "id"))
}

// PutSourceTile answers PUT /api/sources/{id}/tiles/{z}/{x}/{y}, the
// memory-source write path used by ingestion jobs that don't go
// through the webhook pipeline.
func (h *Handler) PutSourceTile(w http.ResponseWriter, r *http.Request) {
	mem, ok := h.memorySource(w, r)
	if !ok {
		return
	}
	coord, ok := parseTileCoord(r)
	if !ok {
		NewResponseWriter(w, r).BadRequest("invalid tile coordinate")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		NewResponseWriter(w, r).BadRequest("failed to read request body")
		return
	}

	mem.SetTile(coord, body)
	NewResponseWriter(w, r).NoContent()
}

// DeleteSourceTile answers DELETE /api/sources/{id}/tiles/{z}/{x}/{y}.
func (h *Handler) DeleteSourceTile(w http.ResponseWriter, r *http.Request) {
	mem, ok := h.memorySource(w, r)
	if !ok {
		return
	}
	coord, ok := parseTileCoord(r)
	if !ok {
		NewResponseWriter(w, r).BadRequest("invalid tile coordinate")
		return
	}
	mem.RemoveTile(coord)
	NewResponseWriter(w, r).NoContent()
}

func (h *Handler) memorySource(w http.ResponseWriter, r *http.Request) (*datasource.MemorySource, bool) {
	id := chi.URLParam(r, "id")
	source, ok := h.registry.Get(id)
	if !ok {
		NewResponseWriter(w, r).NotFound("source not found")
		return nil, false
	}
	mem, ok := source.(*datasource.MemorySource)
	if !ok {
		NewResponseWriter(w, r).BadRequest("tile writes are only supported on memory sources")
		return nil, false
	}
	return mem, true
}

// webhookSourceSpec is the JSON body accepted by POST /api/webhooks.
type webhookSourceSpec struct {
	ID             string   `json:"id" validate:"required"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Schema         string   `json:"schema" validate:"required,oneof=geojson custom raw"`
	RequiredFields []string `json:"required_fields"`
	Transform      string   `json:"transform"`
}

// ListWebhookSources answers GET /api/webhooks.
func (h *Handler) ListWebhookSources(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, h.webhooks.ListSources())
}

// CreateWebhookSource answers POST /api/webhooks.
func (h *Handler) CreateWebhookSource(w http.ResponseWriter, r *http.Request) {
	var spec webhookSourceSpec
	if err := decodeJSON(r, &spec); err != nil {
		NewResponseWriter(w, r).BadRequest("invalid request body")
		return
	}
	if verr := validateStruct(&spec); verr != nil {
		apiErr := verr.ToAPIError()
		NewResponseWriter(w, r).ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	h.webhooks.RegisterSource(webhook.Source{
		ID:          spec.ID,
		Name:        spec.Name,
		Description: spec.Description,
		Schema: webhook.Schema{
			Kind:           webhook.SchemaKind(spec.Schema),
			RequiredFields: spec.RequiredFields,
		},
		Transform: spec.Transform,
	})
	NewResponseWriter(w, r).Created(spec)
}

// DeleteWebhookSource answers DELETE /api/webhooks/{id}.
func (h *Handler) DeleteWebhookSource(w http.ResponseWriter, r *http.Request) {
	h.webhooks.UnregisterSource(chi.URLParam(r, "id"))
	NewResponseWriter(w, r).NoContent()
}

// GetPerformanceStats answers GET /api/diagnostics/performance with
// per-endpoint request latency percentiles drawn from the in-process
// sliding window recorded by the performance middleware.
func (h *Handler) GetPerformanceStats(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, map[string]interface{}{"endpoints": h.perf.GetStats()})
}
