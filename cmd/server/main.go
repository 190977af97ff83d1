// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/cartographus/internal/api"
	"github.com/tomtom215/cartographus/internal/cache"
	"github.com/tomtom215/cartographus/internal/config"
	"github.com/tomtom215/cartographus/internal/datasource"
	"github.com/tomtom215/cartographus/internal/logging"
	"github.com/tomtom215/cartographus/internal/protocol"
	"github.com/tomtom215/cartographus/internal/registry"
	"github.com/tomtom215/cartographus/internal/supervisor"
	"github.com/tomtom215/cartographus/internal/supervisor/services"
	ws "github.com/tomtom215/cartographus/internal/websocket"
	"github.com/tomtom215/cartographus/internal/webhook"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.DefaultConfig())
	logging.Info().Str("addr", cfg.Terrain.Addr).Msg("Starting Cartographus terrain server")

	reg := registry.New()
	registerDefaultSources(reg, cfg)

	tileCache := cache.NewCache(cache.NewMemoryBudget(cfg.Cache.MaxBytes))

	hub := ws.NewHub()

	webhookCfg := webhook.Config{
		MaxPayloadBytes:    cfg.Webhook.MaxPayloadBytes,
		RateLimitPerSecond: cfg.Webhook.RateLimitPerSecond,
		RateLimitBurst:     cfg.Webhook.RateLimitBurst,
		RequireAuth:        cfg.Webhook.RequireAuth,
		AuthTokens:         map[string]string{},
	}
	webhookReg := webhook.New(webhookCfg, hub)
	registerDefaultWebhookSources(webhookReg)

	streamingConfig := protocol.StreamingConfig{
		MaxTilesPerView:   int(cfg.Server.MaxTilesPerView),
		MaxInflight:       int(cfg.Server.MaxInflight),
		ViewDecayFactor:   protocol.DefaultStreamingConfig().ViewDecayFactor,
		MinViewIntervalMS: uint64(cfg.Server.MinViewIntervalMS),
	}

	handler := api.NewHandler(cfg, reg, tileCache, webhookReg, streamingConfig)
	chiMiddleware := api.NewChiMiddleware(api.DefaultChiMiddlewareConfig())
	router := api.NewRouter(handler, chiMiddleware, webhookReg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	slogLogger := logging.NewSlogLogger()
	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	server := &http.Server{
		Addr:              cfg.Terrain.Addr,
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", cfg.Terrain.Addr).Msg("HTTP server and WebSocket hub added to supervisor tree")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

// registerDefaultSources wires the terrain heightmap and surface mesh
// layers onto disk, mirroring the default registration the original
// terrain server performed at startup.
func registerDefaultSources(reg *registry.Registry, cfg *config.Config) {
	t := cfg.Terrain
	reg.Register("terrain", datasource.NewFilesystemSource(t.Root, "bin", datasource.Metadata{
		Name:        "terrain",
		Description: "Copernicus DEM heightmap tiles",
		Attribution: "Copernicus DEM GLO-30",
		MinZoom:     uint8(t.ZoomMin),
		MaxZoom:     uint8(t.ZoomMax),
		Bounds:      []float64{t.MinLon, t.MinLat, t.MaxLon, t.MaxLat},
		Format:      protocol.TileFormatHeightmapF32,
	}))
	reg.Register("surface", datasource.NewFilesystemSource(t.SurfaceRoot, "bin", datasource.Metadata{
		Name:        "surface",
		Description: "Triangulated surface mesh tiles",
		MinZoom:     uint8(t.ZoomMin),
		MaxZoom:     uint8(t.ZoomMax),
		Bounds:      []float64{t.MinLon, t.MinLat, t.MaxLon, t.MaxLat},
		Format:      protocol.TileFormatMVT,
	}))
}

// registerDefaultWebhookSources mirrors the original terrain server's
// default "realtime" GeoJSON ingestion source.
func registerDefaultWebhookSources(reg *webhook.Registry) {
	reg.RegisterSource(webhook.Source{
		ID:          "realtime",
		Name:        "Real-time GeoJSON",
		Description: "Live GeoJSON feature updates broadcast to /ws/realtime subscribers",
		Schema:      webhook.Schema{Kind: webhook.SchemaGeoJSON},
	})
}
