// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import "github.com/tomtom215/cartographus/internal/webhook"

// Router wires a Handler to a rate-limiting/CORS middleware stack and
// builds the final http.Handler via SetupChi.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	webhooks      *webhook.HTTPHandler
}

// NewRouter builds a Router from an already-constructed Handler. webhookReg
// backs the POST /webhook/{source_id} ingestion endpoint (C8).
func NewRouter(handler *Handler, chiMiddleware *ChiMiddleware, webhookReg *webhook.Registry) *Router {
	if chiMiddleware == nil {
		chiMiddleware = NewChiMiddleware(DefaultChiMiddlewareConfig())
	}
	return &Router{
		handler:       handler,
		chiMiddleware: chiMiddleware,
		webhooks:      webhook.NewHTTPHandler(webhookReg),
	}
}
