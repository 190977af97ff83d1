// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package webhook

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tomtom215/cartographus/internal/metrics"
)

// HTTPHandler adapts a Registry to chi's POST /webhook/{source_id} route.
type HTTPHandler struct {
	registry *Registry
}

// NewHTTPHandler wraps registry for mounting on a chi router.
func NewHTTPHandler(registry *Registry) *HTTPHandler {
	return &HTTPHandler{registry: registry}
}

// ServeHTTP handles POST /webhook/{source_id}.
func (h *HTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sourceID := chi.URLParam(r, "source_id")

	body, err := io.ReadAll(io.LimitReader(r.Body, h.registry.config.MaxPayloadBytes+1))
	if err != nil {
		writeError(w, sourceID, invalidPayload("failed to read request body"))
		return
	}

	if err := h.registry.Process(sourceID, r.Header, body, time.Now()); err != nil {
		writeError(w, sourceID, err)
		return
	}

	metrics.WebhookRequestsTotal.WithLabelValues(sourceID, "ok").Inc()
	w.WriteHeader(http.StatusOK)
}

func writeError(w http.ResponseWriter, sourceID string, err error) {
	var webhookErr *Error
	status := http.StatusInternalServerError
	outcome := "unknown_source"

	if errors.As(err, &webhookErr) {
		switch webhookErr.Kind {
		case ErrUnauthorized:
			status, outcome = http.StatusUnauthorized, "unauthorized"
		case ErrRateLimited:
			status, outcome = http.StatusTooManyRequests, "rate_limited"
		case ErrPayloadTooLarge:
			status, outcome = http.StatusRequestEntityTooLarge, "too_large"
		case ErrUnknownSource:
			status, outcome = http.StatusNotFound, "unknown_source"
		case ErrInvalidPayload:
			status, outcome = http.StatusBadRequest, "invalid_payload"
		}
	}

	metrics.WebhookRequestsTotal.WithLabelValues(sourceID, outcome).Inc()
	http.Error(w, err.Error(), status)
}
