// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package webhook

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func newTestRouter(reg *Registry) http.Handler {
	r := chi.NewRouter()
	r.Post("/webhook/{source_id}", NewHTTPHandler(reg).ServeHTTP)
	return r
}

func TestHandlerAcceptsValidWebhook(t *testing.T) {
	reg := New(DefaultConfig(), &recordingPublisher{})
	reg.RegisterSource(Source{ID: "gps", Schema: Schema{Kind: SchemaRaw}})
	router := newTestRouter(reg)

	req := httptest.NewRequest(http.MethodPost, "/webhook/gps", strings.NewReader("hello"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestHandlerUnknownSourceReturns404(t *testing.T) {
	reg := New(DefaultConfig(), &recordingPublisher{})
	router := newTestRouter(reg)

	req := httptest.NewRequest(http.MethodPost, "/webhook/missing", strings.NewReader("x"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestHandlerInvalidPayloadReturns400(t *testing.T) {
	reg := New(DefaultConfig(), &recordingPublisher{})
	reg.RegisterSource(Source{ID: "geo", Schema: Schema{Kind: SchemaGeoJSON}})
	router := newTestRouter(reg)

	req := httptest.NewRequest(http.MethodPost, "/webhook/geo", strings.NewReader(`{"type":"NotAFeature"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestHandlerUnauthorizedReturns401(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RequireAuth = true
	cfg.AuthTokens = map[string]string{"secure": "token"}
	reg := New(cfg, &recordingPublisher{})
	reg.RegisterSource(Source{ID: "secure", Schema: Schema{Kind: SchemaRaw}})
	router := newTestRouter(reg)

	req := httptest.NewRequest(http.MethodPost, "/webhook/secure", strings.NewReader("x"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestHandlerPayloadTooLargeReturns413(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxPayloadBytes = 2
	reg := New(cfg, &recordingPublisher{})
	reg.RegisterSource(Source{ID: "s", Schema: Schema{Kind: SchemaRaw}})
	router := newTestRouter(reg)

	req := httptest.NewRequest(http.MethodPost, "/webhook/s", strings.NewReader("way too big"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rr.Code)
	}
}
