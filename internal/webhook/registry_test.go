// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package webhook

import (
	"errors"
	"net/http"
	"testing"
	"time"
)

type recordingPublisher struct {
	calls []publishCall
}

type publishCall struct {
	source string
	data   interface{}
}

func (p *recordingPublisher) Publish(source string, data interface{}) {
	p.calls = append(p.calls, publishCall{source: source, data: data})
}

func kindOf(t *testing.T, err error) ErrorKind {
	t.Helper()
	var webhookErr *Error
	if !errors.As(err, &webhookErr) {
		t.Fatalf("expected *webhook.Error, got %T (%v)", err, err)
	}
	return webhookErr.Kind
}

func TestProcessGeoJSONBroadcastsToPublisher(t *testing.T) {
	pub := &recordingPublisher{}
	reg := New(DefaultConfig(), pub)
	reg.RegisterSource(Source{ID: "gps", Schema: Schema{Kind: SchemaGeoJSON}})

	body := []byte(`{"type":"Feature","properties":{}}`)
	if err := reg.Process("gps", http.Header{}, body, time.Unix(0, 0)); err != nil {
		t.Fatalf("process: %v", err)
	}

	if len(pub.calls) != 1 {
		t.Fatalf("expected exactly one broadcast, got %d", len(pub.calls))
	}
	if pub.calls[0].source != "gps" {
		t.Fatalf("expected source 'gps', got %q", pub.calls[0].source)
	}
}

func TestProcessUnknownSourceRejected(t *testing.T) {
	reg := New(DefaultConfig(), &recordingPublisher{})
	err := reg.Process("missing", http.Header{}, []byte(`{}`), time.Unix(0, 0))
	if err == nil || kindOf(t, err) != ErrUnknownSource {
		t.Fatalf("expected unknown source error, got %v", err)
	}
}

func TestProcessPayloadTooLargeRejected(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxPayloadBytes = 4
	reg := New(cfg, &recordingPublisher{})
	reg.RegisterSource(Source{ID: "s", Schema: Schema{Kind: SchemaRaw}})

	err := reg.Process("s", http.Header{}, []byte("way too big"), time.Unix(0, 0))
	if err == nil || kindOf(t, err) != ErrPayloadTooLarge {
		t.Fatalf("expected payload too large error, got %v", err)
	}
}

func TestProcessRequiresAuthWhenConfigured(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RequireAuth = true
	cfg.AuthTokens = map[string]string{"s": "secret-token"}
	reg := New(cfg, &recordingPublisher{})
	reg.RegisterSource(Source{ID: "s", Schema: Schema{Kind: SchemaRaw}})

	err := reg.Process("s", http.Header{}, []byte("x"), time.Unix(0, 0))
	if err == nil || kindOf(t, err) != ErrUnauthorized {
		t.Fatalf("expected unauthorized without a token, got %v", err)
	}

	headers := http.Header{}
	headers.Set("Authorization", "Bearer secret-token")
	if err := reg.Process("s", headers, []byte("x"), time.Unix(0, 0)); err != nil {
		t.Fatalf("expected success with correct token, got %v", err)
	}
}

func TestProcessRateLimitsPerSource(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimitPerSecond = 1
	cfg.RateLimitBurst = 1
	reg := New(cfg, &recordingPublisher{})
	reg.RegisterSource(Source{ID: "s", Schema: Schema{Kind: SchemaRaw}})

	if err := reg.Process("s", http.Header{}, []byte("x"), time.Unix(0, 0)); err != nil {
		t.Fatalf("first request should succeed: %v", err)
	}
	err := reg.Process("s", http.Header{}, []byte("x"), time.Unix(0, 0))
	if err == nil || kindOf(t, err) != ErrRateLimited {
		t.Fatalf("expected second immediate request to be rate limited, got %v", err)
	}
}

func TestProcessCustomSchemaRequiresFields(t *testing.T) {
	reg := New(DefaultConfig(), &recordingPublisher{})
	reg.RegisterSource(Source{
		ID:     "events",
		Schema: Schema{Kind: SchemaCustom, RequiredFields: []string{"kind", "payload"}},
	})

	err := reg.Process("events", http.Header{}, []byte(`{"kind":"x"}`), time.Unix(0, 0))
	if err == nil || kindOf(t, err) != ErrInvalidPayload {
		t.Fatalf("expected invalid payload for missing field, got %v", err)
	}

	ok := []byte(`{"kind":"x","payload":{}}`)
	if err := reg.Process("events", http.Header{}, ok, time.Unix(0, 0)); err != nil {
		t.Fatalf("expected success with required fields present: %v", err)
	}
}

func TestProcessAppliesTransform(t *testing.T) {
	pub := &recordingPublisher{}
	reg := New(DefaultConfig(), pub)
	reg.RegisterSource(Source{
		ID:        "events",
		Schema:    Schema{Kind: SchemaCustom},
		Transform: "features[0].properties",
	})

	body := []byte(`{"features":[{"properties":{"name":"alpha"}}]}`)
	if err := reg.Process("events", http.Header{}, body, time.Unix(0, 0)); err != nil {
		t.Fatalf("process: %v", err)
	}

	extracted, ok := pub.calls[0].data.(map[string]interface{})
	if !ok {
		t.Fatalf("expected extracted object, got %T", pub.calls[0].data)
	}
	if extracted["name"] != "alpha" {
		t.Fatalf("expected transform to extract name=alpha, got %v", extracted)
	}
}
