// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package webhook

import (
	"crypto/subtle"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Config holds ingestion-wide webhook settings.
type Config struct {
	MaxPayloadBytes    int64
	RateLimitPerSecond float64
	RateLimitBurst     int
	RequireAuth        bool
	AuthTokens         map[string]string // source id -> bearer token
}

// DefaultConfig mirrors the teacher's production defaults.
func DefaultConfig() Config {
	return Config{
		MaxPayloadBytes:    10 * 1024 * 1024,
		RateLimitPerSecond: 100,
		RateLimitBurst:     200,
		RequireAuth:        false,
		AuthTokens:         map[string]string{},
	}
}

// Source is a registered webhook endpoint.
type Source struct {
	ID          string
	Name        string
	Description string
	Schema      Schema
	Transform   string // dotted path, empty means no transform
}

// Update is the payload broadcast to realtime subscribers after a
// webhook is accepted.
type Update struct {
	SourceID  string
	Timestamp time.Time
	Data      interface{}
}

// Publisher is the narrow slice of internal/websocket.Hub the registry
// needs, kept as an interface so tests don't need a live hub.
type Publisher interface {
	Publish(source string, data interface{})
}

// Registry validates, rate-limits, and broadcasts incoming webhook
// payloads. Safe for concurrent use.
type Registry struct {
	config    Config
	publisher Publisher

	mu          sync.RWMutex
	sources     map[string]Source
	limiters    map[string]*rate.Limiter
	crossFanout *fanout
}

// New builds a Registry broadcasting accepted updates through pub.
func New(config Config, pub Publisher) *Registry {
	return &Registry{
		config:    config,
		publisher: pub,
		sources:   make(map[string]Source),
		limiters:  make(map[string]*rate.Limiter),
	}
}

// EnableCrossProcessFanout wires an optional secondary publisher (NATS
// via Watermill, see fanout.go) that mirrors every accepted update
// across server processes sharing a broadcast bus.
func (r *Registry) EnableCrossProcessFanout(f *fanout) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.crossFanout = f
}

// RegisterSource adds or replaces a webhook source.
func (r *Registry) RegisterSource(src Source) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[src.ID] = src
	if _, ok := r.limiters[src.ID]; !ok {
		r.limiters[src.ID] = rate.NewLimiter(rate.Limit(r.config.RateLimitPerSecond), r.config.RateLimitBurst)
	}
}

// UnregisterSource removes a webhook source.
func (r *Registry) UnregisterSource(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sources, id)
	delete(r.limiters, id)
}

// ListSources returns every registered source.
func (r *Registry) ListSources() []Source {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Source, 0, len(r.sources))
	for _, s := range r.sources {
		out = append(out, s)
	}
	return out
}

func (r *Registry) checkAuth(sourceID string, headers http.Header) bool {
	if !r.config.RequireAuth {
		return true
	}
	expected, ok := r.config.AuthTokens[sourceID]
	if !ok {
		return false
	}
	provided := headers.Get("Authorization")
	const prefix = "Bearer "
	if len(provided) <= len(prefix) || provided[:len(prefix)] != prefix {
		return false
	}
	provided = provided[len(prefix):]
	return subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) == 1
}

func (r *Registry) checkRateLimit(sourceID string) bool {
	r.mu.RLock()
	limiter, ok := r.limiters[sourceID]
	r.mu.RUnlock()
	if !ok {
		return true
	}
	return limiter.Allow()
}

// Process validates and broadcasts an incoming webhook body for
// sourceID. now is the accept timestamp, passed in so tests stay
// deterministic (Registry never calls time.Now() itself; HTTPHandler
// supplies it).
func (r *Registry) Process(sourceID string, headers http.Header, body []byte, now time.Time) error {
	if !r.checkAuth(sourceID, headers) {
		return unauthorized()
	}
	if !r.checkRateLimit(sourceID) {
		return rateLimited()
	}
	if int64(len(body)) > r.config.MaxPayloadBytes {
		return payloadTooLarge()
	}

	r.mu.RLock()
	source, ok := r.sources[sourceID]
	r.mu.RUnlock()
	if !ok {
		return unknownSource()
	}

	data, err := validateAndParse(source.Schema, body)
	if err != nil {
		return err
	}

	if source.Transform != "" {
		data, err = applyTransform(source.Transform, data)
		if err != nil {
			return err
		}
	}

	update := Update{SourceID: sourceID, Timestamp: now, Data: data}
	if r.publisher != nil {
		r.publisher.Publish(sourceID, update.Data)
	}

	r.mu.RLock()
	cf := r.crossFanout
	r.mu.RUnlock()
	if cf != nil {
		cf.publish(update)
	}

	return nil
}
