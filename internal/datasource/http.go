// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package datasource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/tomtom215/cartographus/internal/logging"
	"github.com/tomtom215/cartographus/internal/metrics"
	"github.com/tomtom215/cartographus/internal/protocol"
)

// httpResult is the value type carried through the circuit breaker. A
// 404 is reported as found=false with a nil error, a real fault is
// reported as an error: a missing tile on a sparse tile pyramid must
// not count against the breaker's failure ratio the way a dial timeout
// or a 5xx does.
type httpResult struct {
	data  []byte
	found bool
}

// HTTPSource fetches tiles from a remote server via a URL template
// containing {z}, {x}, {y} placeholders, e.g.
// "https://tiles.example.com/{z}/{x}/{y}.mvt".
//
// DETERMINISM NOTE: the circuit breaker uses real time for its interval
// and timeout calculations, same as the teacher's CircuitBreakerClient.
// This governs recovery timing, not tile data, so it is fine for tests
// to treat an open breaker as a black box rather than simulate time.
type HTTPSource struct {
	client      *http.Client
	urlTemplate string
	meta        Metadata
	cb          *gobreaker.CircuitBreaker[httpResult]
	name        string
}

// NewHTTPSource builds an HTTPSource. name identifies the source in
// circuit breaker metrics and logs.
func NewHTTPSource(name, urlTemplate string, client *http.Client, meta Metadata) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[httpResult](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Str("source", name).Msg("[DATASOURCE] opening circuit")
			}
			return shouldTrip
		},
		OnStateChange: func(bname string, from, to gobreaker.State) {
			logging.Info().Str("from", stateString(from)).Str("to", stateString(to)).Str("source", bname).Msg("[DATASOURCE] circuit state transition")
			metrics.CircuitBreakerState.WithLabelValues(bname).Set(stateFloat(to))
		},
	})

	return &HTTPSource{client: client, urlTemplate: urlTemplate, meta: meta, cb: cb, name: name}
}

func stateFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateString(s gobreaker.State) string {
	switch s {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func (s *HTTPSource) url(coord protocol.TileCoord) string {
	r := strings.NewReplacer(
		"{z}", strconv.Itoa(int(coord.Z)),
		"{x}", strconv.Itoa(int(coord.X)),
		"{y}", strconv.Itoa(int(coord.Y)),
	)
	return r.Replace(s.urlTemplate)
}

func (s *HTTPSource) Metadata() Metadata { return s.meta }

func (s *HTTPSource) TileFormat() protocol.TileFormat { return DefaultTileFormat(s) }

func (s *HTTPSource) GetTile(ctx context.Context, coord protocol.TileCoord) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url(coord), nil)
	if err != nil {
		return nil, false, WrapError("building request", err)
	}

	result, err := s.cb.Execute(func() (httpResult, error) {
		resp, err := s.client.Do(req)
		if err != nil {
			return httpResult{}, err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return httpResult{found: false}, nil
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return httpResult{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return httpResult{}, err
		}
		return httpResult{data: body, found: true}, nil
	})

	if err != nil {
		return nil, false, WrapError("http fetch failed", err)
	}
	if !result.found {
		return nil, false, nil
	}
	return result.data, true, nil
}

func (s *HTTPSource) HasTile(ctx context.Context, coord protocol.TileCoord) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, s.url(coord), nil)
	if err != nil {
		return false, WrapError("building request", err)
	}

	result, err := s.cb.Execute(func() (httpResult, error) {
		resp, err := s.client.Do(req)
		if err != nil {
			return httpResult{}, err
		}
		defer resp.Body.Close()
		if resp.StatusCode == http.StatusNotFound {
			return httpResult{found: false}, nil
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return httpResult{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return httpResult{found: true}, nil
	})

	if err != nil {
		return false, WrapError("http head failed", err)
	}
	return result.found, nil
}

func (s *HTTPSource) GetTiles(ctx context.Context, coords []protocol.TileCoord) (map[protocol.TileCoord][]byte, error) {
	return GetTilesSequential(ctx, s, coords)
}
