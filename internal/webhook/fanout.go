// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

//go:build !nats

package webhook

import "fmt"

// fanout is a stub when NATS dependencies are not available. Build
// with -tags=nats to enable cross-process broadcast fan-out.
type fanout struct{}

// NewFanout returns an error when NATS dependencies are not available.
func NewFanout(cfg FanoutConfig) (*fanout, error) {
	return nil, fmt.Errorf("cross-process webhook fanout not available: build with -tags=nats")
}

func (f *fanout) publish(update Update) {}

func (f *fanout) Close() error { return nil }
