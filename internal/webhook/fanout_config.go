// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package webhook

import "time"

// FanoutConfig configures the optional cross-process broadcast bus.
// Only consulted when the binary is built with -tags=nats.
type FanoutConfig struct {
	URL             string
	Subject         string
	MaxReconnects   int
	ReconnectWait   time.Duration
	ReconnectBuffer int
}

// DefaultFanoutConfig mirrors the teacher's eventprocessor defaults.
func DefaultFanoutConfig(url string) FanoutConfig {
	return FanoutConfig{
		URL:             url,
		Subject:         "cartographus.webhook.updates",
		MaxReconnects:   -1,
		ReconnectWait:   2 * time.Second,
		ReconnectBuffer: 8 * 1024 * 1024,
	}
}
