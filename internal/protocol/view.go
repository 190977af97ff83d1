// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package protocol

import "github.com/goccy/go-json"

// SessionID identifies a streaming session.
type SessionID = string

// ViewID identifies a view state snapshot, assigned by the client.
type ViewID = uint64

const (
	DefaultFOVDeg  = 60.0
	DefaultMaxZoom = 14
)

// ViewState is the camera/view description a client reports as it
// moves, used to prioritize which tiles the server streams next.
type ViewState struct {
	ViewID ViewID `json:"view_id"`

	Lon       float64 `json:"lon"`
	Lat       float64 `json:"lat"`
	AltitudeM float64 `json:"altitude_m"`

	YawDeg   float64 `json:"yaw_deg,omitempty"`
	PitchDeg float64 `json:"pitch_deg,omitempty"`

	ViewportWidth  uint32 `json:"viewport_width"`
	ViewportHeight uint32 `json:"viewport_height"`

	FOVDeg  float64 `json:"fov_deg"`
	MaxZoom uint8   `json:"max_zoom"`

	Layers []string `json:"layers,omitempty"`
}

// UnmarshalJSON applies the protocol's defaults (fov_deg=60, max_zoom=14)
// when those fields are absent from the payload, matching the wire
// format's optional fields.
func (v *ViewState) UnmarshalJSON(data []byte) error {
	type alias ViewState
	aux := alias{
		FOVDeg:  DefaultFOVDeg,
		MaxZoom: DefaultMaxZoom,
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*v = ViewState(aux)
	return nil
}

// StreamingConfig tunes how aggressively a session streams tiles.
type StreamingConfig struct {
	MaxTilesPerView   int     `json:"max_tiles_per_view"`
	MaxInflight       int     `json:"max_inflight"`
	ViewDecayFactor   float64 `json:"view_decay_factor"`
	MinViewIntervalMS uint64  `json:"min_view_interval_ms"`
}

// DefaultStreamingConfig returns the protocol's default tuning.
func DefaultStreamingConfig() StreamingConfig {
	return StreamingConfig{
		MaxTilesPerView:   256,
		MaxInflight:       32,
		ViewDecayFactor:   0.8,
		MinViewIntervalMS: 50,
	}
}
