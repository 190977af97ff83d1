// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package protocol

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Client message type tags.
const (
	MsgViewUpdate   = "view_update"
	MsgRequestTiles = "request_tiles"
	MsgCancelView   = "cancel_view"
	MsgPing         = "ping"
	MsgSubscribe    = "subscribe"
	MsgUnsubscribe  = "unsubscribe"
)

// Server message type tags.
const (
	MsgHello        = "hello"
	MsgTileHeader   = "tile_header"
	MsgTileNotFound = "tile_not_found"
	MsgViewProgress = "view_progress"
	MsgViewComplete = "view_complete"
	MsgPong         = "pong"
	MsgDataUpdate   = "data_update"
	MsgError        = "error"
)

// RequestTilesPayload asks the server for specific tiles, bypassing the
// usual visibility/inflight/priority filtering a view update applies.
type RequestTilesPayload struct {
	ViewID ViewID      `json:"view_id"`
	Tiles  []TileCoord `json:"tiles"`
}

// CancelViewPayload cancels inflight work for a previously sent view.
type CancelViewPayload struct {
	ViewID ViewID `json:"view_id"`
}

// PingPayload is a keepalive carrying a client-chosen sequence number.
type PingPayload struct {
	Seq uint64 `json:"seq"`
}

// SubscribePayload subscribes the session to a named data source's
// real-time updates.
type SubscribePayload struct {
	Source string `json:"source"`
}

// UnsubscribePayload is the inverse of SubscribePayload.
type UnsubscribePayload struct {
	Source string `json:"source"`
}

// ClientMessage is a tagged-union frame sent from client to server.
// Exactly one payload field is populated, selected by Type.
type ClientMessage struct {
	Type string

	ViewUpdate   *ViewState
	RequestTiles *RequestTilesPayload
	CancelView   *CancelViewPayload
	Ping         *PingPayload
	Subscribe    *SubscribePayload
	Unsubscribe  *UnsubscribePayload
}

type taggedEnvelope struct {
	Type string `json:"type"`
}

// UnmarshalJSON decodes an internally-tagged client frame: the "type"
// field selects which payload type the remaining fields decode into.
// For view_update, the payload fields are ViewState's own fields at
// the top level (no nested "data" object), matching the wire format.
func (m *ClientMessage) UnmarshalJSON(data []byte) error {
	var env taggedEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	m.Type = env.Type

	switch env.Type {
	case MsgViewUpdate:
		v := &ViewState{}
		if err := json.Unmarshal(data, v); err != nil {
			return err
		}
		m.ViewUpdate = v
	case MsgRequestTiles:
		v := &RequestTilesPayload{}
		if err := json.Unmarshal(data, v); err != nil {
			return err
		}
		m.RequestTiles = v
	case MsgCancelView:
		v := &CancelViewPayload{}
		if err := json.Unmarshal(data, v); err != nil {
			return err
		}
		m.CancelView = v
	case MsgPing:
		v := &PingPayload{}
		if err := json.Unmarshal(data, v); err != nil {
			return err
		}
		m.Ping = v
	case MsgSubscribe:
		v := &SubscribePayload{}
		if err := json.Unmarshal(data, v); err != nil {
			return err
		}
		m.Subscribe = v
	case MsgUnsubscribe:
		v := &UnsubscribePayload{}
		if err := json.Unmarshal(data, v); err != nil {
			return err
		}
		m.Unsubscribe = v
	default:
		return fmt.Errorf("protocol: unknown client message type %q", env.Type)
	}
	return nil
}

// MarshalJSON encodes the message with its "type" tag merged alongside
// the active payload's fields.
func (m ClientMessage) MarshalJSON() ([]byte, error) {
	switch m.Type {
	case MsgViewUpdate:
		return marshalTagged(m.Type, m.ViewUpdate)
	case MsgRequestTiles:
		return marshalTagged(m.Type, m.RequestTiles)
	case MsgCancelView:
		return marshalTagged(m.Type, m.CancelView)
	case MsgPing:
		return marshalTagged(m.Type, m.Ping)
	case MsgSubscribe:
		return marshalTagged(m.Type, m.Subscribe)
	case MsgUnsubscribe:
		return marshalTagged(m.Type, m.Unsubscribe)
	default:
		return nil, fmt.Errorf("protocol: unknown client message type %q", m.Type)
	}
}

// ServerMessage is a tagged-union frame sent from server to client.
type ServerMessage struct {
	Type string

	Hello        *HelloPayload
	TileHeader   *TileHeaderPayload
	TileNotFound *TileNotFoundPayload
	ViewProgress *ViewProgressPayload
	ViewComplete *ViewCompletePayload
	Pong         *PongPayload
	DataUpdate   *DataUpdatePayload
	Error        *ErrorPayload
}

// HelloPayload is sent once, immediately after the connection opens.
type HelloPayload struct {
	SessionID     SessionID `json:"session_id"`
	ServerVersion string    `json:"server_version"`
	Capabilities  []string  `json:"capabilities"`
}

// TileHeaderPayload carries tile metadata plus, when BinaryFollows is
// false, the tile bytes inlined as base64 in DataBase64.
type TileHeaderPayload struct {
	ViewID        ViewID     `json:"view_id"`
	Coord         TileCoord  `json:"coord"`
	Layer         string     `json:"layer"`
	Format        TileFormat `json:"format"`
	SizeBytes     uint32     `json:"size_bytes"`
	BinaryFollows bool       `json:"binary_follows"`
	DataBase64    *string    `json:"data_base64,omitempty"`
}

// TileNotFoundPayload is the 404-equivalent response for a tile.
type TileNotFoundPayload struct {
	ViewID ViewID    `json:"view_id"`
	Coord  TileCoord `json:"coord"`
	Layer  string    `json:"layer"`
}

// ViewProgressPayload reports how much of a view's tile set has been
// sent so far.
type ViewProgressPayload struct {
	ViewID     ViewID `json:"view_id"`
	TilesSent  uint32 `json:"tiles_sent"`
	TilesTotal uint32 `json:"tiles_total"`
}

// ViewCompletePayload signals that a view's tile set has been fully sent.
type ViewCompletePayload struct {
	ViewID ViewID `json:"view_id"`
}

// PongPayload answers a PingPayload.
type PongPayload struct {
	Seq uint64 `json:"seq"`
}

// DataUpdatePayload carries a webhook-ingested data update to a
// subscribed client.
type DataUpdatePayload struct {
	Source string      `json:"source"`
	Data   interface{} `json:"data"`
}

// ErrorPayload reports a protocol or processing error to the client.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MarshalJSON encodes the message with its "type" tag merged alongside
// the active payload's fields.
func (m ServerMessage) MarshalJSON() ([]byte, error) {
	switch m.Type {
	case MsgHello:
		return marshalTagged(m.Type, m.Hello)
	case MsgTileHeader:
		return marshalTagged(m.Type, m.TileHeader)
	case MsgTileNotFound:
		return marshalTagged(m.Type, m.TileNotFound)
	case MsgViewProgress:
		return marshalTagged(m.Type, m.ViewProgress)
	case MsgViewComplete:
		return marshalTagged(m.Type, m.ViewComplete)
	case MsgPong:
		return marshalTagged(m.Type, m.Pong)
	case MsgDataUpdate:
		return marshalTagged(m.Type, m.DataUpdate)
	case MsgError:
		return marshalTagged(m.Type, m.Error)
	default:
		return nil, fmt.Errorf("protocol: unknown server message type %q", m.Type)
	}
}

// UnmarshalJSON decodes an internally-tagged server frame. Primarily
// useful for tests; production clients consume these frames, they
// don't typically need to decode them in Go.
func (m *ServerMessage) UnmarshalJSON(data []byte) error {
	var env taggedEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	m.Type = env.Type

	switch env.Type {
	case MsgHello:
		v := &HelloPayload{}
		if err := json.Unmarshal(data, v); err != nil {
			return err
		}
		m.Hello = v
	case MsgTileHeader:
		v := &TileHeaderPayload{}
		if err := json.Unmarshal(data, v); err != nil {
			return err
		}
		m.TileHeader = v
	case MsgTileNotFound:
		v := &TileNotFoundPayload{}
		if err := json.Unmarshal(data, v); err != nil {
			return err
		}
		m.TileNotFound = v
	case MsgViewProgress:
		v := &ViewProgressPayload{}
		if err := json.Unmarshal(data, v); err != nil {
			return err
		}
		m.ViewProgress = v
	case MsgViewComplete:
		v := &ViewCompletePayload{}
		if err := json.Unmarshal(data, v); err != nil {
			return err
		}
		m.ViewComplete = v
	case MsgPong:
		v := &PongPayload{}
		if err := json.Unmarshal(data, v); err != nil {
			return err
		}
		m.Pong = v
	case MsgDataUpdate:
		v := &DataUpdatePayload{}
		if err := json.Unmarshal(data, v); err != nil {
			return err
		}
		m.DataUpdate = v
	case MsgError:
		v := &ErrorPayload{}
		if err := json.Unmarshal(data, v); err != nil {
			return err
		}
		m.Error = v
	default:
		return fmt.Errorf("protocol: unknown server message type %q", env.Type)
	}
	return nil
}

// marshalTagged merges a "type" field into the JSON object produced by
// marshaling payload, matching an internally-tagged enum's encoding.
func marshalTagged(typ string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	typJSON, err := json.Marshal(typ)
	if err != nil {
		return nil, err
	}
	fields["type"] = typJSON
	return json.Marshal(fields)
}
