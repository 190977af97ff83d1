// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package protocol

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestClientMessageViewUpdateRoundTrip(t *testing.T) {
	raw := `{"type":"view_update","view_id":7,"lon":1.5,"lat":2.5,"altitude_m":1000,"viewport_width":1920,"viewport_height":1080}`

	var msg ClientMessage
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Type != MsgViewUpdate {
		t.Fatalf("Type = %q", msg.Type)
	}
	if msg.ViewUpdate == nil {
		t.Fatal("ViewUpdate payload is nil")
	}
	if msg.ViewUpdate.ViewID != 7 || msg.ViewUpdate.Lon != 1.5 {
		t.Errorf("decoded view mismatch: %+v", msg.ViewUpdate)
	}
	if msg.ViewUpdate.FOVDeg != DefaultFOVDeg {
		t.Errorf("FOVDeg default not applied: got %v", msg.ViewUpdate.FOVDeg)
	}
	if msg.ViewUpdate.MaxZoom != DefaultMaxZoom {
		t.Errorf("MaxZoom default not applied: got %v", msg.ViewUpdate.MaxZoom)
	}

	out, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), `"type":"view_update"`) {
		t.Errorf("marshaled output missing type tag: %s", out)
	}
	if !strings.Contains(string(out), `"view_id":7`) {
		t.Errorf("marshaled output missing view_id: %s", out)
	}
}

func TestClientMessagePing(t *testing.T) {
	raw := `{"type":"ping","seq":42}`
	var msg ClientMessage
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Ping == nil || msg.Ping.Seq != 42 {
		t.Fatalf("ping payload mismatch: %+v", msg.Ping)
	}
}

func TestClientMessageUnknownType(t *testing.T) {
	var msg ClientMessage
	if err := json.Unmarshal([]byte(`{"type":"bogus"}`), &msg); err == nil {
		t.Fatal("expected error for unknown message type")
	}
}

func TestServerMessageTileHeaderRoundTrip(t *testing.T) {
	data := "aGVsbG8="
	msg := ServerMessage{
		Type: MsgTileHeader,
		TileHeader: &TileHeaderPayload{
			ViewID:        1,
			Coord:         NewTileCoord(3, 4, 5),
			Layer:         "terrain",
			Format:        TileFormatPNG,
			SizeBytes:     5,
			BinaryFollows: false,
			DataBase64:    &data,
		},
	}

	out, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded ServerMessage
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Type != MsgTileHeader || decoded.TileHeader == nil {
		t.Fatalf("decoded mismatch: %+v", decoded)
	}
	if decoded.TileHeader.Coord != msg.TileHeader.Coord {
		t.Errorf("coord mismatch: %+v", decoded.TileHeader.Coord)
	}
	if decoded.TileHeader.DataBase64 == nil || *decoded.TileHeader.DataBase64 != data {
		t.Errorf("data_base64 mismatch: %+v", decoded.TileHeader.DataBase64)
	}
}

func TestServerMessageErrorMarshal(t *testing.T) {
	msg := ServerMessage{Type: MsgError, Error: &ErrorPayload{Code: "parse_error", Message: "bad frame"}}
	out, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), `"code":"parse_error"`) {
		t.Errorf("missing code field: %s", out)
	}
}
