// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package protocol defines the wire types exchanged between a streaming
client and the server (C2): tile coordinates and formats, the camera
ViewState a client reports as it moves, and the tagged-union client/
server message envelopes carried over the WebSocket session.

Marshaling uses github.com/goccy/go-json rather than encoding/json, a
drop-in faster replacement already in use elsewhere in this module for
JSON-heavy paths.

The protocol is deliberately transport-agnostic: nothing here assumes
WebSocket framing, so the same types could ride HTTP/2 streams or be
persisted to a log without change.
*/
package protocol
