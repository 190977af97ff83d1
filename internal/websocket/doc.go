// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package websocket implements the /ws/realtime subscription endpoint (C9).

Clients on this endpoint do not drive tile streaming; they subscribe to
named webhook sources (internal/webhook, C8) and receive data_update
frames whenever that source ingests and broadcasts new data. The
tile-streaming session state machine (C7) is a separate, considerably
richer state machine that lives in internal/session and does not build
on this package.

Architecture:

The package implements a hub-and-spoke pattern:

	┌──────────┐
	│   Hub    │ ← fans out data_update to subscribed clients
	└────┬─────┘
	     │
	┌────┴─────┬─────────┬─────────┐
	│          │         │         │
	│ Client1  │ Client2 │ Client3 │ Client4
	│          │         │         │
	└──────────┴─────────┴─────────┘

Each client has two goroutines:
  - readPump: reads client frames (ping, subscribe, unsubscribe)
  - writePump: writes server frames and periodic pings

Thread safety: the hub's client map is protected by a mutex; each
client's subscription set is protected by its own mutex; channels
coordinate goroutine communication. Broadcasting to a client whose send
buffer is full drops that client rather than blocking the publisher,
per the spec's broadcast-channel backpressure policy (C8).
*/
package websocket
