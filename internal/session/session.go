// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package session

import (
	"context"
	"encoding/base64"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/tomtom215/cartographus/internal/geometry"
	"github.com/tomtom215/cartographus/internal/logging"
	"github.com/tomtom215/cartographus/internal/protocol"
	"github.com/tomtom215/cartographus/internal/queue"
	"github.com/tomtom215/cartographus/internal/registry"
)

const (
	sendBufferSize  = 256
	textMessage     = 1
	binaryMessage   = 2
	closeMessage    = 8
	readDeadline    = 60 * time.Second
	writeDeadline   = 10 * time.Second
	maxFrameBytes   = 512 * 1024
)

// Conn is the narrow slice of *gorilla/websocket.Conn a Session needs.
// Satisfied by *websocket.Conn; narrowed here so tests can fake it.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetReadLimit(limit int64)
	SetPongHandler(h func(appData string) error)
}

// inflightKey identifies one tile outstanding for one view.
type inflightKey struct {
	ViewID protocol.ViewID
	Coord  protocol.TileCoord
}

// PrioritizedTile is a single candidate tile fetch produced by a view
// update, ranked by TilePriority (lower is more urgent).
type PrioritizedTile struct {
	Coord    protocol.TileCoord
	Layer    string
	Priority int32
	ViewID   protocol.ViewID
}

// Session drives one WebSocket connection through the tile-streaming
// protocol: it receives ViewUpdate/RequestTiles/CancelView/Ping/
// Subscribe/Unsubscribe client messages and replies with TileHeader/
// TileNotFound/ViewProgress/ViewComplete/Pong/Error server messages.
type Session struct {
	ID       protocol.SessionID
	conn     Conn
	registry *registry.Registry
	config   protocol.StreamingConfig

	sendCh chan protocol.ServerMessage
	ctx    context.Context

	mu            sync.Mutex
	currentView   *protocol.ViewState
	lastViewTime  time.Time
	inflightTiles map[inflightKey]struct{}
	subscriptions map[string]struct{}
}

// New builds a Session. id should be a freshly generated session
// identifier (e.g. google/uuid) from the caller accepting the
// connection.
func New(id protocol.SessionID, conn Conn, reg *registry.Registry, cfg protocol.StreamingConfig) *Session {
	return &Session{
		ID:            id,
		conn:          conn,
		registry:      reg,
		config:        cfg,
		sendCh:        make(chan protocol.ServerMessage, sendBufferSize),
		ctx:           context.Background(),
		inflightTiles: make(map[inflightKey]struct{}),
		subscriptions: make(map[string]struct{}),
	}
}

// Serve runs the session until the connection closes or ctx is
// canceled. It sends Hello immediately, then pumps client messages
// until EOF/close, concurrently draining sendCh to the socket.
func (s *Session) Serve(ctx context.Context) error {
	s.ctx = ctx

	s.enqueue(protocol.ServerMessage{
		Type:  protocol.MsgHello,
		Hello: &protocol.HelloPayload{SessionID: s.ID},
	})

	senderDone := make(chan struct{})
	go func() {
		defer close(senderDone)
		s.runSender(ctx)
	}()

	err := s.runReader(ctx)

	close(s.sendCh)
	<-senderDone
	return err
}

func (s *Session) runSender(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-s.sendCh:
			if !ok {
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				logging.Ctx(s.ctx).Error().Err(err).Str("session_id", s.ID).Msg("[SESSION] failed to marshal outgoing message")
				continue
			}
			if err := s.conn.SetWriteDeadline(time.Now().Add(writeDeadline)); err != nil {
				return
			}
			if err := s.conn.WriteMessage(textMessage, data); err != nil {
				logging.Ctx(s.ctx).Warn().Err(err).Str("session_id", s.ID).Msg("[SESSION] write failed, closing sender")
				return
			}
		}
	}
}

func (s *Session) runReader(ctx context.Context) error {
	s.conn.SetReadLimit(maxFrameBytes)
	_ = s.conn.SetReadDeadline(time.Now().Add(readDeadline))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(readDeadline))
	})

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		msgType, data, err := s.conn.ReadMessage()
		if err != nil {
			return err
		}

		switch msgType {
		case textMessage:
			if err := s.handleClientText(data); err != nil {
				s.enqueue(protocol.ServerMessage{
					Type: protocol.MsgError,
					Error: &protocol.ErrorPayload{
						Code:    "parse_error",
						Message: err.Error(),
					},
				})
			}
		case binaryMessage:
			// Not expected from clients; ignored.
		case closeMessage:
			return nil
		default:
			// Ping/Pong are handled by gorilla's control-frame handlers.
		}
	}
}

func (s *Session) handleClientText(data []byte) error {
	var msg protocol.ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return err
	}

	switch msg.Type {
	case protocol.MsgViewUpdate:
		if msg.ViewUpdate != nil {
			s.handleViewUpdate(*msg.ViewUpdate)
		}
	case protocol.MsgRequestTiles:
		if msg.RequestTiles != nil {
			s.handleExplicitTileRequest(*msg.RequestTiles)
		}
	case protocol.MsgCancelView:
		if msg.CancelView != nil {
			s.handleCancelView(msg.CancelView.ViewID)
		}
	case protocol.MsgPing:
		seq := uint64(0)
		if msg.Ping != nil {
			seq = msg.Ping.Seq
		}
		s.enqueue(protocol.ServerMessage{Type: protocol.MsgPong, Pong: &protocol.PongPayload{Seq: seq}})
	case protocol.MsgSubscribe:
		if msg.Subscribe != nil {
			s.mu.Lock()
			s.subscriptions[msg.Subscribe.Source] = struct{}{}
			s.mu.Unlock()
		}
	case protocol.MsgUnsubscribe:
		if msg.Unsubscribe != nil {
			s.mu.Lock()
			delete(s.subscriptions, msg.Unsubscribe.Source)
			s.mu.Unlock()
		}
	}
	return nil
}

// enqueue hands msg to the sender goroutine. The outbound channel is
// bounded at sendBufferSize: when full, enqueue blocks until runSender
// drains it or the session's context is canceled, so a slow client
// backs up the view-update handler instead of silently losing frames.
func (s *Session) enqueue(msg protocol.ServerMessage) {
	select {
	case s.sendCh <- msg:
	case <-s.ctx.Done():
	}
}

func (s *Session) handleCancelView(viewID protocol.ViewID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.inflightTiles {
		if k.ViewID == viewID {
			delete(s.inflightTiles, k)
		}
	}
}

// handleViewUpdate implements the view-driven tile streaming algorithm
// ported from ws_streaming.rs's handle_view_update.
func (s *Session) handleViewUpdate(view protocol.ViewState) {
	now := time.Now()

	s.mu.Lock()
	minInterval := time.Duration(s.config.MinViewIntervalMS) * time.Millisecond
	if !s.lastViewTime.IsZero() && now.Sub(s.lastViewTime) < minInterval {
		s.mu.Unlock()
		return
	}
	s.lastViewTime = now
	s.mu.Unlock()

	estimatedZoom := geometry.EstimatedZoom(view)

	layers := view.Layers
	if len(layers) == 0 {
		layers = s.registry.List()
	}

	minZoom := uint8(0)
	if estimatedZoom > 2 {
		minZoom = estimatedZoom - 2
	}
	maxZoom := estimatedZoom
	if view.MaxZoom < maxZoom {
		maxZoom = view.MaxZoom
	}

	candidates := queue.New[PrioritizedTile]()

	s.mu.Lock()
	for _, layer := range layers {
		for z := minZoom; z <= maxZoom; z++ {
			xMin, xMax, yMin, yMax := geometry.VisibleTileRange(view, z)
			tilesPerSide := uint32(1) << z
			if tilesPerSide == 0 {
				tilesPerSide = 1
			}
			for x := xMin; x <= xMax; x++ {
				wrappedX := x % tilesPerSide
				for y := yMin; y <= yMax; y++ {
					clampedY := y
					if clampedY >= tilesPerSide {
						clampedY = tilesPerSide - 1
					}
					coord := protocol.NewTileCoord(z, wrappedX, clampedY)
					if !geometry.TileVisible(view, coord) {
						continue
					}
					key := inflightKey{ViewID: view.ViewID, Coord: coord}
					if _, already := s.inflightTiles[key]; already {
						continue
					}
					priority := int32(geometry.TilePriority(view, coord))
					candidates.Push(priority, PrioritizedTile{
						Coord:    coord,
						Layer:    layer,
						Priority: priority,
						ViewID:   view.ViewID,
					})
				}
			}
		}
	}

	total := candidates.Len()
	tilesToSend := s.config.MaxTilesPerView
	remainingInflight := s.config.MaxInflight - len(s.inflightTiles)
	if remainingInflight < 0 {
		remainingInflight = 0
	}
	if remainingInflight < tilesToSend {
		tilesToSend = remainingInflight
	}
	s.mu.Unlock()

	sent := 0
	for i := 0; i < tilesToSend; i++ {
		_, _, tile, ok := candidates.PopNext()
		if !ok {
			break
		}

		source, found := s.registry.Get(tile.Layer)
		if !found {
			continue
		}

		data, ok, err := source.GetTile(context.Background(), tile.Coord)
		if err != nil {
			logging.Ctx(s.ctx).Warn().Err(err).Str("layer", tile.Layer).Msg("[SESSION] tile fetch failed")
			continue
		}
		if !ok {
			s.enqueue(protocol.ServerMessage{
				Type: protocol.MsgTileNotFound,
				TileNotFound: &protocol.TileNotFoundPayload{
					ViewID: tile.ViewID,
					Coord:  tile.Coord,
					Layer:  tile.Layer,
				},
			})
			continue
		}

		s.mu.Lock()
		s.inflightTiles[inflightKey{ViewID: tile.ViewID, Coord: tile.Coord}] = struct{}{}
		s.mu.Unlock()

		encoded := base64.StdEncoding.EncodeToString(data)
		s.enqueue(protocol.ServerMessage{
			Type: protocol.MsgTileHeader,
			TileHeader: &protocol.TileHeaderPayload{
				ViewID:        tile.ViewID,
				Coord:         tile.Coord,
				Layer:         tile.Layer,
				Format:        source.TileFormat(),
				SizeBytes:     uint32(len(data)),
				BinaryFollows: false,
				DataBase64:    &encoded,
			},
		})
		sent++
	}

	s.enqueue(protocol.ServerMessage{
		Type: protocol.MsgViewProgress,
		ViewProgress: &protocol.ViewProgressPayload{
			ViewID:     view.ViewID,
			TilesSent:  uint32(sent),
			TilesTotal: uint32(total),
		},
	})
	if sent >= total {
		s.enqueue(protocol.ServerMessage{
			Type:         protocol.MsgViewComplete,
			ViewComplete: &protocol.ViewCompletePayload{ViewID: view.ViewID},
		})
	}

	s.mu.Lock()
	v := view
	s.currentView = &v
	s.mu.Unlock()
}

// handleExplicitTileRequest implements handle_explicit_tile_request: it
// fans every requested coordinate out across every registered layer,
// bypassing inflight tracking, priority ordering, and visibility
// filtering entirely.
func (s *Session) handleExplicitTileRequest(req protocol.RequestTilesPayload) {
	layers := s.registry.List()

	for _, coord := range req.Tiles {
		for _, layer := range layers {
			source, found := s.registry.Get(layer)
			if !found {
				continue
			}

			data, ok, err := source.GetTile(context.Background(), coord)
			if err != nil {
				logging.Ctx(s.ctx).Warn().Err(err).Str("layer", layer).Msg("[SESSION] explicit tile fetch failed")
				continue
			}
			if !ok {
				s.enqueue(protocol.ServerMessage{
					Type: protocol.MsgTileNotFound,
					TileNotFound: &protocol.TileNotFoundPayload{
						ViewID: req.ViewID,
						Coord:  coord,
						Layer:  layer,
					},
				})
				continue
			}

			encoded := base64.StdEncoding.EncodeToString(data)
			s.enqueue(protocol.ServerMessage{
				Type: protocol.MsgTileHeader,
				TileHeader: &protocol.TileHeaderPayload{
					ViewID:        req.ViewID,
					Coord:         coord,
					Layer:         layer,
					Format:        source.TileFormat(),
					SizeBytes:     uint32(len(data)),
					BinaryFollows: false,
					DataBase64:    &encoded,
				},
			})
		}
	}
}
