// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

//go:build nats

package webhook

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	natsgo "github.com/nats-io/nats.go"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/tomtom215/cartographus/internal/logging"
)

// fanout publishes accepted webhook updates to a NATS subject so other
// server processes subscribed to the same subject can mirror them into
// their own realtime hubs.
type fanout struct {
	cfg       FanoutConfig
	publisher message.Publisher
	breaker   *gobreaker.CircuitBreaker[interface{}]
}

// NewFanout dials NATS and returns a ready-to-use cross-process fanout.
func NewFanout(cfg FanoutConfig) (*fanout, error) {
	logger := watermill.NewStdLogger(false, false)

	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.ReconnectBufSize(cfg.ReconnectBuffer),
		natsgo.DisconnectErrHandler(func(nc *natsgo.Conn, err error) {
			if err != nil {
				logging.Warn().Err(err).Msg("[WEBHOOK] nats disconnected")
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logging.Info().Str("url", nc.ConnectedUrl()).Msg("[WEBHOOK] nats reconnected")
		}),
	}

	wmConfig := wmNats.PublisherConfig{
		URL:         cfg.URL,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
	}

	pub, err := wmNats.NewPublisher(wmConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("create webhook fanout publisher: %w", err)
	}

	breaker := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        "webhook-fanout",
		MaxRequests: 3,
		Timeout:     30 * time.Second,
	})

	return &fanout{cfg: cfg, publisher: pub, breaker: breaker}, nil
}

func (f *fanout) publish(update Update) {
	data, err := json.Marshal(update)
	if err != nil {
		logging.Warn().Err(err).Msg("[WEBHOOK] failed to marshal update for fanout")
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set("source_id", update.SourceID)

	_, err = f.breaker.Execute(func() (interface{}, error) {
		return nil, f.publisher.Publish(f.cfg.Subject, msg)
	})
	if err != nil {
		logging.Warn().Err(err).Str("source_id", update.SourceID).Msg("[WEBHOOK] fanout publish failed")
	}
}

func (f *fanout) Close() error {
	return f.publisher.Close()
}
