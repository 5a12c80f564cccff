// Package natsx forwards bus events to NATS as JSON messages.
package natsx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	nats "github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/bonding-curve/internal/events"
)

// MsgIDHeader carries the event id so consumers can deduplicate.
const MsgIDHeader = "Nats-Msg-Id"

// Publisher is an events.Handler that publishes every event on
// <SubjectRoot>.<event type>.
type Publisher struct {
	cfg    Config
	conn   *nats.Conn
	logger *zap.Logger
}

// NewPublisher validates configuration and connects, retrying with backoff.
func NewPublisher(ctx context.Context, cfg Config, logger *zap.Logger) (*Publisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger = logger.Named("nats")

	notify := func(err error, d time.Duration) {
		logger.Warn("NATS is not ready, retrying", zap.String("url", cfg.URL), zap.Error(err), zap.Duration("backoff", d))
	}
	conn, err := backoff.Retry(ctx, func() (*nats.Conn, error) {
		return nats.Connect(cfg.URL,
			nats.Name("curve-amm"),
			nats.MaxReconnects(-1),
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				if err != nil {
					logger.Warn("NATS disconnected", zap.Error(err))
				}
			}),
			nats.ReconnectHandler(func(c *nats.Conn) {
				logger.Info("NATS reconnected", zap.String("url", c.ConnectedUrl()))
			}),
		)
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(max(cfg.ConnectTries, 1)),
		backoff.WithNotify(notify))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", cfg.URL, err)
	}

	return &Publisher{cfg: cfg, conn: conn, logger: logger}, nil
}

// Subject returns the subject an event type is published on.
func (p *Publisher) Subject(t events.EventType) string {
	return p.cfg.SubjectRoot + "." + string(t)
}

// Handle implements events.Handler.
func (p *Publisher) Handle(_ context.Context, event events.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event.Type(), err)
	}

	msg := nats.NewMsg(p.Subject(event.Type()))
	msg.Header.Set(MsgIDHeader, event.ID())
	msg.Data = data

	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", msg.Subject, err)
	}
	return nil
}

// Attach subscribes the publisher to every event on the bus.
func (p *Publisher) Attach(bus *events.Bus) events.Subscription {
	return bus.Subscribe(events.AllEvents, p)
}

// Close flushes pending messages and closes the connection.
func (p *Publisher) Close() error {
	if p.conn == nil {
		return nil
	}
	err := p.conn.FlushTimeout(p.cfg.FlushTimeout)
	p.conn.Close()
	if err != nil && !errors.Is(err, nats.ErrConnectionClosed) {
		return fmt.Errorf("failed to flush NATS connection: %w", err)
	}
	return nil
}
