// Package nats publishes game lifecycle events to a NATS subject per event type.
package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/pairs/internal/logging"
	"github.com/aretw0/pairs/pkg/domain"
	"github.com/aretw0/pairs/pkg/ports"
	"github.com/nats-io/nats.go"
)

// DefaultPrefix is prepended to the event type to form the subject.
const DefaultPrefix = "pairs.events"

// Conn is the subset of *nats.Conn used by the publisher.
type Conn interface {
	Publish(subject string, data []byte) error
}

// Publisher implements ports.EventPublisher over core NATS.
type Publisher struct {
	conn   Conn
	nc     *nats.Conn
	prefix string
	logger *slog.Logger
}

var _ ports.EventPublisher = (*Publisher)(nil)

// Option configures the Publisher.
type Option func(*Publisher)

// WithPrefix overrides DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(p *Publisher) {
		if prefix = strings.Trim(prefix, "."); prefix != "" {
			p.prefix = prefix
		}
	}
}

// WithLogger sets the logger used for connection state changes.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Connect dials url and returns a Publisher owning the connection.
func Connect(url string, opts ...Option) (*Publisher, error) {
	p := newPublisher(opts...)

	nc, err := nats.Connect(url,
		nats.Name("pairs"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				p.logger.Warn("NATS disconnected", "err", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			p.logger.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	p.conn = nc
	p.nc = nc
	return p, nil
}

// New wraps an existing connection. The caller keeps ownership of conn.
func New(conn Conn, opts ...Option) *Publisher {
	p := newPublisher(opts...)
	p.conn = conn
	return p
}

func newPublisher(opts ...Option) *Publisher {
	p := &Publisher{prefix: DefaultPrefix, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Subject returns the subject an event type is published on.
func (p *Publisher) Subject(t domain.EventType) string {
	return p.prefix + "." + string(t)
}

// Publish sends the event as JSON.
func (p *Publisher) Publish(ctx context.Context, event domain.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.conn.Publish(p.Subject(event.Type), data); err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	return nil
}

// Close drains the connection opened by Connect. It is a no-op for New.
func (p *Publisher) Close() error {
	if p.nc == nil {
		return nil
	}
	return p.nc.Drain()
}
