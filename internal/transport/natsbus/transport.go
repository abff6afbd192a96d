// Package natsbus carries session envelopes over NATS subjects.
package natsbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/pixil98/go-coop/internal/engine"
	"github.com/pixil98/go-coop/internal/session"
)

const (
	DefaultOutbound = "coop.server"
	DefaultInbound  = "coop.client"
)

var ErrNotConnected = errors.New("nats transport not connected")

type Transport struct {
	poster session.Poster

	url           string
	server        *Server
	name          string
	outbound      string
	inbound       string
	reconnectWait time.Duration

	mu   sync.RWMutex
	conn *nats.Conn
}

func NewTransport(poster session.Poster, opts ...TransportOpt) *Transport {
	t := &Transport{
		poster:        poster,
		url:           nats.DefaultURL,
		name:          "coopsync",
		outbound:      DefaultOutbound,
		inbound:       DefaultInbound,
		reconnectWait: 2 * time.Second,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Start connects and blocks until ctx is done. Lost connections are retried by the
// client; each drop and recovery is posted as a lifecycle event.
func (t *Transport) Start(ctx context.Context) error {
	url := t.url
	if t.server != nil {
		if err := t.server.Listen(ctx); err != nil {
			return err
		}
		defer t.server.Shutdown()
		url = t.server.ClientURL()
	}

	conn, err := nats.Connect(url,
		nats.Name(t.name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(t.reconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.WarnContext(ctx, "nats connection lost", "error", err)
			t.post(ctx, engine.DisconnectedEvent{})
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			slog.InfoContext(ctx, "nats connection restored", "url", c.ConnectedUrl())
			t.post(ctx, engine.ConnectedEvent{})
		}),
	)
	if err != nil {
		return fmt.Errorf("connecting to nats: %w", err)
	}

	_, err = conn.Subscribe(t.inbound, func(msg *nats.Msg) {
		t.post(ctx, session.FrameEvent{Data: msg.Data})
	})
	if err != nil {
		conn.Close()
		return fmt.Errorf("subscribing to %s: %w", t.inbound, err)
	}
	if err := conn.Flush(); err != nil {
		conn.Close()
		return fmt.Errorf("flushing subscription: %w", err)
	}

	t.mu.Lock()
	t.conn = conn
	t.mu.Unlock()

	slog.InfoContext(ctx, "nats transport connected", "url", conn.ConnectedUrl(), "inbound", t.inbound, "outbound", t.outbound)
	t.post(ctx, engine.ConnectedEvent{})

	<-ctx.Done()

	t.mu.Lock()
	t.conn = nil
	t.mu.Unlock()
	conn.Close()

	return nil
}

func (t *Transport) Send(data []byte) error {
	t.mu.RLock()
	conn := t.conn
	t.mu.RUnlock()

	if conn == nil || !conn.IsConnected() {
		return ErrNotConnected
	}
	return conn.Publish(t.outbound, data)
}

func (t *Transport) post(ctx context.Context, ev any) {
	if err := t.poster.Post(ev); err != nil {
		slog.DebugContext(ctx, "dropping transport event", "event", session.EventName(ev), "error", err)
	}
}
