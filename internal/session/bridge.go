package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pixil98/go-coop/internal/engine"
	"github.com/pixil98/go-coop/internal/journal"
	"github.com/pixil98/go-coop/internal/protocol"
)

// Transport moves encoded envelopes. Inbound frames and lifecycle changes are posted
// back to the simulation goroutine as FrameEvent, engine.ConnectedEvent and
// engine.DisconnectedEvent.
type Transport interface {
	Send(data []byte) error
}

// Poster hands events from transport goroutines to the simulation goroutine.
type Poster interface {
	Post(ev any) error
}

// FrameEvent carries one inbound envelope.
type FrameEvent struct {
	Data []byte
}

// Sender is what reconcilers need from the bridge.
type Sender interface {
	IsConnected() bool
	Send(protocol.Message)
}

// Journal records traffic.
type Journal interface {
	Write(journal.Entry) error
}

// Bridge connects the bus to a transport.
type Bridge struct {
	bus       *Bus
	transport Transport
	journal   Journal

	connected bool
	session   string
}

type BridgeOpt func(*Bridge)

func WithJournal(j Journal) BridgeOpt {
	return func(b *Bridge) {
		b.journal = j
	}
}

// NewBridge registers the bridge's lifecycle handlers. Construct it before any other
// component so connection state flips before they observe the lifecycle event.
func NewBridge(bus *Bus, transport Transport, opts ...BridgeOpt) *Bridge {
	b := &Bridge{
		bus:       bus,
		transport: transport,
	}
	for _, opt := range opts {
		opt(b)
	}

	Handle(bus, b.onConnected)
	Handle(bus, b.onDisconnected)
	Handle(bus, b.onFrame)

	return b
}

func (b *Bridge) IsConnected() bool {
	return b.connected
}

// SessionId is the id of the current or most recent connection.
func (b *Bridge) SessionId() string {
	return b.session
}

// Send encodes and hands m to the transport. Failures are logged; delivery is the
// transport's concern.
func (b *Bridge) Send(m protocol.Message) {
	if !b.connected {
		slog.Debug("dropping message while offline", "type", m.MessageType())
		return
	}

	data, err := protocol.Encode(m)
	if err != nil {
		slog.Error("encoding message", "type", m.MessageType(), "error", err)
		return
	}

	b.record(journal.DirOut, m)

	if err := b.transport.Send(data); err != nil {
		slog.Warn("sending message", "type", m.MessageType(), "error", err)
	}
}

func (b *Bridge) onConnected(ctx context.Context, _ engine.ConnectedEvent) error {
	b.connected = true
	b.session = uuid.NewString()
	slog.InfoContext(ctx, "session connected", "session", b.session)
	return nil
}

func (b *Bridge) onDisconnected(ctx context.Context, _ engine.DisconnectedEvent) error {
	if b.connected {
		slog.InfoContext(ctx, "session disconnected", "session", b.session)
	}
	b.connected = false
	return nil
}

func (b *Bridge) onFrame(ctx context.Context, ev FrameEvent) error {
	m, err := protocol.Decode(ev.Data)
	if err != nil {
		return err
	}
	b.record(journal.DirIn, m)
	if !b.bus.Handles(m) {
		slog.DebugContext(ctx, "no handler for message", "type", m.MessageType())
		return nil
	}
	b.bus.Publish(ctx, m)
	return nil
}

func (b *Bridge) record(dir journal.Direction, m protocol.Message) {
	if b.journal == nil {
		return
	}
	payload, err := json.Marshal(m)
	if err != nil {
		return
	}
	err = b.journal.Write(journal.Entry{
		At:      time.Now().UTC(),
		Session: b.session,
		Dir:     dir,
		Type:    m.MessageType(),
		Payload: payload,
	})
	if err != nil {
		slog.Warn("writing journal", "error", err)
	}
}
