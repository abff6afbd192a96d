// Package client assembles the synchronization components around one bus, one frame
// driver and one transport.
package client

import (
	"context"
	"log/slog"
	"time"

	"github.com/pixil98/go-coop/internal/activation"
	"github.com/pixil98/go-coop/internal/animation"
	"github.com/pixil98/go-coop/internal/clock"
	"github.com/pixil98/go-coop/internal/desync"
	"github.com/pixil98/go-coop/internal/driver"
	"github.com/pixil98/go-coop/internal/engine"
	"github.com/pixil98/go-coop/internal/ids"
	"github.com/pixil98/go-coop/internal/localplayer"
	"github.com/pixil98/go-coop/internal/locks"
	"github.com/pixil98/go-coop/internal/proxy"
	"github.com/pixil98/go-coop/internal/session"
	"github.com/pixil98/go-coop/internal/tuning"
	"github.com/pixil98/go-coop/internal/world"
)

// TransportFunc builds the transport once the driver exists to receive its events.
type TransportFunc func(session.Poster) session.Transport

type Client struct {
	Bus       *session.Bus
	Driver    *driver.FrameDriver
	Transport session.Transport
	Bridge    *session.Bridge

	World    *world.World
	Registry *ids.Registry

	Clock      *clock.Engine
	Locks      *locks.Reconciler
	Activation *activation.Arbiter
	Animation  *animation.Relay
	Proxies    *proxy.Manager
	Player     *localplayer.Service

	startArea ids.LocalId
}

type options struct {
	journal    session.Journal
	recorder   desync.Recorder
	tickLength time.Duration
	startArea  ids.LocalId
}

type Opt func(*options)

func WithJournal(j session.Journal) Opt {
	return func(o *options) {
		o.journal = j
	}
}

func WithRecorder(r desync.Recorder) Opt {
	return func(o *options) {
		o.recorder = r
	}
}

func WithTickLength(d time.Duration) Opt {
	return func(o *options) {
		o.tickLength = d
	}
}

// WithStartArea places the local player in an area when the driver starts.
func WithStartArea(id ids.LocalId) Opt {
	return func(o *options) {
		o.startArea = id
	}
}

// New wires every component onto a fresh bus. The bridge registers first so connection
// state is current before any other handler sees a lifecycle event.
func New(w *world.World, reg *ids.Registry, tn tuning.Tuning, newTransport TransportFunc, opts ...Opt) *Client {
	o := options{tickLength: driver.DefaultTickLength}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Client{
		World:     w,
		Registry:  reg,
		startArea: o.startArea,
	}

	repOpts := []desync.ReporterOpt{desync.WithSession(func() string { return c.Bridge.SessionId() })}
	if o.recorder != nil {
		repOpts = append(repOpts, desync.WithRecorder(o.recorder))
	}
	c.Bus = session.NewBus(desync.NewReporter(repOpts...))
	c.Driver = driver.NewFrameDriver(c.Bus, driver.WithTickLength(o.tickLength))
	c.Transport = newTransport(c.Driver)

	var bridgeOpts []session.BridgeOpt
	if o.journal != nil {
		bridgeOpts = append(bridgeOpts, session.WithJournal(o.journal))
	}
	c.Bridge = session.NewBridge(c.Bus, c.Transport, bridgeOpts...)

	c.Clock = clock.NewEngine(w.Clock(), c.Driver, clock.WithTransitionSpan(tn.TransitionSpanSeconds))
	c.Clock.Register(c.Bus)
	w.Clock().SetGate(c.Clock.AllowLocalClockAdvance)
	w.Clock().Register(c.Bus)

	c.Locks = locks.NewReconciler(w, reg, c.Bridge)
	c.Locks.Register(c.Bus)

	c.Activation = activation.NewArbiter(w, reg, c.Bridge, activation.WithPlayback(tn.Activation.ActivateParams()))
	c.Activation.Register(c.Bus)

	c.Animation = animation.NewRelay(w, reg, c.Bridge)
	c.Animation.Register(c.Bus)

	c.Proxies = proxy.NewManager(w, reg, proxy.WithLabel(tn.MarkerLabel))
	c.Proxies.Register(c.Bus)

	c.Player = localplayer.NewService(w.Player(), w, w.Player(), reg, c.Bridge, tn)
	c.Player.Register(c.Bus)

	session.Handle(c.Bus, c.onAreaUnloaded)
	session.Handle(c.Bus, c.onDisconnected)
	session.Handle(c.Bus, c.onConnected)
	session.Handle(c.Bus, c.onEnterArea)

	w.SetPublisher(c.Bus.Publish)

	return c
}

// Start runs the simulation goroutine until ctx is done.
func (c *Client) Start(ctx context.Context) error {
	if c.startArea != 0 {
		if err := c.Driver.Post(enterArea{id: c.startArea}); err != nil {
			return err
		}
	}
	return c.Driver.Start(ctx)
}

type enterArea struct {
	id ids.LocalId
}

func (c *Client) onEnterArea(ctx context.Context, ev enterArea) error {
	return c.World.EnterArea(ctx, ev.id)
}

func (c *Client) onAreaUnloaded(ctx context.Context, ev engine.AreaUnloadedEvent) error {
	n := c.Registry.InvalidateArea(ev.AreaId)
	slog.DebugContext(ctx, "invalidated area bindings", "area", ev.AreaId, "count", n)
	return nil
}

func (c *Client) onDisconnected(ctx context.Context, _ engine.DisconnectedEvent) error {
	c.Registry.Reset()
	return nil
}

// onConnected announces the current area so the server assigns its objects.
func (c *Client) onConnected(ctx context.Context, _ engine.ConnectedEvent) error {
	a, ok := c.World.PlayerArea()
	if !ok {
		return nil
	}
	return c.World.EnterArea(ctx, a.Id())
}
