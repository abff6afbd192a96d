package activation

import (
	"context"
	"log/slog"

	"github.com/pixil98/go-coop/internal/desync"
	"github.com/pixil98/go-coop/internal/engine"
	"github.com/pixil98/go-coop/internal/ids"
	"github.com/pixil98/go-coop/internal/protocol"
	"github.com/pixil98/go-coop/internal/session"
)

// DefaultPlayback mirrors the engine's scripted Activate call.
var DefaultPlayback = engine.ActivateParams{Count: 1}

// Arbiter relays activations between the local engine and the server. It dispatches
// to the engine's Activate primitive and keeps no state of its own.
type Arbiter struct {
	world    engine.World
	ids      ids.Translator
	sender   session.Sender
	playback engine.ActivateParams
}

type ArbiterOpt func(*Arbiter)

// WithPlayback sets the parameters used for activations received from the server.
func WithPlayback(p engine.ActivateParams) ArbiterOpt {
	return func(a *Arbiter) {
		a.playback = p
	}
}

func NewArbiter(world engine.World, translator ids.Translator, sender session.Sender, opts ...ArbiterOpt) *Arbiter {
	a := &Arbiter{
		world:    world,
		ids:      translator,
		sender:   sender,
		playback: DefaultPlayback,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Arbiter) Register(bus *session.Bus) {
	session.Handle(bus, a.OnLocalActivation)
	session.Handle(bus, a.OnRemoteActivation)
}

func (a *Arbiter) OnLocalActivation(ctx context.Context, ev engine.ActivateEvent) error {
	if ev.ProceedLocally {
		ev.Object.Activate(ev.Activator, ev.Params)
	}

	if !a.sender.IsConnected() {
		return nil
	}

	// The engine already refused the activation of a locked object.
	if lock := ev.Object.Lock(); lock != nil && lock.Locked {
		return nil
	}

	id, ok := a.ids.ResolveServer(ev.Object.Id())
	if !ok {
		return nil
	}
	cellId, ok := a.ids.ResolveServer(ev.Object.AreaId())
	if !ok {
		return nil
	}
	if ev.Activator == nil {
		return nil
	}
	activator, ok := a.entityByLocal(ev.Activator.Id())
	if !ok {
		return nil
	}

	a.sender.Send(protocol.ActivateRequest{
		Id:          id,
		CellId:      cellId,
		ActivatorId: activator.ServerId,
	})
	return nil
}

func (a *Arbiter) OnRemoteActivation(ctx context.Context, m protocol.NotifyActivate) error {
	activator, ok := a.entityByServer(m.ActivatorId)
	if !ok {
		slog.DebugContext(ctx, "activator not known yet", "activator", m.ActivatorId)
		return nil
	}

	local, ok := a.ids.ResolveLocal(m.Id)
	if !ok {
		return desync.Unresolved("activation target", m.Id)
	}
	object, ok := a.world.Lookup(local)
	if !ok {
		return desync.Unresolved("activation target", m.Id)
	}

	if !activator.Caps.Has(engine.CapActor) {
		slog.DebugContext(ctx, "activator cannot play back activations", "activator", m.ActivatorId, "caps", activator.Caps)
		return nil
	}
	actor, ok := a.world.Lookup(activator.Local)
	if !ok {
		slog.DebugContext(ctx, "activator not loaded", "activator", m.ActivatorId)
		return nil
	}

	object.Activate(actor, a.playback)
	return nil
}

func (a *Arbiter) entityByLocal(local ids.LocalId) (engine.Entity, bool) {
	for _, e := range a.world.Entities() {
		if e.Local == local && e.ServerId != 0 {
			return e, true
		}
	}
	return engine.Entity{}, false
}

func (a *Arbiter) entityByServer(serverId uint32) (engine.Entity, bool) {
	if serverId == 0 {
		return engine.Entity{}, false
	}
	for _, e := range a.world.Entities() {
		if e.ServerId == serverId {
			return e, true
		}
	}
	return engine.Entity{}, false
}
