// Package animation replicates scripted animations played on world references.
package animation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-coop/internal/desync"
	"github.com/pixil98/go-coop/internal/engine"
	"github.com/pixil98/go-coop/internal/ids"
	"github.com/pixil98/go-coop/internal/protocol"
	"github.com/pixil98/go-coop/internal/session"
)

type Relay struct {
	world  engine.World
	ids    ids.Translator
	sender session.Sender
}

func NewRelay(world engine.World, translator ids.Translator, sender session.Sender) *Relay {
	return &Relay{
		world:  world,
		ids:    translator,
		sender: sender,
	}
}

func (r *Relay) Register(bus *session.Bus) {
	session.Handle(bus, r.OnScriptAnimation)
	session.Handle(bus, r.OnNotifyScriptAnimation)
}

func (r *Relay) OnScriptAnimation(ctx context.Context, ev engine.ScriptAnimationEvent) error {
	if !r.sender.IsConnected() {
		return nil
	}
	id, ok := r.ids.ResolveServer(ev.FormId)
	if !ok {
		return nil
	}

	slog.DebugContext(ctx, "sending script animation", "form", id, "animation", ev.Animation)
	r.sender.Send(protocol.ScriptAnimationRequest{
		FormId:    id,
		Animation: ev.Animation,
		EventName: ev.EventName,
	})
	return nil
}

func (r *Relay) OnNotifyScriptAnimation(ctx context.Context, m protocol.NotifyScriptAnimation) error {
	if m.FormId.IsZero() {
		return nil
	}

	local, ok := r.ids.ResolveLocal(m.FormId)
	if !ok {
		return desync.Unresolved("animated form", m.FormId)
	}
	ref, ok := r.world.Lookup(local)
	if !ok {
		return desync.Unresolved("animated form", m.FormId)
	}

	if err := ref.PlayAnimation(m.Animation, m.EventName); err != nil {
		return fmt.Errorf("playing %s on %s: %w", m.Animation, local, err)
	}
	return nil
}
