// Package locks keeps door and container lock state consistent with the server.
package locks

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

// Lockable forms enumerated on area entry.
var lockableKinds = []engine.FormKind{engine.KindDoor, engine.KindContainer}

type Reconciler struct {
	world  engine.World
	ids    ids.Translator
	sender session.Sender
}

func NewReconciler(world engine.World, translator ids.Translator, sender session.Sender) *Reconciler {
	return &Reconciler{
		world:  world,
		ids:    translator,
		sender: sender,
	}
}

func (r *Reconciler) Register(bus *session.Bus) {
	session.Handle(bus, r.OnLocalLockChanged)
	session.Handle(bus, r.OnRemoteLockChanged)
	session.Handle(bus, r.OnAreaEntered)
	session.Handle(bus, r.OnAssignObjects)
}

// OnLocalLockChanged replicates a lock change made in the local engine. Objects the
// server does not know about are local-only and are ignored.
func (r *Reconciler) OnLocalLockChanged(ctx context.Context, ev engine.LockChangedEvent) error {
	if !r.sender.IsConnected() {
		return nil
	}

	id, ok := r.ids.ResolveServer(ev.Object.Id())
	if !ok {
		return nil
	}
	cellId, ok := r.ids.ResolveServer(ev.Object.AreaId())
	if !ok {
		return nil
	}

	r.sender.Send(protocol.LockChangeRequest{
		Id:        id,
		CellId:    cellId,
		IsLocked:  ev.IsLocked,
		LockLevel: ev.LockLevel,
	})
	return nil
}

func (r *Reconciler) OnRemoteLockChanged(ctx context.Context, m protocol.NotifyLockChange) error {
	ref, err := r.lookup(m.Id)
	if err != nil {
		return err
	}
	return apply(ref, protocol.LockState{IsLocked: m.IsLocked, LockLevel: m.LockLevel})
}

// OnAreaEntered asks the server for the canonical lock state of every lockable object
// in the entered area.
func (r *Reconciler) OnAreaEntered(ctx context.Context, ev engine.AreaEnteredEvent) error {
	if !r.sender.IsConnected() {
		return nil
	}

	cellId, ok := r.ids.ResolveServer(ev.AreaId)
	if !ok {
		slog.DebugContext(ctx, "entered area unknown to server", "area", ev.AreaId)
		return nil
	}

	req := protocol.AssignObjectsRequest{AreaId: cellId}
	for _, ref := range r.world.RefsInArea(ev.AreaId, lockableKinds...) {
		id, ok := r.ids.ResolveServer(ref.Id())
		if !ok {
			continue
		}
		obj := protocol.ObjectData{Id: id, CellId: cellId}
		if lock := ref.Lock(); lock != nil {
			obj.Lock = protocol.LockState{IsLocked: lock.Locked, LockLevel: lock.Level}
		}
		req.Objects = append(req.Objects, obj)
	}

	r.sender.Send(req)
	return nil
}

// OnAssignObjects applies the server's lock state. Entries without lock data keep
// whatever the level placed.
func (r *Reconciler) OnAssignObjects(ctx context.Context, m protocol.AssignObjectsResponse) error {
	applied := 0
	for _, obj := range m.Objects {
		if obj.Lock.IsZero() {
			continue
		}
		ref, err := r.lookup(obj.Id)
		if err != nil {
			continue
		}
		if err := apply(ref, obj.Lock); err != nil {
			slog.WarnContext(ctx, "applying assigned lock", "object", obj.Id, "error", err)
			continue
		}
		applied++
	}
	slog.DebugContext(ctx, "assigned objects", "received", len(m.Objects), "applied", applied)
	return nil
}

func (r *Reconciler) lookup(id ids.ServerId) (engine.Reference, error) {
	local, ok := r.ids.ResolveLocal(id)
	if !ok {
		return nil, desync.Unresolved("object", id)
	}
	ref, ok := r.world.Lookup(local)
	if !ok {
		return nil, desync.Unresolved("object", id)
	}
	return ref, nil
}

func apply(ref engine.Reference, state protocol.LockState) error {
	lock := ref.Lock()
	if lock == nil {
		var err error
		lock, err = ref.CreateLock()
		if err != nil {
			return fmt.Errorf("creating lock on %s: %w", ref.Id(), err)
		}
	}
	lock.Level = state.LockLevel
	lock.Locked = state.IsLocked
	ref.LockChanged()
	return nil
}
