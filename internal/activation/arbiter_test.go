package activation

import (
	"context"
	"errors"
	"testing"

	"github.com/pixil98/go-coop/internal/desync"
	"github.com/pixil98/go-coop/internal/engine"
	"github.com/pixil98/go-coop/internal/ids"
	"github.com/pixil98/go-coop/internal/protocol"
	"github.com/pixil98/go-coop/internal/session"
	"github.com/pixil98/go-coop/internal/world"
	"github.com/pixil98/go-testutil"
)

const (
	hallId    ids.LocalId = 0x01000100
	doorId    ids.LocalId = 0x01000101
	leverId   ids.LocalId = 0x01000102
	playerRef ids.LocalId = 0x00000014
	ghostRef  ids.LocalId = 0xFF000001
	chairRef  ids.LocalId = 0xFF000002
	strayRef  ids.LocalId = 0xFF000003
)

var (
	serverHall  = ids.ServerId{ModuleId: 0xA, BaseId: 0x100}
	serverDoor  = ids.ServerId{ModuleId: 0xA, BaseId: 0x101}
	serverLever = ids.ServerId{ModuleId: 0xA, BaseId: 0x102}
)

type mockSender struct {
	connected bool
	sent      []protocol.Message
}

func (m *mockSender) IsConnected() bool {
	return m.connected
}

func (m *mockSender) Send(msg protocol.Message) {
	m.sent = append(m.sent, msg)
}

func newFixture(t *testing.T, opts ...ArbiterOpt) (*Arbiter, *world.World, *mockSender) {
	t.Helper()
	reg := ids.NewRegistry()
	if err := reg.AddModule(0xA, 0x01); err != nil {
		t.Fatalf("adding module: %v", err)
	}

	w := world.New()
	if err := w.AddArea(world.NewInterior(hallId).Resident()); err != nil {
		t.Fatalf("adding area: %v", err)
	}
	for _, r := range []*world.Ref{
		world.NewRef(doorId, engine.KindDoor, hallId).WithLock(true, 10),
		world.NewRef(leverId, engine.KindActivator, hallId),
		world.NewRef(playerRef, engine.KindActor, hallId),
		world.NewRef(ghostRef, engine.KindActor, hallId),
		world.NewRef(chairRef, engine.KindStatic, hallId),
		world.NewRef(strayRef, engine.KindActor, hallId),
	} {
		if err := w.AddRef(r); err != nil {
			t.Fatalf("adding ref: %v", err)
		}
	}
	w.AddEntity(engine.Entity{Local: playerRef, ServerId: 7, Caps: engine.CapActor | engine.CapLocalPlayer})
	w.AddEntity(engine.Entity{Local: ghostRef, ServerId: 8, Caps: engine.CapActor | engine.CapRemote})
	w.AddEntity(engine.Entity{Local: chairRef, ServerId: 9, Caps: engine.CapObject})
	w.AddEntity(engine.Entity{Local: strayRef, ServerId: 0, Caps: engine.CapActor})

	sender := &mockSender{connected: true}
	return NewArbiter(w, reg, sender, opts...), w, sender
}

func TestOnLocalActivation(t *testing.T) {
	tests := map[string]struct {
		connected      bool
		object         ids.LocalId
		activator      ids.LocalId
		proceedLocally bool
		expSent        []protocol.Message
		expLocal       int
	}{
		"sends request": {
			connected: true,
			object:    leverId,
			activator: playerRef,
			expSent:   []protocol.Message{protocol.ActivateRequest{Id: serverLever, CellId: serverHall, ActivatorId: 7}},
		},
		"proceeds locally and sends": {
			connected:      true,
			object:         leverId,
			activator:      playerRef,
			proceedLocally: true,
			expSent:        []protocol.Message{protocol.ActivateRequest{Id: serverLever, CellId: serverHall, ActivatorId: 7}},
			expLocal:       1,
		},
		"offline proceeds locally without request": {
			connected:      false,
			object:         leverId,
			activator:      playerRef,
			proceedLocally: true,
			expLocal:       1,
		},
		"offline emits nothing": {
			connected: false,
			object:    leverId,
			activator: playerRef,
		},
		"locked object is suppressed": {
			connected: true,
			object:    doorId,
			activator: playerRef,
		},
		"activator without server id": {
			connected: true,
			object:    leverId,
			activator: strayRef,
		},
		"activator without entity": {
			connected: true,
			object:    leverId,
			activator: leverId,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			a, w, sender := newFixture(t)
			sender.connected = tt.connected

			err := a.OnLocalActivation(context.Background(), engine.ActivateEvent{
				Object:         w.Ref(tt.object),
				Activator:      w.Ref(tt.activator),
				Params:         engine.ActivateParams{Count: 1, DefaultProcessing: true},
				ProceedLocally: tt.proceedLocally,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			testutil.AssertEqual(t, "sent count", len(sender.sent), len(tt.expSent))
			for i := range tt.expSent {
				testutil.AssertEqual(t, "sent", sender.sent[i], tt.expSent[i])
			}
			testutil.AssertEqual(t, "local activations", len(w.Ref(tt.object).Activations()), tt.expLocal)
		})
	}
}

func TestOnLocalActivation_UnresolvableObject(t *testing.T) {
	a, w, sender := newFixture(t)
	prop := world.NewRef(0x05000001, engine.KindActivator, hallId)
	if err := w.AddRef(prop); err != nil {
		t.Fatalf("adding ref: %v", err)
	}

	err := a.OnLocalActivation(context.Background(), engine.ActivateEvent{Object: prop, Activator: w.Ref(playerRef)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "sent", len(sender.sent), 0)
}

func TestOnRemoteActivation(t *testing.T) {
	tests := map[string]struct {
		msg          protocol.NotifyActivate
		expErr       error
		expActivator ids.LocalId
		expCount     int
	}{
		"actor plays back": {
			msg:          protocol.NotifyActivate{Id: serverLever, ActivatorId: 8},
			expActivator: ghostRef,
			expCount:     1,
		},
		"unknown activator drops": {
			msg: protocol.NotifyActivate{Id: serverLever, ActivatorId: 99},
		},
		"zero activator drops": {
			msg: protocol.NotifyActivate{Id: serverLever, ActivatorId: 0},
		},
		"non-actor cannot play back": {
			msg: protocol.NotifyActivate{Id: serverLever, ActivatorId: 9},
		},
		"unresolvable object": {
			msg:    protocol.NotifyActivate{Id: ids.ServerId{ModuleId: 0xB, BaseId: 1}, ActivatorId: 8},
			expErr: desync.ErrUnresolved,
		},
		"object not loaded": {
			msg:    protocol.NotifyActivate{Id: ids.ServerId{ModuleId: 0xA, BaseId: 0x555}, ActivatorId: 8},
			expErr: desync.ErrUnresolved,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			a, w, _ := newFixture(t)

			err := a.OnRemoteActivation(context.Background(), tt.msg)
			if tt.expErr != nil {
				if !errors.Is(err, tt.expErr) {
					t.Fatalf("expected %v, got %v", tt.expErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			acts := w.Ref(leverId).Activations()
			testutil.AssertEqual(t, "activations", len(acts), tt.expCount)
			if tt.expCount > 0 {
				testutil.AssertEqual(t, "activator", acts[0].Activator, tt.expActivator)
				testutil.AssertEqual(t, "params", acts[0].Params, DefaultPlayback)
			}
		})
	}
}

func TestOnRemoteActivation_DispatchesEachNotify(t *testing.T) {
	a, w, _ := newFixture(t)
	msg := protocol.NotifyActivate{Id: serverLever, ActivatorId: 8}

	for i := 0; i < 2; i++ {
		if err := a.OnRemoteActivation(context.Background(), msg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// repeated notifies reach the engine primitive unchanged and nothing else
	acts := w.Ref(leverId).Activations()
	testutil.AssertEqual(t, "activations", len(acts), 2)
	testutil.AssertEqual(t, "same params", acts[0], acts[1])
}

func TestWithPlayback(t *testing.T) {
	custom := engine.ActivateParams{Count: 2, FromScript: true}
	a, w, _ := newFixture(t, WithPlayback(custom))

	if err := a.OnRemoteActivation(context.Background(), protocol.NotifyActivate{Id: serverLever, ActivatorId: 8}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "params", w.Ref(leverId).Activations()[0].Params, custom)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	a, w, sender := newFixture(t)
	bus := session.NewBus(nil)
	a.Register(bus)

	bus.Publish(ctx, engine.ActivateEvent{Object: w.Ref(leverId), Activator: w.Ref(playerRef)})
	bus.Publish(ctx, protocol.NotifyActivate{Id: serverLever, ActivatorId: 8})

	testutil.AssertEqual(t, "sent", len(sender.sent), 1)
	testutil.AssertEqual(t, "played back", len(w.Ref(leverId).Activations()), 1)
}
