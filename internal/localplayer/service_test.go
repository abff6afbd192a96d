package localplayer

import (
	"context"
	"testing"

	"github.com/pixil98/go-coop/internal/engine"
	"github.com/pixil98/go-coop/internal/ids"
	"github.com/pixil98/go-coop/internal/protocol"
	"github.com/pixil98/go-coop/internal/session"
	"github.com/pixil98/go-coop/internal/tuning"
	"github.com/pixil98/go-coop/internal/world"
	"github.com/pixil98/go-testutil"
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

func newFixture(t *testing.T) (*Service, *world.World, *mockSender) {
	t.Helper()
	reg := ids.NewRegistry()
	if err := reg.AddModule(0xA, 0x01); err != nil {
		t.Fatalf("adding module: %v", err)
	}
	w := world.New()
	sender := &mockSender{connected: true}
	return NewService(w.Player(), w, w.Player(), reg, sender, tuning.Default()), w, sender
}

func tick(s *Service, n int) {
	for i := 0; i < n; i++ {
		s.Update(1)
	}
}

func TestServerSettings(t *testing.T) {
	ctx := context.Background()
	s, w, sender := newFixture(t)
	p := w.Player()
	p.SetDifficulty(2)

	if err := s.OnServerSettings(ctx, protocol.ServerSettings{Difficulty: 4, GreetingsEnabled: false}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "difficulty", p.Difficulty(), int32(4))
	testutil.AssertEqual(t, "greet", p.GreetDistance(), float32(0))

	// a later sample does not replace the remembered local difficulty
	if err := s.OnServerSettings(ctx, protocol.ServerSettings{Difficulty: 5, GreetingsEnabled: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "greet restored", p.GreetDistance(), float32(150))

	p.SetDifficulty(0)
	tick(s, 1)
	testutil.AssertEqual(t, "difficulty enforced", p.Difficulty(), int32(5))

	sender.connected = false
	s.OnDisconnected(ctx)
	testutil.AssertEqual(t, "difficulty restored", p.Difficulty(), int32(2))
	testutil.AssertEqual(t, "greet default", p.GreetDistance(), float32(150))

	p.SetDifficulty(1)
	tick(s, 1)
	testutil.AssertEqual(t, "not enforced offline", p.Difficulty(), int32(1))
}

func TestRespawnCycle(t *testing.T) {
	s, w, sender := newFixture(t)
	p := w.Player()
	p.SetBleedingOut(true)

	tick(s, 4)
	testutil.AssertEqual(t, "health zeroed", p.Health(), float32(0))
	testutil.AssertEqual(t, "not yet respawned", p.Respawns, 0)

	tick(s, 1)
	testutil.AssertEqual(t, "respawned", p.Respawns, 1)
	testutil.AssertEqual(t, "sent", len(sender.sent), 1)
	testutil.AssertEqual(t, "request", sender.sent[0], protocol.Message(protocol.PlayerRespawnRequest{}))

	testutil.AssertEqual(t, "knockdown pending", p.Knockdowns, 0)

	tick(s, 1)
	testutil.AssertEqual(t, "knocked down", p.Knockdowns, 1)
	testutil.AssertEqual(t, "god mode", p.GodMode(), true)

	tick(s, 8)
	testutil.AssertEqual(t, "still god mode", p.GodMode(), true)
	tick(s, 1)
	testutil.AssertEqual(t, "god mode off", p.GodMode(), false)
}

func TestRespawnRecoveredBeforeTimer(t *testing.T) {
	s, w, sender := newFixture(t)
	p := w.Player()
	p.SetBleedingOut(true)
	tick(s, 2)

	p.SetBleedingOut(false)
	tick(s, 10)

	testutil.AssertEqual(t, "respawns", p.Respawns, 0)
	testutil.AssertEqual(t, "sent", len(sender.sent), 0)
}

func TestNotifyRespawn(t *testing.T) {
	s, w, _ := newFixture(t)

	if err := s.OnNotifyRespawn(context.Background(), protocol.NotifyPlayerRespawn{GoldLost: 40}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "gold", w.Player().Gold(), int32(60))
	msgs := w.HUDMessages()
	testutil.AssertEqual(t, "messages", len(msgs), 1)
	testutil.AssertEqual(t, "message", msgs[0], "You died and lost 40 gold.")
}

func TestLevelReports(t *testing.T) {
	s, w, sender := newFixture(t)
	p := w.Player()

	tick(s, 1)
	testutil.AssertEqual(t, "baseline only", len(sender.sent), 0)

	p.SetLevel(2)
	s.Update(0.5)
	testutil.AssertEqual(t, "interval not elapsed", len(sender.sent), 0)
	s.Update(0.5)
	testutil.AssertEqual(t, "sent", len(sender.sent), 1)
	testutil.AssertEqual(t, "request", sender.sent[0], protocol.Message(protocol.PlayerLevelRequest{NewLevel: 2}))

	tick(s, 3)
	testutil.AssertEqual(t, "unchanged level not resent", len(sender.sent), 1)
}

func TestWaypoints(t *testing.T) {
	ctx := context.Background()
	s, w, sender := newFixture(t)
	bus := session.NewBus(nil)
	s.Register(bus)

	bus.Publish(ctx, engine.WaypointSetEvent{Position: protocol.Vec3{X: 1, Y: 2, Z: 3}})
	bus.Publish(ctx, engine.WaypointRemovedEvent{})
	testutil.AssertEqual(t, "sent", len(sender.sent), 2)
	testutil.AssertEqual(t, "set", sender.sent[0], protocol.Message(protocol.RequestSetWaypoint{Position: protocol.Vec3{X: 1, Y: 2, Z: 3}}))
	testutil.AssertEqual(t, "del", sender.sent[1], protocol.Message(protocol.RequestDelWaypoint{}))

	bus.Publish(ctx, protocol.NotifySetWaypoint{Position: protocol.Vec3{X: 5, Y: 6, Z: 7}})
	pos, ok := w.Player().Waypoint()
	testutil.AssertEqual(t, "waypoint set", ok, true)
	testutil.AssertEqual(t, "waypoint", pos, protocol.Vec3{X: 5, Y: 6})

	bus.Publish(ctx, protocol.NotifyDelWaypoint{})
	_, ok = w.Player().Waypoint()
	testutil.AssertEqual(t, "waypoint removed", ok, false)

	sender.connected = false
	bus.Publish(ctx, engine.WaypointSetEvent{})
	testutil.AssertEqual(t, "offline not sent", len(sender.sent), 2)
}

func TestAreaEntered(t *testing.T) {
	tests := map[string]struct {
		connected bool
		ev        engine.AreaEnteredEvent
		exp       []protocol.Message
	}{
		"interior": {
			connected: true,
			ev:        engine.AreaEnteredEvent{AreaId: 0x01000700},
			exp:       []protocol.Message{protocol.EnterInteriorCellRequest{CellId: ids.ServerId{ModuleId: 0xA, BaseId: 0x700}}},
		},
		"exterior": {
			connected: true,
			ev:        engine.AreaEnteredEvent{AreaId: 0x01000500, WorldSpaceId: 0x0100003C, Coords: protocol.GridCoords{X: 2, Y: -3}},
			exp: []protocol.Message{protocol.EnterExteriorCellRequest{
				CellId:        ids.ServerId{ModuleId: 0xA, BaseId: 0x500},
				WorldSpaceId:  ids.ServerId{ModuleId: 0xA, BaseId: 0x3C},
				CurrentCoords: protocol.GridCoords{X: 2, Y: -3},
			}},
		},
		"offline": {
			ev: engine.AreaEnteredEvent{AreaId: 0x01000700},
		},
		"unknown area": {
			connected: true,
			ev:        engine.AreaEnteredEvent{AreaId: 0x05000001},
		},
		"unknown world-space": {
			connected: true,
			ev:        engine.AreaEnteredEvent{AreaId: 0x01000500, WorldSpaceId: 0x05000002},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s, _, sender := newFixture(t)
			sender.connected = tt.connected

			if err := s.OnAreaEntered(context.Background(), tt.ev); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "sent count", len(sender.sent), len(tt.exp))
			for i := range tt.exp {
				testutil.AssertEqual(t, "sent", sender.sent[i], tt.exp[i])
			}
		})
	}
}

func TestGridCellChanged(t *testing.T) {
	tests := map[string]struct {
		connected bool
		ev        engine.GridCellChangedEvent
		expSent   bool
		expCells  []uint32
	}{
		"connected": {
			connected: true,
			ev: engine.GridCellChangedEvent{
				WorldSpaceId: 0x0100003C,
				PlayerCell:   0x01000500,
				CenterCoords: protocol.GridCoords{X: 4, Y: -1},
				Cells:        []ids.LocalId{0x01000500, 0x05000001, 0x01000501},
			},
			expSent:  true,
			expCells: []uint32{0x500, 0x501},
		},
		"offline": {
			ev: engine.GridCellChangedEvent{WorldSpaceId: 0x0100003C, PlayerCell: 0x01000500},
		},
		"unknown world-space": {
			connected: true,
			ev:        engine.GridCellChangedEvent{WorldSpaceId: 0x05000002, PlayerCell: 0x01000500},
		},
		"unknown player cell": {
			connected: true,
			ev:        engine.GridCellChangedEvent{WorldSpaceId: 0x0100003C, PlayerCell: 0x05000003},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s, _, sender := newFixture(t)
			sender.connected = tt.connected

			if err := s.OnGridCellChanged(context.Background(), tt.ev); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.expSent {
				testutil.AssertEqual(t, "sent count", len(sender.sent), 0)
				return
			}
			testutil.AssertEqual(t, "sent count", len(sender.sent), 1)
			req, ok := sender.sent[0].(protocol.ShiftGridCellRequest)
			testutil.AssertEqual(t, "is shift", ok, true)
			testutil.AssertEqual(t, "world-space", req.WorldSpaceId, ids.ServerId{ModuleId: 0xA, BaseId: 0x3C})
			testutil.AssertEqual(t, "player cell", req.PlayerCell, ids.ServerId{ModuleId: 0xA, BaseId: 0x500})
			testutil.AssertEqual(t, "center", req.CenterCoords, tt.ev.CenterCoords)
			testutil.AssertEqual(t, "cell count", len(req.Cells), len(tt.expCells))
			for i, base := range tt.expCells {
				testutil.AssertEqual(t, "cell", req.Cells[i], ids.ServerId{ModuleId: 0xA, BaseId: base})
			}
		})
	}
}

func TestDialogue(t *testing.T) {
	tests := map[string]struct {
		connected bool
		inParty   bool
		leader    bool
		exp       []protocol.Message
	}{
		"leader connected": {
			connected: true,
			inParty:   true,
			leader:    true,
			exp:       []protocol.Message{protocol.PlayerDialogueRequest{Text: "Wait here."}},
		},
		"offline": {
			inParty: true,
			leader:  true,
		},
		"not in party": {
			connected: true,
			leader:    true,
		},
		"not leader": {
			connected: true,
			inParty:   true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s, w, sender := newFixture(t)
			sender.connected = tt.connected
			w.Player().SetParty(tt.inParty, tt.leader)
			bus := session.NewBus(nil)
			s.Register(bus)

			bus.Publish(ctx, engine.DialogueEvent{Text: "Wait here."})

			testutil.AssertEqual(t, "sent count", len(sender.sent), len(tt.exp))
			for i := range tt.exp {
				testutil.AssertEqual(t, "sent", sender.sent[i], tt.exp[i])
			}
		})
	}
}
