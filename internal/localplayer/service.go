// Package localplayer synchronizes the local player's session state: server
// settings, the death and respawn cycle, level reports, waypoints, area entry, grid
// shifts and party dialogue.
package localplayer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pixil98/go-coop/internal/display"
	"github.com/pixil98/go-coop/internal/engine"
	"github.com/pixil98/go-coop/internal/ids"
	"github.com/pixil98/go-coop/internal/protocol"
	"github.com/pixil98/go-coop/internal/session"
	"github.com/pixil98/go-coop/internal/tuning"
)

// Player is the local player character as the engine exposes it.
type Player interface {
	Difficulty() int32
	SetDifficulty(int32)
	SetGreetDistance(float32)

	IsBleedingOut() bool
	PrepareRespawn()
	Respawn()
	Knockdown()
	SetGodMode(bool)
	PayGold(int32)

	Level() uint16

	SetWaypoint(protocol.Vec3)
	RemoveWaypoint()
}

type HUD interface {
	ShowMessage(string)
}

// Party reports the local player's party membership.
type Party interface {
	InParty() bool
	IsLeader() bool
}

type Service struct {
	player Player
	hud    HUD
	party  Party
	ids    ids.Translator
	sender session.Sender
	tuning tuning.Tuning

	haveSettings       bool
	serverDifficulty   int32
	previousDifficulty int32

	bleeding       bool
	respawnTimer   float64
	knockdown      bool
	knockdownTimer float64
	godMode        bool
	godModeTimer   float64

	levelTimer time.Duration
	haveLevel  bool
	lastLevel  uint16
}

func NewService(player Player, hud HUD, party Party, translator ids.Translator, sender session.Sender, tn tuning.Tuning) *Service {
	return &Service{
		player: player,
		hud:    hud,
		party:  party,
		ids:    translator,
		sender: sender,
		tuning: tn,
	}
}

func (s *Service) Register(bus *session.Bus) {
	session.Handle(bus, func(_ context.Context, ev engine.UpdateEvent) error {
		s.Update(ev.Delta)
		return nil
	})
	session.Handle(bus, func(ctx context.Context, _ engine.DisconnectedEvent) error {
		s.OnDisconnected(ctx)
		return nil
	})
	session.Handle(bus, s.OnServerSettings)
	session.Handle(bus, s.OnNotifyRespawn)
	session.Handle(bus, s.OnWaypointSet)
	session.Handle(bus, s.OnWaypointRemoved)
	session.Handle(bus, s.OnNotifySetWaypoint)
	session.Handle(bus, s.OnNotifyDelWaypoint)
	session.Handle(bus, s.OnAreaEntered)
	session.Handle(bus, s.OnGridCellChanged)
	session.Handle(bus, s.OnDialogue)
}

// Update runs the per-frame player checks.
func (s *Service) Update(delta float64) {
	s.runRespawn(delta)
	s.runPostDeath(delta)
	s.runDifficulty()
	s.runLevel(delta)
}

func (s *Service) OnServerSettings(ctx context.Context, m protocol.ServerSettings) error {
	if !s.haveSettings {
		s.previousDifficulty = s.player.Difficulty()
	}
	s.haveSettings = true
	s.serverDifficulty = m.Difficulty
	s.player.SetDifficulty(m.Difficulty)

	if m.GreetingsEnabled {
		s.player.SetGreetDistance(s.tuning.DefaultGreetDistance)
	} else {
		s.player.SetGreetDistance(0)
	}

	slog.InfoContext(ctx, "applied server settings", "difficulty", m.Difficulty, "greetings", m.GreetingsEnabled)
	return nil
}

func (s *Service) OnDisconnected(ctx context.Context) {
	if s.haveSettings {
		s.player.SetDifficulty(s.previousDifficulty)
	}
	s.haveSettings = false
	s.player.SetGreetDistance(s.tuning.DefaultGreetDistance)
}

func (s *Service) OnNotifyRespawn(ctx context.Context, m protocol.NotifyPlayerRespawn) error {
	s.player.PayGold(m.GoldLost)
	s.hud.ShowMessage(display.Wrap(fmt.Sprintf("You died and lost %d gold.", m.GoldLost), s.tuning.HUDWidth))
	return nil
}

func (s *Service) OnWaypointSet(ctx context.Context, ev engine.WaypointSetEvent) error {
	if !s.sender.IsConnected() {
		return nil
	}
	s.sender.Send(protocol.RequestSetWaypoint{Position: ev.Position})
	return nil
}

func (s *Service) OnWaypointRemoved(ctx context.Context, _ engine.WaypointRemovedEvent) error {
	if !s.sender.IsConnected() {
		return nil
	}
	s.sender.Send(protocol.RequestDelWaypoint{})
	return nil
}

// OnNotifySetWaypoint places the shared waypoint on the local map. Map waypoints are
// two-dimensional.
func (s *Service) OnNotifySetWaypoint(ctx context.Context, m protocol.NotifySetWaypoint) error {
	s.player.SetWaypoint(protocol.Vec3{X: m.Position.X, Y: m.Position.Y})
	return nil
}

func (s *Service) OnNotifyDelWaypoint(ctx context.Context, _ protocol.NotifyDelWaypoint) error {
	s.player.RemoveWaypoint()
	return nil
}

// OnAreaEntered reports the local player's new area. Areas unknown to the server are
// not reported.
func (s *Service) OnAreaEntered(ctx context.Context, ev engine.AreaEnteredEvent) error {
	if !s.sender.IsConnected() {
		return nil
	}
	cellId, ok := s.ids.ResolveServer(ev.AreaId)
	if !ok {
		return nil
	}

	if ev.WorldSpaceId == 0 {
		s.sender.Send(protocol.EnterInteriorCellRequest{CellId: cellId})
		return nil
	}

	wsId, ok := s.ids.ResolveServer(ev.WorldSpaceId)
	if !ok {
		return nil
	}
	s.sender.Send(protocol.EnterExteriorCellRequest{
		CellId:        cellId,
		WorldSpaceId:  wsId,
		CurrentCoords: ev.Coords,
	})
	return nil
}

// OnGridCellChanged reports the cells loaded around the player. Cells without a server
// id are left out of the report.
func (s *Service) OnGridCellChanged(ctx context.Context, ev engine.GridCellChangedEvent) error {
	if !s.sender.IsConnected() {
		return nil
	}
	wsId, ok := s.ids.ResolveServer(ev.WorldSpaceId)
	if !ok {
		return nil
	}
	playerCell, ok := s.ids.ResolveServer(ev.PlayerCell)
	if !ok {
		return nil
	}

	cells := make([]ids.ServerId, 0, len(ev.Cells))
	for _, c := range ev.Cells {
		if id, ok := s.ids.ResolveServer(c); ok {
			cells = append(cells, id)
		}
	}

	s.sender.Send(protocol.ShiftGridCellRequest{
		WorldSpaceId: wsId,
		PlayerCell:   playerCell,
		CenterCoords: ev.CenterCoords,
		Cells:        cells,
	})
	return nil
}

// OnDialogue relays the party leader's dialogue to the rest of the party.
func (s *Service) OnDialogue(ctx context.Context, ev engine.DialogueEvent) error {
	if !s.sender.IsConnected() {
		return nil
	}
	if !s.party.InParty() || !s.party.IsLeader() {
		return nil
	}
	s.sender.Send(protocol.PlayerDialogueRequest{Text: ev.Text})
	return nil
}

func (s *Service) runRespawn(delta float64) {
	if !s.player.IsBleedingOut() {
		s.bleeding = false
		return
	}

	if !s.bleeding {
		s.bleeding = true
		s.respawnTimer = s.tuning.Respawn.BleedoutSeconds
		s.player.PrepareRespawn()
	}

	s.respawnTimer -= delta
	if s.respawnTimer > 0 {
		return
	}

	s.player.Respawn()
	s.knockdown = true
	s.knockdownTimer = s.tuning.Respawn.KnockdownSeconds
	s.bleeding = false
	if s.sender.IsConnected() {
		s.sender.Send(protocol.PlayerRespawnRequest{})
	}
	slog.Info("player respawned")
}

// runPostDeath knocks the player down again after a respawn so a ragdolled body does
// not stay stuck, then grants a short invulnerability.
func (s *Service) runPostDeath(delta float64) {
	if s.knockdown {
		s.knockdownTimer -= delta
		if s.knockdownTimer <= 0 {
			s.knockdown = false
			s.player.Knockdown()
			s.player.SetGodMode(true)
			s.godMode = true
			s.godModeTimer = s.tuning.Respawn.GodModeSeconds
		}
	}

	if s.godMode {
		s.godModeTimer -= delta
		if s.godModeTimer <= 0 {
			s.godMode = false
			s.player.SetGodMode(false)
		}
	}
}

func (s *Service) runDifficulty() {
	if !s.haveSettings || !s.sender.IsConnected() {
		return
	}
	s.player.SetDifficulty(s.serverDifficulty)
}

func (s *Service) runLevel(delta float64) {
	s.levelTimer += time.Duration(delta * float64(time.Second))
	if s.levelTimer < s.tuning.LevelCheckInterval() {
		return
	}
	s.levelTimer = 0

	level := s.player.Level()
	if !s.haveLevel {
		s.haveLevel = true
		s.lastLevel = level
		return
	}
	if level == s.lastLevel {
		return
	}
	s.lastLevel = level
	if s.sender.IsConnected() {
		s.sender.Send(protocol.PlayerLevelRequest{NewLevel: level})
	}
}
