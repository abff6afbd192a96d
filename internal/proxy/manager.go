// Package proxy maintains map-marker stand-ins for remote players.
package proxy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/pixil98/go-coop/internal/desync"
	"github.com/pixil98/go-coop/internal/display"
	"github.com/pixil98/go-coop/internal/engine"
	"github.com/pixil98/go-coop/internal/ids"
	"github.com/pixil98/go-coop/internal/protocol"
	"github.com/pixil98/go-coop/internal/session"
)

const DefaultLabel = "{{ .Username }}"

// Proxy is the local stand-in of one remote player.
type Proxy struct {
	PlayerId uint32
	Username string
	Marker   engine.Marker
	Area     engine.Area
	Position protocol.Vec3
	Visible  bool
}

type labelData struct {
	Username string
	PlayerId uint32
}

// Manager owns the proxy table. Proxies live for one connection.
type Manager struct {
	world   engine.World
	ids     ids.Translator
	label   string
	proxies map[uint32]*Proxy
}

type ManagerOpt func(*Manager)

// WithLabel sets the marker label template.
func WithLabel(tmpl string) ManagerOpt {
	return func(m *Manager) {
		m.label = tmpl
	}
}

func NewManager(world engine.World, translator ids.Translator, opts ...ManagerOpt) *Manager {
	m := &Manager{
		world:   world,
		ids:     translator,
		label:   DefaultLabel,
		proxies: make(map[uint32]*Proxy),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Register(bus *session.Bus) {
	session.Handle(bus, m.OnPlayerJoined)
	session.Handle(bus, m.OnPlayerLeft)
	session.Handle(bus, m.OnPositionUpdate)
	session.Handle(bus, m.OnCellChanged)
	session.Handle(bus, func(ctx context.Context, _ engine.DisconnectedEvent) error {
		m.OnDisconnected(ctx)
		return nil
	})
}

func (m *Manager) Len() int {
	return len(m.proxies)
}

// Proxy returns a copy of the proxy for a player.
func (m *Manager) Proxy(playerId uint32) (Proxy, bool) {
	p, ok := m.proxies[playerId]
	if !ok {
		return Proxy{}, false
	}
	return *p, true
}

// Players returns the proxied player ids in ascending order.
func (m *Manager) Players() []uint32 {
	out := make([]uint32, 0, len(m.proxies))
	for id := range m.proxies {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// OnPlayerJoined creates a hidden proxy. A proxy whose area cannot be resolved is
// still created, unparented, so later updates can place it.
func (m *Manager) OnPlayerJoined(ctx context.Context, msg protocol.NotifyPlayerJoined) error {
	var errs []error

	if old, ok := m.proxies[msg.PlayerId]; ok {
		old.Marker.Delete()
		delete(m.proxies, msg.PlayerId)
		errs = append(errs, fmt.Errorf("player %d joined twice: %w", msg.PlayerId, desync.ErrDuplicateState))
	}

	username := display.NormalizeName(msg.Username)
	label, err := display.ExpandTemplate(m.label, labelData{Username: username, PlayerId: msg.PlayerId})
	if err != nil {
		slog.WarnContext(ctx, "expanding marker label", "player", msg.PlayerId, "error", err)
		label = username
	}

	area, err := m.resolveArea(msg.AreaId, msg.WorldSpaceId, msg.CenterCoords)
	if err != nil {
		errs = append(errs, err)
	}

	marker, err := m.world.SpawnMarker(area, label)
	if err != nil {
		errs = append(errs, fmt.Errorf("spawning marker for player %d: %w", msg.PlayerId, err))
		return errors.Join(errs...)
	}
	marker.SetFlags(engine.MarkerHidden)

	m.proxies[msg.PlayerId] = &Proxy{
		PlayerId: msg.PlayerId,
		Username: username,
		Marker:   marker,
		Area:     area,
	}
	slog.InfoContext(ctx, "player joined", "player", msg.PlayerId, "username", username)

	return errors.Join(errs...)
}

func (m *Manager) OnPlayerLeft(ctx context.Context, msg protocol.NotifyPlayerLeft) error {
	p, ok := m.proxies[msg.PlayerId]
	if !ok {
		return desync.Unresolved("player", msg.PlayerId)
	}

	p.Marker.Delete()
	delete(m.proxies, msg.PlayerId)
	slog.InfoContext(ctx, "player left", "player", msg.PlayerId, "username", p.Username)
	return nil
}

// OnPositionUpdate stores the position even while the proxy is hidden so it does not
// jump when it becomes visible.
func (m *Manager) OnPositionUpdate(ctx context.Context, msg protocol.NotifyPlayerPosition) error {
	p, ok := m.proxies[msg.PlayerId]
	if !ok {
		return desync.Unresolved("player", msg.PlayerId)
	}

	p.Position = msg.Position
	p.Marker.SetPosition(msg.Position)
	m.refreshVisibility(p)
	return nil
}

func (m *Manager) OnCellChanged(ctx context.Context, msg protocol.NotifyPlayerCellChanged) error {
	p, ok := m.proxies[msg.PlayerId]
	if !ok {
		return desync.Unresolved("player", msg.PlayerId)
	}

	area, err := m.resolveArea(msg.AreaId, msg.WorldSpaceId, msg.CenterCoords)
	if err != nil {
		return err
	}

	p.Area = area
	p.Marker.SetArea(area)
	m.refreshVisibility(p)
	return nil
}

func (m *Manager) OnDisconnected(ctx context.Context) {
	for id, p := range m.proxies {
		p.Marker.Delete()
		delete(m.proxies, id)
	}
}

// refreshVisibility shows a proxy only when it shares an exterior world-space with the
// local player.
func (m *Manager) refreshVisibility(p *Proxy) {
	visible := false
	if p.Area != nil && !p.Area.IsInterior() {
		if local, ok := m.world.PlayerArea(); ok && !local.IsInterior() {
			visible = local.WorldSpaceId() == p.Area.WorldSpaceId()
		}
	}

	p.Visible = visible
	if visible {
		p.Marker.SetFlags(engine.MarkerVisible | engine.MarkerCanTravel)
	} else {
		p.Marker.SetFlags(engine.MarkerHidden)
	}
}

// resolveArea finds a resident area or loads the exterior chunk at the given coords.
func (m *Manager) resolveArea(areaId, worldSpaceId ids.ServerId, coords protocol.GridCoords) (engine.Area, error) {
	if local, ok := m.ids.ResolveLocal(areaId); ok {
		if area, ok := m.world.Area(local); ok {
			return area, nil
		}
	}
	if ws, ok := m.ids.ResolveLocal(worldSpaceId); ok {
		if area, ok := m.world.LoadChunk(ws, coords); ok {
			return area, nil
		}
	}
	return nil, desync.Unresolved("area", areaId)
}
