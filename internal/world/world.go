// Package world is an in-memory game engine. It backs the headless client and the
// component tests, recording every side effect the synchronization core applies.
package world

import (
	"context"
	"fmt"
	"sort"

	"github.com/pixil98/go-coop/internal/engine"
	"github.com/pixil98/go-coop/internal/ids"
	"github.com/pixil98/go-coop/internal/protocol"
)

type chunkKey struct {
	worldSpace ids.LocalId
	coords     protocol.GridCoords
}

type World struct {
	refs     map[ids.LocalId]*Ref
	areas    map[ids.LocalId]*Area
	chunks   map[chunkKey]*Area
	entities map[ids.LocalId]engine.Entity

	playerArea ids.LocalId

	markers    map[uint32]*Marker
	nextHandle uint32

	clock  *Clock
	player *Player
	hud    []string

	publish func(context.Context, any)
}

type WorldOpt func(*World)

// WithPublisher receives engine events raised by the world.
func WithPublisher(fn func(context.Context, any)) WorldOpt {
	return func(w *World) {
		w.publish = fn
	}
}

func New(opts ...WorldOpt) *World {
	w := &World{
		refs:     make(map[ids.LocalId]*Ref),
		areas:    make(map[ids.LocalId]*Area),
		chunks:   make(map[chunkKey]*Area),
		entities: make(map[ids.LocalId]engine.Entity),
		markers:  make(map[uint32]*Marker),
		clock:    newClock(),
		player:   newPlayer(),
		publish:  func(context.Context, any) {},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *World) SetPublisher(fn func(context.Context, any)) {
	w.publish = fn
}

func (w *World) Clock() *Clock {
	return w.clock
}

func (w *World) Player() *Player {
	return w.player
}

// AddArea registers an area. Exterior areas are also addressable by world-space and
// grid coordinates.
func (w *World) AddArea(a *Area) error {
	if _, ok := w.areas[a.id]; ok {
		return fmt.Errorf("duplicate area %s", a.id)
	}
	w.areas[a.id] = a
	if !a.interior {
		w.chunks[chunkKey{worldSpace: a.worldSpace, coords: a.coords}] = a
	}
	return nil
}

// AddRef places a reference. Actor refs with an entity id are registered as entities.
func (w *World) AddRef(r *Ref) error {
	if _, ok := w.refs[r.id]; ok {
		return fmt.Errorf("duplicate ref %s", r.id)
	}
	w.refs[r.id] = r
	return nil
}

func (w *World) AddEntity(e engine.Entity) {
	w.entities[e.Local] = e
}

func (w *World) RemoveEntity(local ids.LocalId) {
	delete(w.entities, local)
}

func (w *World) Lookup(id ids.LocalId) (engine.Reference, bool) {
	r, ok := w.refs[id]
	if !ok {
		return nil, false
	}
	return r, true
}

// Ref returns the concrete reference for inspection.
func (w *World) Ref(id ids.LocalId) *Ref {
	return w.refs[id]
}

// Area returns a resident area.
func (w *World) Area(id ids.LocalId) (engine.Area, bool) {
	a, ok := w.areas[id]
	if !ok || !a.resident {
		return nil, false
	}
	return a, true
}

func (w *World) LoadChunk(worldSpace ids.LocalId, coords protocol.GridCoords) (engine.Area, bool) {
	a, ok := w.chunks[chunkKey{worldSpace: worldSpace, coords: coords}]
	if !ok {
		return nil, false
	}
	a.resident = true
	return a, true
}

func (w *World) RefsInArea(area ids.LocalId, kinds ...engine.FormKind) []engine.Reference {
	var out []engine.Reference
	for _, r := range w.refs {
		if r.area != area {
			continue
		}
		if len(kinds) > 0 && !hasKind(kinds, r.kind) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id() < out[j].Id() })
	return out
}

func hasKind(kinds []engine.FormKind, k engine.FormKind) bool {
	for _, kind := range kinds {
		if kind == k {
			return true
		}
	}
	return false
}

func (w *World) Entities() []engine.Entity {
	out := make([]engine.Entity, 0, len(w.entities))
	for _, e := range w.entities {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Local < out[j].Local })
	return out
}

func (w *World) PlayerArea() (engine.Area, bool) {
	return w.Area(w.playerArea)
}

func (w *World) SpawnMarker(area engine.Area, label string) (engine.Marker, error) {
	w.nextHandle++
	m := &Marker{
		world:  w,
		handle: w.nextHandle,
		area:   area,
		label:  label,
	}
	w.markers[m.handle] = m
	return m, nil
}

// Markers returns live markers ordered by handle.
func (w *World) Markers() []*Marker {
	out := make([]*Marker, 0, len(w.markers))
	for _, m := range w.markers {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].handle < out[j].handle })
	return out
}

func (w *World) Marker(handle uint32) *Marker {
	return w.markers[handle]
}

func (w *World) ShowMessage(text string) {
	w.hud = append(w.hud, text)
}

func (w *World) HUDMessages() []string {
	return append([]string(nil), w.hud...)
}

// EnterArea moves the local player into a registered area, loading it if needed.
func (w *World) EnterArea(ctx context.Context, id ids.LocalId) error {
	a, ok := w.areas[id]
	if !ok {
		return fmt.Errorf("unknown area %s", id)
	}
	a.resident = true
	w.playerArea = id
	w.publish(ctx, engine.AreaEnteredEvent{
		AreaId:       a.id,
		WorldSpaceId: a.worldSpace,
		Coords:       a.coords,
	})
	return nil
}

// UnloadArea evicts an area that the player is not in.
func (w *World) UnloadArea(ctx context.Context, id ids.LocalId) error {
	a, ok := w.areas[id]
	if !ok {
		return fmt.Errorf("unknown area %s", id)
	}
	if id == w.playerArea {
		return fmt.Errorf("area %s is occupied by the player", id)
	}
	a.resident = false
	w.publish(ctx, engine.AreaUnloadedEvent{AreaId: id})
	return nil
}

// ChangeLock is a lock change made by local gameplay.
func (w *World) ChangeLock(ctx context.Context, id ids.LocalId, locked bool, level uint8) error {
	r, ok := w.refs[id]
	if !ok {
		return fmt.Errorf("unknown ref %s", id)
	}
	lock, err := r.CreateLock()
	if err != nil {
		return err
	}
	lock.Locked = locked
	lock.Level = level
	w.publish(ctx, engine.LockChangedEvent{Object: r, IsLocked: locked, LockLevel: level})
	return nil
}

// Activate is an activation intercepted from local gameplay.
func (w *World) Activate(ctx context.Context, id, activator ids.LocalId, proceedLocally bool) error {
	r, ok := w.refs[id]
	if !ok {
		return fmt.Errorf("unknown ref %s", id)
	}
	a, ok := w.refs[activator]
	if !ok {
		return fmt.Errorf("unknown activator %s", activator)
	}
	w.publish(ctx, engine.ActivateEvent{
		Object:         r,
		Activator:      a,
		Params:         engine.ActivateParams{Count: 1, DefaultProcessing: true},
		ProceedLocally: proceedLocally,
	})
	return nil
}
