package world

import (
	"fmt"
	"sort"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-coop/internal/engine"
	"github.com/pixil98/go-coop/internal/ids"
	"github.com/pixil98/go-coop/internal/protocol"
	"github.com/pixil98/go-coop/internal/storage"
)

var kindNames = map[string]engine.FormKind{
	"static":    engine.KindStatic,
	"door":      engine.KindDoor,
	"container": engine.KindContainer,
	"actor":     engine.KindActor,
	"activator": engine.KindActivator,
}

// AreaSpec is an area fixture file.
type AreaSpec struct {
	LocalId    ids.LocalId         `json:"local_id"`
	WorldSpace ids.LocalId         `json:"world_space,omitempty"`
	Interior   bool                `json:"interior"`
	Coords     protocol.GridCoords `json:"coords"`
	Resident   bool                `json:"resident"`
	Refs       []RefSpec           `json:"refs"`
}

type RefSpec struct {
	LocalId  ids.LocalId `json:"local_id"`
	Kind     string      `json:"kind"`
	Lock     *LockSpec   `json:"lock,omitempty"`
	Lockless bool        `json:"lockless,omitempty"`
	// EntityId registers an actor as an entity with a server-assigned id.
	EntityId uint32 `json:"entity_id,omitempty"`
}

type LockSpec struct {
	Locked bool  `json:"locked"`
	Level  uint8 `json:"level"`
}

func (s *AreaSpec) Validate() error {
	el := errors.NewErrorList()

	if s.LocalId == 0 {
		el.Add(fmt.Errorf("local_id must be set"))
	}
	if s.Interior && s.WorldSpace != 0 {
		el.Add(fmt.Errorf("interior areas have no world_space"))
	}
	if !s.Interior && s.WorldSpace == 0 {
		el.Add(fmt.Errorf("exterior areas require a world_space"))
	}

	for i, r := range s.Refs {
		if r.LocalId == 0 {
			el.Add(fmt.Errorf("refs[%d]: local_id must be set", i))
		}
		kind, ok := kindNames[r.Kind]
		if !ok {
			el.Add(fmt.Errorf("refs[%d]: unknown kind %q", i, r.Kind))
		}
		if r.EntityId != 0 && kind != engine.KindActor {
			el.Add(fmt.Errorf("refs[%d]: only actors carry an entity_id", i))
		}
		if r.Lock != nil && r.Lockless {
			el.Add(fmt.Errorf("refs[%d]: lockless refs cannot have a lock", i))
		}
	}

	return el.Err()
}

// Load builds a world from area fixtures, in identifier order.
func Load(st storage.Storer[*AreaSpec], opts ...WorldOpt) (*World, error) {
	w := New(opts...)

	all := st.GetAll()
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := w.addSpec(all[name]); err != nil {
			return nil, fmt.Errorf("area %s: %w", name, err)
		}
	}
	return w, nil
}

func (w *World) addSpec(s *AreaSpec) error {
	var a *Area
	if s.Interior {
		a = NewInterior(s.LocalId)
	} else {
		a = NewExterior(s.LocalId, s.WorldSpace, s.Coords)
	}
	a.resident = s.Resident
	if err := w.AddArea(a); err != nil {
		return err
	}

	for _, rs := range s.Refs {
		kind := kindNames[rs.Kind]
		r := NewRef(rs.LocalId, kind, s.LocalId)
		if rs.Lock != nil {
			r.WithLock(rs.Lock.Locked, rs.Lock.Level)
		}
		if rs.Lockless {
			r.Lockless()
		}
		if err := w.AddRef(r); err != nil {
			return err
		}
		if rs.EntityId != 0 {
			w.AddEntity(engine.Entity{Local: rs.LocalId, ServerId: rs.EntityId, Caps: engine.CapActor})
		}
	}
	return nil
}
