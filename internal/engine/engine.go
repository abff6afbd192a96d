// Package engine declares what the synchronization core needs from the game engine.
// The engine owns every object behind these interfaces; the core only reads and
// mutates them from the simulation goroutine.
package engine

import (
	"github.com/pixil98/go-coop/internal/ids"
	"github.com/pixil98/go-coop/internal/protocol"
)

// Capability is resolved once when an entity is registered.
type Capability uint8

const (
	CapActor Capability = 1 << iota
	CapObject
	CapItem
	CapLocalPlayer
	CapRemote
)

func (c Capability) Has(o Capability) bool {
	return c&o == o
}

// FormKind is the engine form type of a placed reference.
type FormKind int

const (
	KindStatic FormKind = iota
	KindDoor
	KindContainer
	KindActor
	KindActivator
	KindMarker
)

// Lock is the engine-owned lock substructure of a reference.
type Lock struct {
	Locked bool
	Level  uint8
}

// ActivateParams are the engine activation arguments.
type ActivateParams struct {
	Target            ids.LocalId
	Count             int32
	DefaultProcessing bool
	FromScript        bool
	Looping           bool
}

// Reference is a placed object in the loaded world.
type Reference interface {
	Id() ids.LocalId
	Kind() FormKind
	AreaId() ids.LocalId

	// Lock returns nil when the reference has no lock substructure.
	Lock() *Lock
	CreateLock() (*Lock, error)
	// LockChanged refreshes engine state that depends on the lock.
	LockChanged()

	Activate(activator Reference, params ActivateParams)
	PlayAnimation(animation, event string) error
}

// Area is a loaded interior cell or exterior chunk.
type Area interface {
	Id() ids.LocalId
	// WorldSpaceId is zero for interiors.
	WorldSpaceId() ids.LocalId
	IsInterior() bool
}

// MarkerFlags control map marker presentation.
type MarkerFlags uint8

const (
	MarkerVisible MarkerFlags = 1 << iota
	MarkerCanTravel

	MarkerHidden MarkerFlags = 0
)

// Marker is a non-persistent map-marker reference.
type Marker interface {
	Handle() uint32
	Area() Area
	SetArea(Area)
	SetPosition(protocol.Vec3)
	Flags() MarkerFlags
	SetFlags(MarkerFlags)
	Delete()
}

// Entity is a registry record for something that has a server-assigned entity id.
type Entity struct {
	Local    ids.LocalId
	ServerId uint32
	Caps     Capability
}

// World is the engine's loaded state.
type World interface {
	Lookup(ids.LocalId) (Reference, bool)
	Area(ids.LocalId) (Area, bool)
	// LoadChunk loads the exterior chunk of a world-space at the given grid coords.
	LoadChunk(worldSpace ids.LocalId, coords protocol.GridCoords) (Area, bool)
	RefsInArea(area ids.LocalId, kinds ...FormKind) []Reference
	Entities() []Entity
	PlayerArea() (Area, bool)
	SpawnMarker(area Area, label string) (Marker, error)
}
