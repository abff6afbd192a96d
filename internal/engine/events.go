package engine

import (
	"github.com/pixil98/go-coop/internal/ids"
	"github.com/pixil98/go-coop/internal/protocol"
)

// UpdateEvent is published once per simulation frame.
type UpdateEvent struct {
	Delta float64
}

type ConnectedEvent struct{}

type DisconnectedEvent struct{}

// LockChangedEvent fires after the engine changes a lock locally.
type LockChangedEvent struct {
	Object    Reference
	IsLocked  bool
	LockLevel uint8
}

// ActivateEvent fires when the engine intercepts an activation.
// ProceedLocally means the engine deferred the effect to the handler.
type ActivateEvent struct {
	Object         Reference
	Activator      Reference
	Params         ActivateParams
	ProceedLocally bool
}

// AreaEnteredEvent fires when the local player enters an area.
type AreaEnteredEvent struct {
	AreaId       ids.LocalId
	WorldSpaceId ids.LocalId
	Coords       protocol.GridCoords
}

type AreaUnloadedEvent struct {
	AreaId ids.LocalId
}

type ScriptAnimationEvent struct {
	FormId    ids.LocalId
	Animation string
	EventName string
}

type WaypointSetEvent struct {
	Position protocol.Vec3
}

type WaypointRemovedEvent struct{}

// GridCellChangedEvent fires when the exterior grid shifts around the player.
type GridCellChangedEvent struct {
	WorldSpaceId ids.LocalId
	PlayerCell   ids.LocalId
	CenterCoords protocol.GridCoords
	Cells        []ids.LocalId
}

// DialogueEvent fires when the local player speaks a dialogue line.
type DialogueEvent struct {
	Text string
}
