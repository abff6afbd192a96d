package world

import (
	"github.com/pixil98/go-coop/internal/engine"
	"github.com/pixil98/go-coop/internal/ids"
	"github.com/pixil98/go-coop/internal/protocol"
)

type Area struct {
	id         ids.LocalId
	worldSpace ids.LocalId
	interior   bool
	coords     protocol.GridCoords
	resident   bool
}

func NewInterior(id ids.LocalId) *Area {
	return &Area{id: id, interior: true}
}

func NewExterior(id, worldSpace ids.LocalId, coords protocol.GridCoords) *Area {
	return &Area{id: id, worldSpace: worldSpace, coords: coords}
}

// Resident marks the area as loaded.
func (a *Area) Resident() *Area {
	a.resident = true
	return a
}

func (a *Area) Id() ids.LocalId           { return a.id }
func (a *Area) WorldSpaceId() ids.LocalId { return a.worldSpace }
func (a *Area) IsInterior() bool          { return a.interior }
func (a *Area) IsResident() bool          { return a.resident }

// Marker is a map marker reference.
type Marker struct {
	world    *World
	handle   uint32
	area     engine.Area
	position protocol.Vec3
	flags    engine.MarkerFlags
	label    string
}

func (m *Marker) Handle() uint32                { return m.handle }
func (m *Marker) Area() engine.Area             { return m.area }
func (m *Marker) SetArea(a engine.Area)         { m.area = a }
func (m *Marker) Position() protocol.Vec3       { return m.position }
func (m *Marker) SetPosition(p protocol.Vec3)   { m.position = p }
func (m *Marker) Flags() engine.MarkerFlags     { return m.flags }
func (m *Marker) SetFlags(f engine.MarkerFlags) { m.flags = f }
func (m *Marker) Label() string                 { return m.label }

func (m *Marker) Delete() {
	delete(m.world.markers, m.handle)
}
