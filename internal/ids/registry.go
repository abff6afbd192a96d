package ids

import (
	"errors"
	"fmt"
)

const (
	temporaryIndex = 0xFF
	baseIdMask     = 0x00FFFFFF
)

var (
	ErrDuplicateModule = errors.New("module already registered")
	ErrInvalidIndex    = errors.New("load index reserved for temporary forms")
)

type binding struct {
	server ServerId
	area   LocalId
}

// Registry is the in-process Translator. Static forms resolve through the module
// table; temporary forms only resolve while a dynamic binding exists.
type Registry struct {
	modules map[uint32]uint8
	indices map[uint8]uint32

	dynamic map[ServerId]LocalId
	reverse map[LocalId]binding
}

func NewRegistry() *Registry {
	return &Registry{
		modules: make(map[uint32]uint8),
		indices: make(map[uint8]uint32),
		dynamic: make(map[ServerId]LocalId),
		reverse: make(map[LocalId]binding),
	}
}

// AddModule maps a server module id onto the local load order slot.
func (r *Registry) AddModule(moduleId uint32, loadIndex uint8) error {
	if loadIndex == temporaryIndex {
		return fmt.Errorf("module %X: %w", moduleId, ErrInvalidIndex)
	}
	if _, ok := r.modules[moduleId]; ok {
		return fmt.Errorf("module %X: %w", moduleId, ErrDuplicateModule)
	}
	if _, ok := r.indices[loadIndex]; ok {
		return fmt.Errorf("load index %d: %w", loadIndex, ErrDuplicateModule)
	}
	r.modules[moduleId] = loadIndex
	r.indices[loadIndex] = moduleId
	return nil
}

// Bind records a runtime association. Any previous binding for either side is replaced
// so that one server id maps to at most one live local id.
func (r *Registry) Bind(server ServerId, local LocalId, area LocalId) {
	if old, ok := r.dynamic[server]; ok {
		delete(r.reverse, old)
	}
	if old, ok := r.reverse[local]; ok {
		delete(r.dynamic, old.server)
	}
	r.dynamic[server] = local
	r.reverse[local] = binding{server: server, area: area}
}

// Unbind drops the binding for a local id, if any.
func (r *Registry) Unbind(local LocalId) {
	if b, ok := r.reverse[local]; ok {
		delete(r.dynamic, b.server)
		delete(r.reverse, local)
	}
}

// InvalidateArea drops every dynamic binding created inside the given area.
func (r *Registry) InvalidateArea(area LocalId) int {
	n := 0
	for local, b := range r.reverse {
		if b.area == area {
			delete(r.dynamic, b.server)
			delete(r.reverse, local)
			n++
		}
	}
	return n
}

// Reset drops all dynamic bindings. The module table is kept.
func (r *Registry) Reset() {
	r.dynamic = make(map[ServerId]LocalId)
	r.reverse = make(map[LocalId]binding)
}

func (r *Registry) ResolveLocal(server ServerId) (LocalId, bool) {
	if server.IsZero() {
		return 0, false
	}
	if local, ok := r.dynamic[server]; ok {
		return local, true
	}
	idx, ok := r.modules[server.ModuleId]
	if !ok || server.BaseId&^baseIdMask != 0 {
		return 0, false
	}
	local := LocalId(uint32(idx)<<24 | server.BaseId)
	if local == 0 {
		return 0, false
	}
	return local, true
}

func (r *Registry) ResolveServer(local LocalId) (ServerId, bool) {
	if local == 0 {
		return ServerId{}, false
	}
	if b, ok := r.reverse[local]; ok {
		return b.server, true
	}
	if local.IsTemporary() {
		return ServerId{}, false
	}
	mod, ok := r.indices[uint8(uint32(local)>>24)]
	if !ok {
		return ServerId{}, false
	}
	return ServerId{ModuleId: mod, BaseId: uint32(local) & baseIdMask}, true
}
