package ids

import "fmt"

// ServerId is the stable (module, base id) pair used to reference a form on the wire.
type ServerId struct {
	ModuleId uint32 `json:"mod_id"`
	BaseId   uint32 `json:"base_id"`
}

func (s ServerId) IsZero() bool {
	return s.ModuleId == 0 && s.BaseId == 0
}

func (s ServerId) String() string {
	return fmt.Sprintf("%X:%06X", s.ModuleId, s.BaseId)
}

// LocalId is the volatile form id assigned by the running engine. Zero is never valid.
type LocalId uint32

func (l LocalId) String() string {
	return fmt.Sprintf("%08X", uint32(l))
}

// IsTemporary reports whether the id lives in the engine's runtime-created range.
// Temporary ids have no static module mapping.
func (l LocalId) IsTemporary() bool {
	return uint32(l)>>24 == temporaryIndex
}

// Translator maps between server and local identifiers.
type Translator interface {
	ResolveLocal(ServerId) (LocalId, bool)
	ResolveServer(LocalId) (ServerId, bool)
}
