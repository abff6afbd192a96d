package protocol

import "github.com/pixil98/go-coop/internal/ids"

// Vec3 is a world-space position.
type Vec3 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// GridCoords addresses an exterior chunk inside a world-space.
type GridCoords struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

// LockState is the replicated lock data of a door or container. The zero value means
// "no lock data to apply".
type LockState struct {
	IsLocked  bool  `json:"is_locked"`
	LockLevel uint8 `json:"lock_level"`
}

func (l LockState) IsZero() bool {
	return l == LockState{}
}

// ObjectData is one entry of an area assignment batch.
type ObjectData struct {
	Id     ids.ServerId `json:"id"`
	CellId ids.ServerId `json:"cell_id"`
	Lock   LockState    `json:"lock"`
}
