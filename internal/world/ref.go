package world

import (
	"errors"

	"github.com/pixil98/go-coop/internal/engine"
	"github.com/pixil98/go-coop/internal/ids"
)

var ErrNoLock = errors.New("reference cannot hold a lock")

type Activation struct {
	Activator ids.LocalId
	Params    engine.ActivateParams
}

type Animation struct {
	Animation string
	EventName string
}

// Ref is a placed reference.
type Ref struct {
	id       ids.LocalId
	kind     engine.FormKind
	area     ids.LocalId
	lock     *engine.Lock
	lockless bool

	lockChanges int
	activations []Activation
	animations  []Animation
}

func NewRef(id ids.LocalId, kind engine.FormKind, area ids.LocalId) *Ref {
	return &Ref{id: id, kind: kind, area: area}
}

// WithLock gives the reference an initial lock.
func (r *Ref) WithLock(locked bool, level uint8) *Ref {
	r.lock = &engine.Lock{Locked: locked, Level: level}
	return r
}

// Lockless makes CreateLock fail.
func (r *Ref) Lockless() *Ref {
	r.lockless = true
	return r
}

func (r *Ref) Id() ids.LocalId       { return r.id }
func (r *Ref) Kind() engine.FormKind { return r.kind }
func (r *Ref) AreaId() ids.LocalId   { return r.area }
func (r *Ref) Lock() *engine.Lock    { return r.lock }

func (r *Ref) CreateLock() (*engine.Lock, error) {
	if r.lock != nil {
		return r.lock, nil
	}
	if r.lockless {
		return nil, ErrNoLock
	}
	r.lock = &engine.Lock{}
	return r.lock, nil
}

func (r *Ref) LockChanged() {
	r.lockChanges++
}

func (r *Ref) Activate(activator engine.Reference, params engine.ActivateParams) {
	var id ids.LocalId
	if activator != nil {
		id = activator.Id()
	}
	r.activations = append(r.activations, Activation{Activator: id, Params: params})
}

func (r *Ref) PlayAnimation(animation, event string) error {
	r.animations = append(r.animations, Animation{Animation: animation, EventName: event})
	return nil
}

func (r *Ref) LockChanges() int {
	return r.lockChanges
}

func (r *Ref) Activations() []Activation {
	return append([]Activation(nil), r.activations...)
}

func (r *Ref) Animations() []Animation {
	return append([]Animation(nil), r.animations...)
}
