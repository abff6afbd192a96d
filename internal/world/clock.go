package world

import (
	"context"
	"time"

	"github.com/pixil98/go-coop/internal/clock"
	"github.com/pixil98/go-coop/internal/engine"
	"github.com/pixil98/go-coop/internal/session"
)

// Clock is the engine calendar. It free-runs on frame updates unless its gate
// forbids it.
type Clock struct {
	model clock.TimeModel
	gate  func() bool
}

func newClock() *Clock {
	return &Clock{
		model: clock.TimeModel{Day: 1, Month: 0, Year: 201, Time: 9, TimeScale: 20},
		gate:  func() bool { return true },
	}
}

func (c *Clock) Read() clock.TimeModel {
	return c.model
}

func (c *Clock) Write(m clock.TimeModel) {
	c.model = m
}

// SetGate installs the predicate that allows local advancement.
func (c *Clock) SetGate(fn func() bool) {
	c.gate = fn
}

// Advance runs the local clock if the gate allows.
func (c *Clock) Advance(d time.Duration) {
	if !c.gate() {
		return
	}
	c.model.Advance(d)
}

// Register runs the clock on frame updates. Register it after the clock engine so
// lock changes in a frame apply to that frame's advance.
func (c *Clock) Register(bus *session.Bus) {
	session.Handle(bus, func(_ context.Context, ev engine.UpdateEvent) error {
		c.Advance(time.Duration(ev.Delta * float64(time.Second)))
		return nil
	})
}
