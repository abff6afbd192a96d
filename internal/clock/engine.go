package clock

import (
	"context"
	"log/slog"
	"time"

	"github.com/pixil98/go-coop/internal/engine"
	"github.com/pixil98/go-coop/internal/protocol"
	"github.com/pixil98/go-coop/internal/session"
)

// DefaultTransitionSpan is the fade duration in seconds between local and server time.
const DefaultTransitionSpan = 5.0

// GameClock is the engine's displayed calendar.
type GameClock interface {
	Read() TimeModel
	Write(TimeModel)
}

// TickSource is a monotonic millisecond counter.
type TickSource interface {
	Ticks() uint64
}

// Engine drives the game clock from server samples, cross-fading to and from the
// local clock on lock and unlock.
type Engine struct {
	clock GameClock
	ticks TickSource
	span  float64

	online  TimeModel
	offline TimeModel

	fadeTimer          float64
	switchingToOffline bool
	locked             bool
	lastTick           uint64
}

// EngineOpt configures an Engine.
type EngineOpt func(*Engine)

// WithTransitionSpan sets the fade duration in seconds.
func WithTransitionSpan(seconds float64) EngineOpt {
	return func(e *Engine) {
		if seconds > 0 {
			e.span = seconds
		}
	}
}

// NewEngine returns an unlocked engine that writes to clock and reads elapsed time from ticks.
func NewEngine(clock GameClock, ticks TickSource, opts ...EngineOpt) *Engine {
	e := &Engine{
		clock: clock,
		ticks: ticks,
		span:  DefaultTransitionSpan,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Register subscribes the engine to server time samples, disconnects and frame updates.
func (e *Engine) Register(bus *session.Bus) {
	session.Handle(bus, func(ctx context.Context, m protocol.ServerTimeSettings) error {
		e.OnServerTimeReceived(ctx, m)
		return nil
	})
	session.Handle(bus, func(ctx context.Context, _ engine.DisconnectedEvent) error {
		e.OnDisconnected(ctx)
		return nil
	})
	session.Handle(bus, func(ctx context.Context, ev engine.UpdateEvent) error {
		e.Tick(ctx, ev.Delta)
		return nil
	})
}

// AllowLocalClockAdvance reports whether the engine may run its own clock.
func (e *Engine) AllowLocalClockAdvance() bool {
	return !e.locked
}

// Online returns the server-driven time model.
func (e *Engine) Online() TimeModel {
	return e.online
}

// Offline returns the local time captured when the engine locked.
func (e *Engine) Offline() TimeModel {
	return e.offline
}

// Transitioning reports whether a fade is in progress.
func (e *Engine) Transitioning() bool {
	return e.locked && (e.switchingToOffline || e.fadeTimer < e.span)
}

// OnServerTimeReceived applies a server time sample. The first sample while unlocked
// captures the local clock as the offline model, seeds the online date from it and
// locks the engine, starting the fade in. A sample arriving during the fade back to
// local time cancels that fade and restarts the fade in. Every sample replaces the
// online hour and scale.
func (e *Engine) OnServerTimeReceived(ctx context.Context, m protocol.ServerTimeSettings) {
	switch {
	case !e.locked:
		e.offline = e.clock.Read()
		e.online.Day = e.offline.Day
		e.online.Month = e.offline.Month
		e.online.Year = e.offline.Year
		e.fadeTimer = 0
		e.locked = true
		slog.InfoContext(ctx, "game clock locked to server", "time", m.Time, "scale", m.TimeScale)
	case e.switchingToOffline:
		e.switchingToOffline = false
		e.fadeTimer = 0
		slog.InfoContext(ctx, "offline transition cancelled by server sample")
	}

	e.online.Time = float32(WrapHour(float64(m.Time)))
	e.online.TimeScale = m.TimeScale
	e.lastTick = e.ticks.Ticks()
}

func (e *Engine) OnDisconnected(ctx context.Context) {
	if !e.locked || e.switchingToOffline {
		return
	}
	e.fadeTimer = 0
	e.switchingToOffline = true
	slog.InfoContext(ctx, "game clock returning to local time")
}

// Tick runs once per frame with the frame's elapsed seconds.
func (e *Engine) Tick(ctx context.Context, elapsed float64) {
	if !e.locked {
		return
	}

	advanced := e.advanceOnline()

	if e.switchingToOffline {
		if e.fadeTimer+elapsed >= e.span {
			e.unlock(ctx)
			return
		}
		shown := e.online
		shown.Time = Interpolate(e.online.Time, e.offline.Time, e.fadeTimer/e.span)
		e.fadeTimer += elapsed
		e.clock.Write(shown)
		return
	}

	if !advanced {
		return
	}

	shown := e.online
	if e.fadeTimer < e.span {
		shown.Time = Interpolate(e.offline.Time, e.online.Time, e.fadeTimer/e.span)
		e.fadeTimer += elapsed
	}
	e.clock.Write(shown)
}

// advanceOnline moves the online model by the ticks elapsed since the last call. A
// tick source that went backwards is stale and leaves the model untouched.
func (e *Engine) advanceOnline() bool {
	now := e.ticks.Ticks()
	if now < e.lastTick {
		return false
	}
	delta := now - e.lastTick
	e.lastTick = now
	e.online.Advance(time.Duration(delta) * time.Millisecond)
	return true
}

func (e *Engine) unlock(ctx context.Context) {
	e.clock.Write(e.offline)
	e.locked = false
	e.switchingToOffline = false
	e.fadeTimer = e.span
	slog.InfoContext(ctx, "game clock unlocked")
}
