package driver

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/pixil98/go-coop/internal/engine"
)

const (
	DefaultTickLength = time.Second / 60
	DefaultQueueSize  = 256
)

var ErrStopped = errors.New("driver stopped")

type Publisher interface {
	Publish(context.Context, any)
}

// FrameDriver owns the simulation goroutine. Every bus publish happens inside Start,
// either for a posted event or for a frame update.
type FrameDriver struct {
	tickLength time.Duration
	queueSize  int
	now        func() time.Time

	bus   Publisher
	queue chan any
	done  chan struct{}

	epoch time.Time
	last  time.Time
	ticks atomic.Uint64
}

func NewFrameDriver(bus Publisher, opts ...FrameDriverOpt) *FrameDriver {
	d := &FrameDriver{
		tickLength: DefaultTickLength,
		queueSize:  DefaultQueueSize,
		now:        time.Now,
		bus:        bus,
		done:       make(chan struct{}),
	}

	for _, opt := range opts {
		opt(d)
	}

	d.queue = make(chan any, d.queueSize)
	d.epoch = d.now()
	d.last = d.epoch
	return d
}

func (d *FrameDriver) Start(ctx context.Context) error {
	defer close(d.done)

	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-d.queue:
			d.bus.Publish(ctx, ev)
		case <-ticker.C:
			d.Tick(ctx)
		}
	}
}

// Post queues an event for the simulation goroutine. It blocks while the queue is full
// and fails once the driver has stopped.
func (d *FrameDriver) Post(ev any) error {
	select {
	case <-d.done:
		return ErrStopped
	default:
	}

	select {
	case d.queue <- ev:
		return nil
	case <-d.done:
		return ErrStopped
	}
}

// Tick advances one frame and publishes its UpdateEvent.
func (d *FrameDriver) Tick(ctx context.Context) {
	now := d.now()
	delta := now.Sub(d.last)
	if delta < 0 {
		delta = 0
	}
	d.last = now
	d.ticks.Store(uint64(d.last.Sub(d.epoch).Milliseconds()))

	d.bus.Publish(ctx, engine.UpdateEvent{Delta: delta.Seconds()})
}

// Ticks is the number of milliseconds between driver creation and the latest frame.
func (d *FrameDriver) Ticks() uint64 {
	return d.ticks.Load()
}
