package session

import (
	"context"
	"reflect"

	"github.com/pixil98/go-coop/internal/desync"
	"github.com/pixil98/go-coop/internal/protocol"
)

type handler func(context.Context, any) error

// Bus dispatches events to typed handlers. It is not safe for concurrent use; every
// Publish happens on the simulation goroutine.
type Bus struct {
	handlers map[reflect.Type][]handler
	reporter *desync.Reporter
}

func NewBus(reporter *desync.Reporter) *Bus {
	return &Bus{
		handlers: make(map[reflect.Type][]handler),
		reporter: reporter,
	}
}

// Handle registers fn for events of type T. Handlers run in registration order.
func Handle[T any](b *Bus, fn func(context.Context, T) error) {
	typ := reflect.TypeFor[T]()
	b.handlers[typ] = append(b.handlers[typ], func(ctx context.Context, ev any) error {
		return fn(ctx, ev.(T))
	})
}

// Publish runs every handler for the event's dynamic type. Handler errors are reported
// and never stop the remaining handlers.
func (b *Bus) Publish(ctx context.Context, ev any) {
	for _, h := range b.handlers[reflect.TypeOf(ev)] {
		if err := h(ctx, ev); err != nil {
			b.reporter.Report(ctx, EventName(ev), err)
		}
	}
}

// Handles reports whether anything is registered for the event's type.
func (b *Bus) Handles(ev any) bool {
	return len(b.handlers[reflect.TypeOf(ev)]) > 0
}

// EventName names an event for logs.
func EventName(ev any) string {
	if m, ok := ev.(protocol.Message); ok {
		return m.MessageType()
	}
	t := reflect.TypeOf(ev)
	if t == nil {
		return "nil"
	}
	return t.String()
}
