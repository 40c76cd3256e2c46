// Package events is a small synchronous dispatch table for page lifecycle
// events. Handlers are keyed by event name; payloads are typed through the
// generic Subscribe and Publish helpers.
package events

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Event names published by the server.
const (
	NameRendered        = "page.rendered"
	NameVersionMismatch = "page.version_mismatch"
	NameRedirected      = "page.redirected"
)

// Event is one published occurrence.
type Event[T any] struct {
	Name       string
	Payload    T
	OccurredAt time.Time
}

type handler struct {
	id uint64
	fn func(ctx context.Context, name string, payload any, at time.Time)
}

// Bus dispatches events to handlers registered by name. The zero value is
// not usable; use NewBus. A nil *Bus drops everything, so publishers do not
// need to check for one.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]handler
	nextID   uint64
	logger   *slog.Logger
	now      func() time.Time
}

// NewBus creates an empty bus.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default().With("component", "events")
	}
	return &Bus{
		handlers: make(map[string][]handler),
		logger:   logger,
		now:      time.Now,
	}
}

// Subscribe registers fn for events named name carrying a T payload.
// Events with a payload of another type are ignored by fn. The returned
// function removes the subscription.
func Subscribe[T any](b *Bus, name string, fn func(ctx context.Context, e Event[T])) (unsubscribe func()) {
	h := func(ctx context.Context, name string, payload any, at time.Time) {
		p, ok := payload.(T)
		if !ok {
			return
		}
		fn(ctx, Event[T]{Name: name, Payload: p, OccurredAt: at})
	}

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.handlers[name] = append(b.handlers[name], handler{id: id, fn: h})
	b.mu.Unlock()

	return func() { b.remove(name, id) }
}

// Publish dispatches payload to every handler of name, in registration
// order, on the calling goroutine. A panicking handler is logged and does
// not stop the others.
func Publish[T any](ctx context.Context, b *Bus, name string, payload T) {
	if b == nil {
		return
	}
	b.mu.RLock()
	hs := b.handlers[name]
	b.mu.RUnlock()
	if len(hs) == 0 {
		return
	}

	at := b.now()
	for _, h := range hs {
		b.dispatch(ctx, h, name, payload, at)
	}
}

// Len returns the number of handlers registered for name.
func (b *Bus) Len(name string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[name])
}

func (b *Bus) dispatch(ctx context.Context, h handler, name string, payload any, at time.Time) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panic", "event", name, "panic", r)
		}
	}()
	h.fn(ctx, name, payload, at)
}

func (b *Bus) remove(name string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	hs := b.handlers[name]
	for i, h := range hs {
		if h.id == id {
			// Copy so a Publish iterating the old slice is unaffected.
			next := make([]handler, 0, len(hs)-1)
			next = append(next, hs[:i]...)
			next = append(next, hs[i+1:]...)
			b.handlers[name] = next
			return
		}
	}
}
