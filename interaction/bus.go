// Package interaction provides the pointer, wheel and resize plumbing shared
// by the renderers: an event bus standing in for element listeners, pointer
// tracking with smoothing, and host resize observation.
package interaction

import "sort"

// Kind identifies an input event.
type Kind int

const (
	PointerMove Kind = iota
	PointerDown
	PointerUp
	PointerLeave
	Wheel
	Resize
)

// Event is one input event. X and Y are host pixels with a top-left origin.
type Event struct {
	Kind   Kind
	X, Y   float32
	DeltaY float32
	Width  int
	Height int
	// Time is the frame timestamp in milliseconds the event was polled on.
	Time float64
}

// Bus fans input events out to subscribed handlers in subscription order.
// It is not safe for concurrent use; events are published from the frame loop.
type Bus struct {
	next     int
	handlers map[Kind]map[int]func(Event)
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[Kind]map[int]func(Event))}
}

// Subscribe attaches fn for events of kind k. The returned function detaches
// it and may be called more than once.
func (b *Bus) Subscribe(k Kind, fn func(Event)) (unsubscribe func()) {
	b.next++
	id := b.next
	m, ok := b.handlers[k]
	if !ok {
		m = make(map[int]func(Event))
		b.handlers[k] = m
	}
	m[id] = fn
	return func() {
		delete(b.handlers[k], id)
	}
}

// Publish delivers ev to every handler subscribed to its kind.
func (b *Bus) Publish(ev Event) {
	m := b.handlers[ev.Kind]
	if len(m) == 0 {
		return
	}
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		// A handler may have detached an earlier one.
		if fn, ok := m[id]; ok {
			fn(ev)
		}
	}
}

// Listeners returns the number of attached handlers.
func (b *Bus) Listeners() int {
	n := 0
	for _, m := range b.handlers {
		n += len(m)
	}
	return n
}

// Subscriptions collects unsubscribe functions so they can be released together.
type Subscriptions []func()

// Add records an unsubscribe function.
func (s *Subscriptions) Add(unsub func()) {
	*s = append(*s, unsub)
}

// Release detaches everything recorded so far.
func (s *Subscriptions) Release() {
	for _, unsub := range *s {
		unsub()
	}
	*s = nil
}
