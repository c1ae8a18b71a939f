package interaction

import (
	"errors"
	"sort"
)

// ErrNoRuntime is returned by renderers initialized without a runtime.
var ErrNoRuntime = errors.New("interaction: nil runtime")

// FrameLoop schedules callbacks to run on the next display refresh. A callback
// runs once; animations re-request themselves from inside the callback.
type FrameLoop struct {
	next    int
	pending map[int]func(ts float64)
	running map[int]func(ts float64)
}

// NewFrameLoop creates an empty loop.
func NewFrameLoop() *FrameLoop {
	return &FrameLoop{pending: make(map[int]func(float64))}
}

// Request schedules fn for the next Tick and returns its id.
func (l *FrameLoop) Request(fn func(ts float64)) int {
	l.next++
	l.pending[l.next] = fn
	return l.next
}

// Cancel removes a scheduled callback, including one due in the current Tick.
// Unknown ids are ignored.
func (l *FrameLoop) Cancel(id int) {
	delete(l.pending, id)
	if l.running != nil {
		delete(l.running, id)
	}
}

// Pending returns the number of callbacks waiting for the next Tick.
func (l *FrameLoop) Pending() int {
	return len(l.pending)
}

// Tick runs every callback requested before this call, in request order,
// with the frame timestamp in milliseconds.
func (l *FrameLoop) Tick(ts float64) {
	if len(l.pending) == 0 {
		return
	}
	l.running = l.pending
	l.pending = make(map[int]func(float64), len(l.running))

	ids := make([]int, 0, len(l.running))
	for id := range l.running {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if fn, ok := l.running[id]; ok {
			delete(l.running, id)
			fn(ts)
		}
	}
	l.running = nil
}

// Runtime bundles the per-page input bus and frame loop renderers attach to.
type Runtime struct {
	Bus    *Bus
	Frames *FrameLoop
}

// NewRuntime creates an empty runtime.
func NewRuntime() *Runtime {
	return &Runtime{Bus: NewBus(), Frames: NewFrameLoop()}
}

// Idle reports whether nothing is attached: no listeners and no pending frames.
func (rt *Runtime) Idle() bool {
	return rt.Bus.Listeners() == 0 && rt.Frames.Pending() == 0
}
