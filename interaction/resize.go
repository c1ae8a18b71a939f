package interaction

import "github.com/trgs-studio/nightreel/surface"

// observable is implemented by hosts that can report their own size changes.
type observable interface {
	Observable() bool
}

// ResizeObserver invokes a callback whenever the host's pixel size changes.
// Hosts that can be measured every frame are polled; others fall back to
// window resize events from the bus.
type ResizeObserver struct {
	host   surface.Host
	fn     func(w, h int)
	w, h   int
	native bool
	unsub  func()
}

// NewResizeObserver starts observing host. fn is not called for the initial size.
func NewResizeObserver(host surface.Host, b *Bus, fn func(w, h int)) *ResizeObserver {
	o := &ResizeObserver{host: host, fn: fn, native: true}
	if ob, ok := host.(observable); ok && !ob.Observable() {
		o.native = false
	}
	o.w, o.h = host.Size()
	if !o.native {
		o.unsub = b.Subscribe(Resize, func(ev Event) { o.apply(ev.Width, ev.Height) })
	}
	return o
}

// Native reports whether the observer polls the host directly.
func (o *ResizeObserver) Native() bool { return o.native }

// Check polls the host. It is a no-op in fallback mode.
func (o *ResizeObserver) Check() {
	if !o.native || o.fn == nil {
		return
	}
	w, h := o.host.Size()
	o.apply(w, h)
}

func (o *ResizeObserver) apply(w, h int) {
	if o.fn == nil || w <= 0 || h <= 0 {
		return
	}
	if w == o.w && h == o.h {
		return
	}
	o.w, o.h = w, h
	o.fn(w, h)
}

// Stop detaches the observer. Safe to call more than once.
func (o *ResizeObserver) Stop() {
	if o.unsub != nil {
		o.unsub()
		o.unsub = nil
	}
	o.fn = nil
}
