package interaction

// Input is the per-frame window input state the Poller reads.
type Input interface {
	WindowResized() bool
	ScreenSize() (w, h int)
	CursorOnScreen() bool
	MousePosition() (x, y float32)
	ButtonDown() bool
	ButtonPressed() bool
	ButtonReleased() bool
	// WheelMove reports wheel notches since the last frame, up positive.
	WheelMove() float32
}

// Poller translates per-frame input state into bus events.
type Poller struct {
	bus      *Bus
	in       Input
	lastX    float32
	lastY    float32
	onScreen bool
	down     bool
	w, h     int
	capture  func(x, y float32) bool
}

// NewPoller creates a poller reading in and publishing on b.
func NewPoller(b *Bus, in Input) *Poller {
	return &Poller{bus: b, in: in}
}

// SetCapture installs a hit test for regions that own their clicks, such
// as an overlay panel. Presses inside it are not published.
func (p *Poller) SetCapture(fn func(x, y float32) bool) {
	p.capture = fn
}

// Pressed reports whether a published press is still waiting for its release.
func (p *Poller) Pressed() bool { return p.down }

// Poll publishes the input events that happened since the previous frame.
// A press always ends in a PointerUp, even when the button is released
// outside the window.
func (p *Poller) Poll(now float64) {
	in := p.in
	if in.WindowResized() {
		w, h := in.ScreenSize()
		if w != p.w || h != p.h {
			p.w, p.h = w, h
			p.bus.Publish(Event{Kind: Resize, Width: w, Height: h, Time: now})
		}
	}

	x, y := in.MousePosition()
	released := p.down && (in.ButtonReleased() || !in.ButtonDown())

	if !in.CursorOnScreen() {
		if released {
			p.down = false
			p.bus.Publish(Event{Kind: PointerUp, X: x, Y: y, Time: now})
		}
		if p.onScreen {
			p.bus.Publish(Event{Kind: PointerLeave, Time: now})
		}
		p.onScreen = false
		return
	}
	p.onScreen = true

	if x != p.lastX || y != p.lastY {
		p.lastX, p.lastY = x, y
		p.bus.Publish(Event{Kind: PointerMove, X: x, Y: y, Time: now})
	}
	if in.ButtonPressed() && !p.down && (p.capture == nil || !p.capture(x, y)) {
		p.down = true
		p.bus.Publish(Event{Kind: PointerDown, X: x, Y: y, Time: now})
		released = in.ButtonReleased()
	}
	if released {
		p.down = false
		p.bus.Publish(Event{Kind: PointerUp, X: x, Y: y, Time: now})
	}
	// Wheel up is positive here; DOM deltaY is down positive.
	if wheel := in.WheelMove(); wheel != 0 {
		p.bus.Publish(Event{Kind: Wheel, DeltaY: -wheel, X: x, Y: y, Time: now})
	}
}
