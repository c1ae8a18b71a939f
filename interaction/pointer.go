package interaction

// PointerTracker follows the pointer relative to a host box, normalized to
// [0,1]x[0,1] with Y pointing up (texture-coordinate convention).
type PointerTracker struct {
	// Target is the last observed position; Smoothed trails it.
	Target, Smoothed [2]float32
	// TargetActive is 1 while the pointer is over the host, 0 after it leaves.
	TargetActive, Active float32

	k, activityK  float32
	width, height float32
}

// NewPointerTracker creates a tracker centred in the host with zero activity.
// k and activityK are the per-frame smoothing factors.
func NewPointerTracker(k, activityK float32) *PointerTracker {
	return &PointerTracker{
		Target:    [2]float32{0.5, 0.5},
		Smoothed:  [2]float32{0.5, 0.5},
		k:         clampFactor(k),
		activityK: clampFactor(activityK),
		width:     1,
		height:    1,
	}
}

// SetBounds sets the host box size in pixels.
func (p *PointerTracker) SetBounds(w, h int) {
	if w > 0 {
		p.width = float32(w)
	}
	if h > 0 {
		p.height = float32(h)
	}
}

// Move records a pointer position in host pixels (top-left origin).
func (p *PointerTracker) Move(x, y float32) {
	p.Target[0] = Clamp01(x / p.width)
	p.Target[1] = Clamp01(1 - y/p.height)
	p.TargetActive = 1
}

// Leave marks the pointer as gone; activity decays rather than snapping.
func (p *PointerTracker) Leave() {
	p.TargetActive = 0
}

// Step advances smoothing by one frame.
func (p *PointerTracker) Step() {
	p.Smoothed[0] = Smooth(p.Smoothed[0], p.Target[0], p.k)
	p.Smoothed[1] = Smooth(p.Smoothed[1], p.Target[1], p.k)
	p.Active = Smooth(p.Active, p.TargetActive, p.activityK)
}

// Attach subscribes the tracker to pointer events on b.
func (p *PointerTracker) Attach(b *Bus) (detach func()) {
	var subs Subscriptions
	subs.Add(b.Subscribe(PointerMove, func(ev Event) { p.Move(ev.X, ev.Y) }))
	subs.Add(b.Subscribe(PointerDown, func(ev Event) { p.Move(ev.X, ev.Y) }))
	subs.Add(b.Subscribe(PointerLeave, func(Event) { p.Leave() }))
	return subs.Release
}
