package gallery

import "math"

// State is the scroll state machine phase.
type State int

const (
	// Idle: target equals current and no drag is active.
	Idle State = iota
	// Dragging: a pointer is down and moves the target.
	Dragging
	// Settling: current eases toward target; a snap may be pending.
	Settling
	// Snapping: the target sits on a tile boundary and current converges on it.
	Snapping
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Settling:
		return "settling"
	case Snapping:
		return "snapping"
	}
	return "unknown"
}

// settleEpsilon is the distance at which current is considered converged.
const settleEpsilon = 1e-3

// Motion is the outcome of one scroll step.
type Motion struct {
	Current, Last float64
	// Forward is true when the strip moved toward higher scroll values this
	// frame (content slides left).
	Forward bool
	// Settled is set on the frame a snap converges.
	Settled bool
	// Index is the logical centred item of the settle, valid when Changed.
	Index   int
	Changed bool
}

// Speed returns the scroll velocity of the step.
func (m Motion) Speed() float64 { return m.Current - m.Last }

// Scroller is the gallery scroll state: current eases toward target every
// step, wheel and drag input move the target, and a debounced snap aligns the
// target to a tile boundary. Times are frame timestamps in milliseconds.
type Scroller struct {
	Current, Target, Last float64

	ease      float64
	speed     float64
	snapDelay float64

	stride float64
	items  int

	state    State
	down     bool
	start    float64
	position float64

	snapPending bool
	snapAt      float64

	pendingIndex int
	lastEmitted  int
}

// NewScroller creates an idle scroller at position 0. stride is the distance
// between tile centres and items the number of distinct items.
func NewScroller(cfg Config, stride float64, items int) *Scroller {
	cfg = cfg.sanitized()
	return &Scroller{
		ease:        cfg.ScrollEase,
		speed:       cfg.ScrollSpeed,
		snapDelay:   float64(cfg.SnapDelay.Milliseconds()),
		stride:      stride,
		items:       items,
		lastEmitted: -1,
	}
}

// State returns the current phase.
func (s *Scroller) State() State { return s.state }

// Stride returns the snapping grid size.
func (s *Scroller) Stride() float64 { return s.stride }

// SetStride changes the tile stride, rescaling the scroll position so the same
// tile stays centred.
func (s *Scroller) SetStride(stride float64) {
	if stride <= 0 || !finite(stride) {
		return
	}
	if s.stride > 0 {
		k := stride / s.stride
		s.Current *= k
		s.Target *= k
		s.Last *= k
		s.position *= k
	}
	s.stride = stride
}

// Wheel moves the target one notch in the direction of delta and restarts
// the snap debounce.
func (s *Scroller) Wheel(delta, now float64) {
	if delta == 0 || !finite(delta) {
		return
	}
	step := s.speed * 0.2
	if delta < 0 {
		step = -step
	}
	s.Target += step
	if !s.down {
		s.state = Settling
	}
	s.scheduleSnap(now)
}

// PointerDown starts a drag at screen x.
func (s *Scroller) PointerDown(x float64) {
	s.down = true
	s.position = s.Current
	s.start = x
	s.snapPending = false
	s.state = Dragging
}

// PointerMove drags the target while the pointer is down.
func (s *Scroller) PointerMove(x float64) {
	if !s.down {
		return
	}
	s.Target = s.position + (s.start-x)*(s.speed*0.025)
}

// PointerUp ends a drag and snaps immediately.
func (s *Scroller) PointerUp() {
	if !s.down {
		return
	}
	s.down = false
	s.snap()
}

// ScrollTo sets the target directly and schedules a debounced snap.
func (s *Scroller) ScrollTo(target, now float64) {
	if !finite(target) {
		return
	}
	s.Target = target
	if !s.down {
		s.state = Settling
	}
	s.scheduleSnap(now)
}

func (s *Scroller) scheduleSnap(now float64) {
	s.snapPending = true
	s.snapAt = now + s.snapDelay
}

// snap rounds the target to the nearest tile boundary and records the logical
// index the gallery will settle on.
func (s *Scroller) snap() {
	s.snapPending = false
	if s.stride <= 0 || s.items <= 0 {
		s.state = Settling
		return
	}
	idx := math.Round(math.Abs(s.Target) / s.stride)
	item := idx * s.stride
	if s.Target < 0 {
		item = -item
	}
	s.Target = item
	s.pendingIndex = int(math.Mod(idx, float64(s.items)))
	s.state = Snapping
}

// Step advances one frame at time now.
func (s *Scroller) Step(now float64) Motion {
	if s.snapPending && !s.down && now >= s.snapAt {
		s.snap()
	}

	s.Current += (s.Target - s.Current) * s.ease
	if math.Abs(s.Target-s.Current) < settleEpsilon {
		s.Current = s.Target
	}

	m := Motion{Current: s.Current, Last: s.Last, Forward: s.Current > s.Last}

	if s.Current == s.Target {
		switch s.state {
		case Snapping:
			s.state = Idle
			m.Settled = true
			if s.pendingIndex != s.lastEmitted {
				s.lastEmitted = s.pendingIndex
				m.Index = s.pendingIndex
				m.Changed = true
			}
		case Settling:
			if !s.snapPending {
				s.state = Idle
			}
		}
	}

	s.Last = s.Current
	return m
}

// CenterIndex returns the logical item nearest the centre right now.
func (s *Scroller) CenterIndex() int {
	if s.stride <= 0 || s.items <= 0 {
		return 0
	}
	idx := math.Round(math.Abs(s.Current) / s.stride)
	return int(math.Mod(idx, float64(s.items)))
}
