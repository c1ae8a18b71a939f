package gallery

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func instantConfig() Config {
	cfg := DefaultConfig()
	cfg.ScrollEase = 1
	cfg.SnapDelay = 160 * time.Millisecond
	return cfg
}

// run steps the scroller at 60Hz from start until end and returns every
// emitted index.
func run(s *Scroller, start, end float64) []int {
	var got []int
	for ts := start; ts <= end; ts += 16 {
		if m := s.Step(ts); m.Changed {
			got = append(got, m.Index)
		}
	}
	return got
}

func TestSnapScenario(t *testing.T) {
	s := NewScroller(instantConfig(), 300, 3)
	s.ScrollTo(950, 0)

	m := s.Step(16)
	assert.Equal(t, 950.0, m.Current, "ease 1 reaches the target immediately")
	assert.False(t, m.Changed, "nothing is emitted before the snap fires")
	assert.Equal(t, Settling, s.State())

	got := run(s, 32, 1000)
	assert.Equal(t, []int{0}, got)
	assert.Equal(t, 900.0, s.Current)
	assert.Equal(t, Idle, s.State())
}

func TestIndexEmittedOncePerDistinctSettle(t *testing.T) {
	s := NewScroller(instantConfig(), 300, 3)

	s.ScrollTo(310, 0)
	assert.Equal(t, []int{1}, run(s, 16, 500))

	// Settling on the same tile again is not a change.
	s.ScrollTo(280, 500)
	assert.Empty(t, run(s, 516, 1000))

	s.ScrollTo(1480, 1000)
	assert.Equal(t, []int{2}, run(s, 1016, 1500))

	s.ScrollTo(-1250, 1500)
	assert.Equal(t, []int{1}, run(s, 1516, 2000), "round(1250/300)=4, 4 mod 3 = 1")
	assert.Equal(t, -1200.0, s.Current)
}

func TestSettleLandsOnTileMultiple(t *testing.T) {
	cfg := DefaultConfig()
	s := NewScroller(cfg, 9.5, 5)
	targets := []float64{0.1, 17, -33.3, 250.25, -0.4}
	ts := 0.0
	for _, target := range targets {
		s.ScrollTo(target, ts)
		for i := 0; i < 2000 && !(s.State() == Idle); i++ {
			ts += 16
			s.Step(ts)
		}
		require.Equal(t, Idle, s.State(), "target %v never settled", target)
		k := s.Current / 9.5
		assert.InDelta(t, math.Round(k), k, 1e-9, "target %v settled off-grid at %v", target, s.Current)
	}
}

func TestWheelDebouncesSnap(t *testing.T) {
	s := NewScroller(instantConfig(), 300, 3)
	s.Wheel(100, 0)
	s.Wheel(100, 100)
	s.Wheel(100, 200)
	assert.InDelta(t, 3*2*0.2, s.Target, 1e-9)

	s.Step(300)
	assert.Equal(t, Settling, s.State(), "the snap waits for the last wheel event")
	m := s.Step(360)
	assert.True(t, m.Settled)
	assert.True(t, m.Changed)
	assert.Equal(t, 0, m.Index)
	assert.Equal(t, 0.0, s.Current)

	s.Wheel(-1, 400)
	assert.InDelta(t, -0.4, s.Target, 1e-9)
	s.Wheel(0, 400)
	assert.InDelta(t, -0.4, s.Target, 1e-9, "zero delta is ignored")
}

func TestDragSnapsOnRelease(t *testing.T) {
	cfg := instantConfig()
	s := NewScroller(cfg, 10, 4)

	s.PointerMove(100)
	assert.Equal(t, 0.0, s.Target, "moves without a press are ignored")

	s.PointerDown(500)
	assert.Equal(t, Dragging, s.State())
	s.PointerMove(200)
	assert.InDelta(t, 300*cfg.ScrollSpeed*0.025, s.Target, 1e-9)

	m := s.Step(16)
	assert.False(t, m.Changed, "no snap while the pointer is down")
	assert.Equal(t, Dragging, s.State())

	s.PointerUp()
	assert.Equal(t, Snapping, s.State())
	assert.Equal(t, 20.0, s.Target)
	m = s.Step(32)
	assert.True(t, m.Changed)
	assert.Equal(t, 2, m.Index)
}

func TestEaseConverges(t *testing.T) {
	s := NewScroller(DefaultConfig(), 300, 3)
	s.ScrollTo(600, 0)
	prev := 0.0
	ts := 0.0
	for s.State() != Idle {
		ts += 16
		m := s.Step(ts)
		require.GreaterOrEqual(t, m.Current, prev, "ease must not overshoot backwards")
		require.LessOrEqual(t, m.Current, 600.0)
		prev = m.Current
		require.Less(t, ts, 60000.0)
	}
	assert.Equal(t, 600.0, s.Current)
	assert.Equal(t, 2, s.CenterIndex())
}

func TestSetStrideKeepsCentredTile(t *testing.T) {
	s := NewScroller(instantConfig(), 300, 5)
	s.ScrollTo(900, 0)
	run(s, 16, 500)
	require.Equal(t, 3, s.CenterIndex())

	s.SetStride(120)
	assert.InDelta(t, 360.0, s.Current, 1e-9)
	assert.Equal(t, 3, s.CenterIndex())
	assert.Empty(t, run(s, 516, 1000), "a resize is not a new settle")
}

func TestMotionDirection(t *testing.T) {
	s := NewScroller(instantConfig(), 10, 2)
	s.ScrollTo(5, 0)
	m := s.Step(16)
	assert.True(t, m.Forward)
	assert.Equal(t, 5.0, m.Speed())

	s.ScrollTo(2, 16)
	m = s.Step(32)
	assert.False(t, m.Forward)
	assert.Equal(t, -3.0, m.Speed())
}
