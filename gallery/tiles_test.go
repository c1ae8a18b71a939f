package gallery

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItems(n int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{Image: string(rune('a' + i)), Text: string(rune('A' + i))}
	}
	return items
}

// smallLayout is a 30 unit viewport with 4 unit tiles on a 6 unit stride, so
// three items repeat three times over a 54 unit strip.
func smallLayout() Layout {
	return Layout{ViewportW: 30, ViewportH: 20, ScreenW: 300, ScreenH: 200, TileW: 4, TileH: 6, Padding: 2, Stride: 6}
}

type seen struct {
	item int
	x    int64
}

func visible(s *strip) map[seen]int {
	out := make(map[seen]int)
	for _, tv := range s.snapshot() {
		if tv.Pose.Before || tv.Pose.After {
			continue
		}
		out[seen{tv.Placement.Item, int64(math.Round(tv.Pose.X * 1000))}]++
	}
	return out
}

// drive moves the strip from one scroll value to another in fixed steps.
func drive(s *strip, from, to, step float64) {
	if to < from {
		step = -step
	}
	cur := from
	for cur != to {
		next := cur + step
		if (step > 0 && next > to) || (step < 0 && next < to) {
			next = to
		}
		s.update(Motion{Current: next, Last: cur, Forward: next > cur})
		cur = next
	}
}

func TestStripTileCount(t *testing.T) {
	s := newStrip(testItems(3), smallLayout(), 0)
	assert.Equal(t, 9, s.count)
	assert.Equal(t, 54.0, s.width())
	assert.Len(t, s.snapshot(), 9)

	for i, tv := range s.snapshot() {
		assert.Equal(t, i, tv.Placement.Slot)
		assert.Equal(t, i%3, tv.Placement.Item)
		assert.Equal(t, s.items[i%3].Image, tv.Media.Source)
		assert.True(t, s.world.Alive(tv.Entity))
	}
}

func TestCopiesFor(t *testing.T) {
	l := smallLayout()
	assert.Equal(t, 3, l.copiesFor(3))
	assert.Equal(t, 2, l.copiesFor(10), "never fewer than two copies")

	l.ViewportW = 100
	assert.Equal(t, 10, l.copiesFor(2))

	assert.Equal(t, 2, Layout{}.copiesFor(3))
}

func TestStripStartsCentredOnFirstItem(t *testing.T) {
	s := newStrip(testItems(3), smallLayout(), 0)
	got := visible(s)
	assert.Equal(t, 1, got[seen{0, 0}])
	assert.Equal(t, 1, got[seen{1, 6000}])
	assert.Equal(t, 1, got[seen{2, -6000}])

	drive(s, 0, 6, 0.5)
	got = visible(s)
	assert.Equal(t, 1, got[seen{1, 0}], "one stride forward centres the next item")
}

func TestFlatStripWhenBendIsZero(t *testing.T) {
	s := newStrip(testItems(4), smallLayout(), 0)
	drive(s, 0, 13.5, 0.5)
	for _, tv := range s.snapshot() {
		assert.Zero(t, tv.Pose.Y)
		assert.Zero(t, tv.Pose.RotZ)
	}
}

func TestCurvedStripTiltsOffCentreTiles(t *testing.T) {
	s := newStrip(testItems(3), smallLayout(), 3)
	for _, tv := range s.snapshot() {
		switch {
		case tv.Pose.X == 0:
			assert.Zero(t, tv.Pose.Y)
		case math.Abs(tv.Pose.X) < 15:
			assert.Negative(t, tv.Pose.Y)
			assert.NotZero(t, tv.Pose.RotZ)
		}
	}
}

func TestStripIsPeriodic(t *testing.T) {
	const w = 54.0
	base := visible(newStrip(testItems(3), smallLayout(), 0))
	require.NotEmpty(t, base)

	t.Run("small steps forward", func(t *testing.T) {
		s := newStrip(testItems(3), smallLayout(), 0)
		drive(s, 0, w, 0.5)
		assert.Equal(t, base, visible(s))
	})

	t.Run("large jump", func(t *testing.T) {
		s := newStrip(testItems(3), smallLayout(), 0)
		s.update(Motion{Current: 3 * w, Last: 0, Forward: true})
		assert.Equal(t, base, visible(s))
	})

	t.Run("backward", func(t *testing.T) {
		s := newStrip(testItems(3), smallLayout(), 0)
		drive(s, 0, -w, 0.5)
		assert.Equal(t, base, visible(s))
	})

	t.Run("reversal", func(t *testing.T) {
		s := newStrip(testItems(3), smallLayout(), 0)
		drive(s, 0, 40, 1.5)
		drive(s, 40, -2*w, 0.5)
		assert.Equal(t, base, visible(s))
		drive(s, -2*w, w, 3)
		assert.Equal(t, base, visible(s))
	})
}

func TestEveryTileStaysOnStrip(t *testing.T) {
	s := newStrip(testItems(3), smallLayout(), 0)
	drive(s, 0, 500, 0.75)
	for _, tv := range s.snapshot() {
		assert.GreaterOrEqual(t, tv.Pose.X, -17.0)
		assert.Less(t, tv.Pose.X, 37.0)
		k := tv.Placement.Extra / 54
		assert.InDelta(t, math.Round(k), k, 1e-9, "extra shift is a multiple of the strip width")
	}
}

func TestResizeGrowsAndReseats(t *testing.T) {
	s := newStrip(testItems(3), smallLayout(), 0)
	drive(s, 0, 12, 0.5)

	wide := smallLayout()
	wide.ViewportW = 80
	s.resize(wide, 12)
	assert.Equal(t, 18, s.count, "six copies cover the wider viewport")
	assert.Len(t, s.snapshot(), s.count)

	got := visible(s)
	assert.Equal(t, 1, got[seen{2, 0}], "the centred item is kept across a resize")
}

func TestUpdateAdvancesMedia(t *testing.T) {
	s := newStrip(testItems(2), smallLayout(), 0)
	before := s.snapshot()
	s.update(Motion{Current: 1, Last: 0, Forward: true})
	after := s.snapshot()
	for i := range after {
		assert.InDelta(t, before[i].Media.Time+0.04, after[i].Media.Time, 1e-5)
		assert.Equal(t, float32(1), after[i].Media.Speed)
	}
}
