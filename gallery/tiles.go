package gallery

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/trgs-studio/nightreel/camera"
)

// Placement is a tile's slot on the strip.
type Placement struct {
	Slot  int     // position in the repeated sequence
	Item  int     // index into the caller's items
	BaseX float64 // Slot * stride
	Extra float64 // accumulated wraparound shift, a multiple of the strip width
}

// Pose is a tile's world transform for the current frame.
type Pose struct {
	X, Y, Z float64
	RotZ    float64
	Before  bool // fully past the left viewport edge
	After   bool // fully past the right viewport edge
}

// Media holds a tile's drawing inputs.
type Media struct {
	Source string // image key, shared by tiles showing the same image
	Time   float32
	Speed  float32
}

// Layout is the viewport-relative tile geometry in world units.
type Layout struct {
	ViewportW, ViewportH float64
	ScreenW, ScreenH     float64
	TileW, TileH         float64
	Padding              float64
	Stride               float64
}

// tilePadding is the gap between neighbouring tiles in world units.
const tilePadding = 2

// NewLayout derives tile geometry from the camera: tiles are 0.6 of the
// viewport height and a width that tracks the screen aspect.
func NewLayout(cam *camera.Camera) Layout {
	vw, vh := cam.Viewport()
	l := Layout{
		ViewportW: float64(vw),
		ViewportH: float64(vh),
		ScreenW:   float64(cam.ScreenW),
		ScreenH:   float64(cam.ScreenH),
		Padding:   tilePadding,
	}
	if l.ScreenW <= 0 || l.ScreenH <= 0 {
		return l
	}
	scale := l.ScreenH / 1500
	l.TileH = l.ViewportH * (900 * scale) / l.ScreenH
	l.TileW = l.ViewportW * (700 * scale) / l.ScreenW
	l.Stride = l.TileW + l.Padding
	return l
}

// copiesFor returns how many times n items must be repeated so the strip is
// at least the viewport plus a tile on each side. Never fewer than two.
func (l Layout) copiesFor(n int) int {
	if n <= 0 || l.Stride <= 0 {
		return 2
	}
	need := math.Ceil((l.ViewportW + 2*l.Stride) / (l.Stride * float64(n)))
	return max(2, int(need))
}

// strip owns the tile entities.
type strip struct {
	world  *ecs.World
	tiles  *ecs.Map3[Placement, Pose, Media]
	filter *ecs.Filter3[Placement, Pose, Media]
	items  []Item
	count  int
	layout Layout
	bend   float64
}

func newStrip(items []Item, layout Layout, bend float64) *strip {
	world := ecs.NewWorld()
	s := &strip{
		world:  world,
		tiles:  ecs.NewMap3[Placement, Pose, Media](world),
		filter: ecs.NewFilter3[Placement, Pose, Media](world),
		items:  items,
		layout: layout,
		bend:   bend,
	}
	s.resize(layout, 0)
	return s
}

// grow appends tiles until there are count of them.
func (s *strip) grow(count int) {
	n := len(s.items)
	for slot := s.count; slot < count; slot++ {
		item := slot % n
		place := Placement{Slot: slot, Item: item, BaseX: float64(slot) * s.layout.Stride}
		pose := Pose{}
		media := Media{Source: s.items[item].Image, Time: wobblePhase(slot)}
		s.tiles.NewEntity(&place, &pose, &media)
	}
	if count > s.count {
		s.count = count
	}
}

// wobblePhase spreads the per-tile wobble clocks deterministically.
func wobblePhase(slot int) float32 {
	return float32(math.Mod(float64(slot)*37.7, 100))
}

// width returns the total strip width.
func (s *strip) width() float64 {
	return s.layout.Stride * float64(s.count)
}

// resize applies a new layout, adding tiles when the strip became too narrow,
// and re-seats every tile around the current scroll position.
func (s *strip) resize(layout Layout, current float64) {
	s.layout = layout
	s.grow(layout.copiesFor(len(s.items)) * len(s.items))
	total := s.width()

	q := s.filter.Query()
	for q.Next() {
		place, pose, _ := q.Get()
		place.BaseX = float64(place.Slot) * layout.Stride
		place.Extra = 0
		s.seat(place, current, total)
		s.pose(place, pose, current)
	}
}

// seat picks the wraparound shift that puts a tile inside the window
// starting one tile past the left viewport edge.
func (s *strip) seat(place *Placement, current, total float64) {
	if total <= 0 {
		return
	}
	lo := -(s.layout.ViewportW/2 + s.layout.TileW/2)
	x := place.BaseX - current - place.Extra
	place.Extra += math.Floor((x-lo)/total) * total
}

func (s *strip) pose(place *Placement, pose *Pose, current float64) {
	pose.X = place.BaseX - current - place.Extra
	pose.Y, pose.RotZ = Curve(pose.X, s.layout.ViewportW/2, s.bend)
	half := s.layout.TileW / 2
	vhalf := s.layout.ViewportW / 2
	pose.Before = pose.X+half < -vhalf
	pose.After = pose.X-half > vhalf
}

// update positions every tile for one scroll step and relocates the ones that
// left the viewport on the trailing side.
func (s *strip) update(m Motion) {
	total := s.width()
	speed := float32(m.Speed())

	q := s.filter.Query()
	for q.Next() {
		place, pose, media := q.Get()
		s.pose(place, pose, m.Current)

		if total > 0 {
			for m.Forward && pose.Before {
				place.Extra -= total
				s.pose(place, pose, m.Current)
			}
			for !m.Forward && pose.After {
				place.Extra += total
				s.pose(place, pose, m.Current)
			}
		}

		media.Speed = speed
		media.Time += 0.04
		pose.Z = wobble(media.Time, speed)
	}
}

// wobble is the depth offset of a tile centre, growing with scroll speed.
func wobble(t, speed float32) float64 {
	tt := float64(t)
	return (math.Sin(tt)*1.2 + math.Cos(tt)*1.2) * (0.08 + float64(speed)*0.4) * 0.1
}

// TileView is a read-only snapshot of one tile.
type TileView struct {
	Entity    ecs.Entity
	Placement Placement
	Pose      Pose
	Media     Media
}

// snapshot returns every tile in slot order.
func (s *strip) snapshot() []TileView {
	out := make([]TileView, s.count)
	q := s.filter.Query()
	for q.Next() {
		place, pose, media := q.Get()
		out[place.Slot] = TileView{Entity: q.Entity(), Placement: *place, Pose: *pose, Media: *media}
	}
	return out
}
