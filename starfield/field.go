package starfield

import (
	"context"
	"image"
	"image/color"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Layers is the number of depth layers blended per pixel.
const Layers = 4

// Field evaluates the star field program on the CPU. It mirrors the fragment
// shader line for line so frames can be exported and inspected without a GPU.
type Field struct {
	U Uniforms
}

// NewField creates a field for p at the given resolution.
func NewField(p Params, w, h int) *Field {
	u := NewUniforms(p.Sanitized())
	u.SetResolution(w, h)
	return &Field{U: u}
}

type vec2 struct{ x, y float64 }

type vec3 struct{ r, g, b float64 }

func (a vec3) add(b vec3) vec3        { return vec3{a.r + b.r, a.g + b.g, a.b + b.b} }
func (a vec3) scale(s float64) vec3   { return vec3{a.r * s, a.g * s, a.b * s} }
func (a vec3) length() float64        { return math.Sqrt(a.r*a.r + a.g*a.g + a.b*a.b) }
func (a vec2) length() float64        { return math.Hypot(a.x, a.y) }
func (a vec2) sub(b vec2) vec2        { return vec2{a.x - b.x, a.y - b.y} }
func (a vec2) scale(s float64) vec2   { return vec2{a.x * s, a.y * s} }
func (a vec2) addv(b vec2) vec2       { return vec2{a.x + b.x, a.y + b.y} }
func fract(x float64) float64         { return x - math.Floor(x) }
func mix(a, b, t float64) float64     { return a + (b-a)*t }
func clamp(x, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, x)) }

func smoothstep(e0, e1, x float64) float64 {
	t := clamp((x-e0)/(e1-e0), 0, 1)
	return t * t * (3 - 2*t)
}

func normalize(v vec2) vec2 {
	l := v.length()
	if l < 1e-6 {
		return vec2{}
	}
	return vec2{v.x / l, v.y / l}
}

// Hash21 maps a 2D cell coordinate to a stable pseudo-random value in [0, 1).
func Hash21(x, y float64) float64 {
	px := fract(x * 123.34)
	py := fract(y * 456.21)
	d := px*(px+45.32) + py*(py+45.32)
	px += d
	py += d
	return fract(px * py)
}

// CellSeed returns the seed of integer grid cell (ix, iy).
func CellSeed(ix, iy int) float64 {
	return Hash21(float64(ix), float64(iy))
}

func tri(x float64) float64 { return math.Abs(fract(x)*2 - 1) }

func tris(x float64) float64 {
	t := fract(x)
	return 1 - smoothstep(0, 1, math.Abs(2*t-1))
}

func trisn(x float64) float64 { return 2*tris(x) - 1 }

func hsv2rgb(h, s, v float64) vec3 {
	k := [4]float64{1, 2.0 / 3.0, 1.0 / 3.0, 3}
	ch := func(off float64) float64 {
		p := math.Abs(fract(h+off)*6 - k[3])
		return v * mix(k[0], clamp(p-k[0], 0, 1), s)
	}
	return vec3{ch(k[0]), ch(k[1]), ch(k[2])}
}

// star returns the glow of one star at offset uv from its centre.
func (f *Field) star(uv vec2, flare float64) float64 {
	d := math.Max(uv.length(), 1e-4)
	m := 0.08 / d
	rays := smoothstep(0, 1, 1-math.Abs(uv.x*uv.y*1000))
	m += rays * flare * 1.1
	const c = 0.7071
	uv = vec2{c*uv.x - c*uv.y, c*uv.x + c*uv.y}
	rays = smoothstep(0, 1, 1-math.Abs(uv.x*uv.y*1000))
	m += rays * 0.35 * flare
	m *= smoothstep(1, 0.2, d)
	return m * float64(f.U.GlowIntensity)
}

// CellStar describes the star owned by one grid cell.
type CellStar struct {
	Seed  float64
	Size  float64
	Hue   float64 // [0, 1)
	Color [3]float64
}

// Cell returns the star for grid cell (x, y). It depends only on the cell
// coordinates and the static parameters, so it is identical on every frame.
func (f *Field) Cell(x, y float64) CellStar {
	seed := Hash21(x, y)
	size := fract(seed * 345.32)
	hue := fract((float64(f.U.HueShift) + float64(f.U.HueSpread)*seed) / 360)
	c := hsv2rgb(hue, float64(f.U.Saturation), 1)
	return CellStar{Seed: seed, Size: size, Hue: hue, Color: [3]float64{c.r, c.g, c.b}}
}

func (f *Field) layer(uv vec2, t float64) vec3 {
	var col vec3
	gv := vec2{fract(uv.x) - 0.5, fract(uv.y) - 0.5}
	id := vec2{math.Floor(uv.x), math.Floor(uv.y)}
	speed := float64(f.U.Speed)
	for y := -1.0; y <= 1; y++ {
		for x := -1.0; x <= 1; x++ {
			off := vec2{x, y}
			cell := f.Cell(id.x+off.x, id.y+off.y)
			seed, size := cell.Seed, cell.Size

			gloss := tri(float64(f.U.StarSpeed) / (3*seed + 1))
			flare := smoothstep(0.9, 1, size) * gloss

			base := vec3{cell.Color[0], cell.Color[1], cell.Color[2]}
			pad := vec2{
				tris(seed*34+t*speed/10) - 0.5,
				tris(seed*38+t*speed/30) - 0.5,
			}
			s := f.star(gv.sub(off).sub(pad), flare)

			twinkle := trisn(t*speed+seed*6.2831)*0.5 + 1
			s *= mix(1, twinkle, float64(f.U.TwinkleIntensity))
			col = col.add(base.scale(s * size))
		}
	}
	return col
}

// warp applies pointer interaction and rotation to a centred coordinate.
func (f *Field) warp(uv vec2, t float64) vec2 {
	u := &f.U
	res := vec2{float64(u.Resolution[0]), float64(u.Resolution[1])}
	active := float64(u.MouseActive)
	if u.AutoCenterRepulsion > 0 {
		d := uv.length()
		uv = uv.addv(normalize(uv).scale(float64(u.AutoCenterRepulsion) / (d + 0.1) * 0.05 * (1 - active)))
	}
	switch {
	case u.MouseRepulsion:
		focalPx := vec2{float64(u.Focal[0]) * res.x, float64(u.Focal[1]) * res.y}
		mouse := vec2{
			(float64(u.Mouse[0])*res.x - focalPx.x) / res.y,
			(float64(u.Mouse[1])*res.y - focalPx.y) / res.y,
		}
		dir := uv.sub(mouse)
		d := dir.length()
		uv = uv.addv(normalize(dir).scale(float64(u.RepulsionStrength) / (d + 0.1) * 0.05 * active))
	default:
		uv = uv.addv(vec2{float64(u.Mouse[0]) - 0.5, float64(u.Mouse[1]) - 0.5}.scale(0.1 * active))
	}

	a := t * float64(u.RotationSpeed)
	ca, sa := math.Cos(a), math.Sin(a)
	uv = vec2{ca*uv.x + sa*uv.y, -sa*uv.x + ca*uv.y}
	rc, rs := float64(u.Rotation[0]), float64(u.Rotation[1])
	return vec2{rc*uv.x + rs*uv.y, -rs*uv.x + rc*uv.y}
}

// At returns the straight (not premultiplied) color and alpha for the pixel at
// (px, py) in bottom-left origin pixel coordinates.
func (f *Field) At(px, py float64) (r, g, b, a float64) {
	u := &f.U
	res := vec2{float64(u.Resolution[0]), float64(u.Resolution[1])}
	if res.x <= 0 || res.y <= 0 {
		return 0, 0, 0, 0
	}
	t := float64(u.Time)
	uv := vec2{
		(px - float64(u.Focal[0])*res.x) / res.y,
		(py - float64(u.Focal[1])*res.y) / res.y,
	}
	uv = f.warp(uv, t)

	var col vec3
	density := float64(u.Density)
	for i := 0.0; i < 1; i += 1.0 / Layers {
		depth := fract(i + float64(u.StarSpeed)*float64(u.Speed) + t*float64(u.Drift))
		scale := mix(18*density, 0.6*density, depth)
		fade := depth * smoothstep(1, 0.9, depth)
		col = col.add(f.layer(uv.scale(scale).addv(vec2{i * 453.32, i * 453.32}), t).scale(fade))
	}

	a = 1
	if u.Transparent {
		a = math.Min(smoothstep(0, 0.3, col.length()), 1)
	}
	return col.r, col.g, col.b, a
}

// Render evaluates every pixel into an RGBA image (top-left origin),
// splitting rows across goroutines.
func (f *Field) Render(ctx context.Context) (*image.RGBA, error) {
	w, h := int(f.U.Resolution[0]), int(f.U.Resolution[1])
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return img, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for y := 0; y < h; y++ {
		y := y
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			// Pixel centres, flipped to the bottom-left origin of gl_FragCoord.
			fy := float64(h-1-y) + 0.5
			for x := 0; x < w; x++ {
				r, gg, b, a := f.At(float64(x)+0.5, fy)
				img.SetRGBA(x, y, color.RGBA{to8(r * a), to8(gg * a), to8(b * a), to8(a)})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return img, nil
}

func to8(v float64) uint8 {
	return uint8(clamp(v, 0, 1)*255 + 0.5)
}
