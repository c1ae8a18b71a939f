package gallery

import (
	"context"
	_ "embed"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/trgs-studio/nightreel/camera"
	"github.com/trgs-studio/nightreel/interaction"
	"github.com/trgs-studio/nightreel/surface"
)

//go:embed shaders/tile.fs
var tileFragment string

// Option customizes a Gallery.
type Option func(*Gallery)

// WithLogger sets the logger used for lifecycle and asset messages.
func WithLogger(l *slog.Logger) Option {
	return func(g *Gallery) {
		if l != nil {
			g.log = l
		}
	}
}

// WithContext sets the parent context of background image loads.
func WithContext(ctx context.Context) Option {
	return func(g *Gallery) {
		if ctx != nil {
			g.ctx = ctx
		}
	}
}

// WithWorkers limits concurrent image decodes.
func WithWorkers(n int) Option {
	return func(g *Gallery) { g.workers = n }
}

// WithImageObserver registers fn to be told, on the frame thread, when each
// image source finishes loading. err is nil on success.
func WithImageObserver(fn func(src string, err error)) Option {
	return func(g *Gallery) { g.onImage = fn }
}

// imageSlot is the texture a group of tiles samples. It is written only by
// the frame thread when a load completes.
type imageSlot struct {
	tex    surface.Texture
	w, h   int
	loaded bool
	failed bool
}

type captionSlot struct {
	tex  surface.Texture
	w, h int
}

var (
	// placeholderColor fills tiles until their image arrives.
	placeholderColor = color.RGBA{R: 0x1a, G: 0x1c, B: 0x24, A: 0xff}
	white            = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// Gallery is a curved, endlessly wrapping filmstrip renderer.
type Gallery struct {
	surf   *surface.Surface
	shader surface.Shader
	rt     *interaction.Runtime

	cfg    Config
	items  []Item
	cam    *camera.Camera
	layout Layout
	strip  *strip
	scroll *Scroller

	loader      *Loader
	captioner   *Captioner
	images      map[string]*imageSlot
	captions    []captionSlot
	placeholder surface.Texture

	subs     interaction.Subscriptions
	observer *interaction.ResizeObserver
	raf      int
	torn     bool

	ctx     context.Context
	workers int
	onImage func(src string, err error)
	log     *slog.Logger
}

// Initialize attaches a gallery of items to host and schedules its first
// frame on rt. Images load in the background; tiles show a placeholder until
// theirs arrives. On error nothing stays attached.
func Initialize(host surface.Host, dev surface.Device, rt *interaction.Runtime, items []Item, cfg Config, opts ...Option) (*Gallery, error) {
	if rt == nil {
		return nil, interaction.ErrNoRuntime
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	g := &Gallery{
		rt:      rt,
		cfg:     cfg.sanitized(),
		items:   append([]Item(nil), items...),
		images:  make(map[string]*imageSlot),
		ctx:     context.Background(),
		workers: 4,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}

	surf, err := surface.New(host, dev)
	if err != nil {
		return nil, fmt.Errorf("gallery: %w", err)
	}
	g.surf = surf
	if err := g.acquire(); err != nil {
		g.release()
		return nil, fmt.Errorf("gallery: %w", err)
	}

	w, h := surf.Size()
	g.cam = camera.New(float32(w), float32(h))
	g.layout = NewLayout(g.cam)
	g.strip = newStrip(g.items, g.layout, g.cfg.Bend)
	g.scroll = NewScroller(g.cfg, g.layout.Stride, len(g.items))

	g.loader = NewLoader(g.ctx, g.workers)
	for _, it := range g.items {
		if it.Image == "" {
			continue
		}
		if _, ok := g.images[it.Image]; ok {
			continue
		}
		g.images[it.Image] = &imageSlot{tex: g.placeholder, w: 1, h: 1}
		g.loader.Load(it.Image)
	}

	g.subs.Add(rt.Bus.Subscribe(interaction.Wheel, func(ev interaction.Event) {
		g.scroll.Wheel(float64(ev.DeltaY), ev.Time)
	}))
	g.subs.Add(rt.Bus.Subscribe(interaction.PointerDown, func(ev interaction.Event) {
		g.scroll.PointerDown(float64(ev.X))
	}))
	g.subs.Add(rt.Bus.Subscribe(interaction.PointerMove, func(ev interaction.Event) {
		g.scroll.PointerMove(float64(ev.X))
	}))
	g.subs.Add(rt.Bus.Subscribe(interaction.PointerUp, func(interaction.Event) {
		g.scroll.PointerUp()
	}))
	g.observer = interaction.NewResizeObserver(host, rt.Bus, g.Resize)
	g.raf = rt.Frames.Request(g.tick)

	g.log.Info("gallery attached", "items", len(g.items), "tiles", g.strip.count, "images", len(g.images))
	return g, nil
}

// acquire creates the GPU resources: the tile program, the placeholder
// texture and one caption texture per item.
func (g *Gallery) acquire() error {
	shader, err := g.surf.Shader(surface.VertexShader, tileFragment)
	if err != nil {
		return err
	}
	g.shader = shader

	ph := image.NewRGBA(image.Rect(0, 0, 1, 1))
	ph.SetRGBA(0, 0, placeholderColor)
	if g.placeholder, err = g.surf.Texture(ph); err != nil {
		return err
	}

	g.captioner, err = NewCaptioner(g.cfg.Font, g.cfg.TextColor)
	if err != nil {
		g.log.Warn("caption font unusable, using default", "font", g.cfg.Font, "error", err)
		if g.captioner, err = NewCaptioner(DefaultConfig().Font, g.cfg.TextColor); err != nil {
			return err
		}
	}
	g.captions = make([]captionSlot, len(g.items))
	for i, it := range g.items {
		if it.Text == "" {
			continue
		}
		img, err := g.captioner.Rasterize(it.Text)
		if err != nil {
			g.log.Warn("caption rasterize failed", "item", i, "error", err)
			continue
		}
		tex, err := g.surf.Texture(img)
		if err != nil {
			g.log.Warn("caption upload failed", "item", i, "error", err)
			continue
		}
		b := img.Bounds()
		g.captions[i] = captionSlot{tex: tex, w: b.Dx(), h: b.Dy()}
	}
	return nil
}

func (g *Gallery) release() {
	if g.loader != nil {
		g.loader.Close()
	}
	if g.captioner != nil {
		g.captioner.Close()
	}
	g.surf.Close()
}

func (g *Gallery) tick(ts float64) {
	if g.torn {
		return
	}
	g.raf = g.rt.Frames.Request(g.tick)
	g.Frame(ts)
}

// Frame advances scrolling by one step at timestamp ts (milliseconds) and
// draws every visible tile.
func (g *Gallery) Frame(ts float64) {
	if g == nil || g.torn {
		return
	}
	g.observer.Check()
	g.collectImages()

	m := g.scroll.Step(ts)
	g.strip.update(m)
	if m.Changed {
		g.log.Debug("gallery settled", "index", m.Index)
		if g.cfg.OnIndexChange != nil {
			g.cfg.OnIndexChange(m.Index)
		}
	}
	g.draw()
}

// collectImages uploads finished loads into their texture slots. A failed
// load keeps whatever the slot already shows.
func (g *Gallery) collectImages() {
	for _, r := range g.loader.Drain() {
		slot, ok := g.images[r.Source]
		if !ok {
			continue
		}
		if r.Err != nil {
			slot.failed = true
			g.log.Warn("gallery image failed", "source", r.Source, "error", r.Err)
			g.notifyImage(r.Source, r.Err)
			continue
		}
		tex, err := g.surf.Texture(r.Image)
		if err != nil {
			slot.failed = true
			g.log.Warn("gallery image upload failed", "source", r.Source, "error", err)
			g.notifyImage(r.Source, err)
			continue
		}
		old := slot.tex
		b := r.Image.Bounds()
		slot.tex, slot.w, slot.h = tex, b.Dx(), b.Dy()
		slot.loaded = true
		if old != g.placeholder {
			g.surf.ReleaseTexture(old)
		}
		g.notifyImage(r.Source, nil)
	}
}

func (g *Gallery) notifyImage(src string, err error) {
	if g.onImage != nil {
		g.onImage(src, err)
	}
}

func (g *Gallery) draw() {
	dev := g.surf.Device()
	l := g.layout
	ppu := g.cam.PixelsPerUnit()
	br := float32(g.cfg.BorderRadius)

	q := g.strip.filter.Query()
	for q.Next() {
		place, pose, media := q.Get()
		if !g.cam.IsVisible(float32(pose.X), float32(l.TileW)) {
			continue
		}
		sx, sy, ok := g.cam.WorldToScreen(mgl32.Vec3{float32(pose.X), float32(pose.Y), float32(pose.Z)})
		if !ok {
			continue
		}
		persp := g.cam.Z / (g.cam.Z - float32(pose.Z))
		pw := float32(l.TileW) * ppu * persp
		ph := float32(l.TileH) * ppu * persp

		tex, iw, ih := g.placeholder, 1, 1
		if slot, ok := g.images[media.Source]; ok {
			tex, iw, ih = slot.tex, slot.w, slot.h
		}
		dev.SetFloats(g.shader, "uImageSizes", float32(iw), float32(ih))
		dev.SetFloats(g.shader, "uPlaneSizes", float32(l.TileW), float32(l.TileH))
		dev.SetFloats(g.shader, "uBorderRadius", br)
		dev.DrawQuad(tex, g.shader, surface.Quad{
			CenterX: sx, CenterY: sy, Width: pw, Height: ph,
			Rotation: float32(pose.RotZ),
			Tint:     white,
		})

		g.drawCaption(place.Item, pose, ppu)
	}
}

// drawCaption places the item's caption below its tile, turning with it.
func (g *Gallery) drawCaption(item int, pose *Pose, ppu float32) {
	c := g.captions[item]
	if c.tex == 0 || c.h == 0 {
		return
	}
	l := g.layout
	capH := l.TileH * 0.16
	capW := capH * float64(c.w) / float64(c.h)
	dy := -l.TileH*0.5 - capH*0.6 - 0.04
	sin, cos := math.Sincos(pose.RotZ)
	wx := pose.X - sin*dy
	wy := pose.Y + cos*dy

	sx, sy, ok := g.cam.WorldToScreen(mgl32.Vec3{float32(wx), float32(wy), 0})
	if !ok {
		return
	}
	g.surf.Device().DrawQuad(c.tex, 0, surface.Quad{
		CenterX: sx, CenterY: sy,
		Width: float32(capW) * ppu, Height: float32(capH) * ppu,
		Rotation: float32(pose.RotZ),
		Tint:     white,
	})
}

// Resize recomputes tile geometry for a new host size. The centred tile stays
// centred.
func (g *Gallery) Resize(w, h int) {
	if g == nil || g.torn || w <= 0 || h <= 0 {
		return
	}
	g.surf.SetSize(w, h)
	g.cam.Resize(float32(w), float32(h))
	g.layout = NewLayout(g.cam)
	g.scroll.SetStride(g.layout.Stride)
	g.strip.resize(g.layout, g.scroll.Current)
	g.log.Debug("gallery resized", "width", w, "height", h, "tiles", g.strip.count)
}

// Teardown cancels the pending frame, detaches every listener, stops image
// loads and releases the GPU resources. Safe to call more than once.
func (g *Gallery) Teardown() {
	if g == nil || g.torn {
		return
	}
	g.torn = true
	g.rt.Frames.Cancel(g.raf)
	g.subs.Release()
	g.observer.Stop()
	g.release()
	g.log.Info("gallery detached")
}

// CenterIndex returns the logical item nearest the centre.
func (g *Gallery) CenterIndex() int { return g.scroll.CenterIndex() }

// Scroller exposes the scroll state, for keyboard navigation and tests.
func (g *Gallery) Scroller() *Scroller { return g.scroll }

// Layout returns the current tile geometry.
func (g *Gallery) Layout() Layout { return g.layout }

// Items returns the caller's items.
func (g *Gallery) Items() []Item { return g.items }

// Tiles returns a snapshot of every tile in slot order.
func (g *Gallery) Tiles() []TileView { return g.strip.snapshot() }

// ImageState reports whether src has loaded or failed.
func (g *Gallery) ImageState(src string) (loaded, failed bool) {
	slot, ok := g.images[src]
	if !ok {
		return false, false
	}
	return slot.loaded, slot.failed
}

// WaitForImages blocks until every pending load has finished. The results
// are picked up by the next frame.
func (g *Gallery) WaitForImages() {
	if g.loader != nil {
		g.loader.Wait()
	}
}
