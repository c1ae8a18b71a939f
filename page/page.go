// Package page composes the starfield background, the journey gallery and the
// HUD into one window, and owns the input bus, telemetry and hot reload that
// tie them together.
package page

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/trgs-studio/nightreel/config"
	"github.com/trgs-studio/nightreel/gallery"
	"github.com/trgs-studio/nightreel/inspector"
	"github.com/trgs-studio/nightreel/interaction"
	"github.com/trgs-studio/nightreel/journey"
	"github.com/trgs-studio/nightreel/starfield"
	"github.com/trgs-studio/nightreel/surface"
	"github.com/trgs-studio/nightreel/telemetry"
)

// ErrUnloaded is returned by operations on an unloaded page.
var ErrUnloaded = errors.New("page: unloaded")

// Page is the running reel.
type Page struct {
	cfg     *config.Config
	journey *journey.Journey
	host    surface.Host
	dev     surface.Device

	// One bus, two frame loops: the background always ticks before the
	// foreground, whichever was built last.
	bus *interaction.Bus
	bg  *interaction.Runtime
	fg  *interaction.Runtime

	stars  *starfield.Renderer
	reel   *gallery.Gallery
	params starfield.Params

	// Page clock in milliseconds; stops while paused.
	clock  float64
	paused bool

	index int
	phase string

	collector   *telemetry.Collector
	perf        *telemetry.PerfCollector
	output      *telemetry.OutputManager
	logStats    bool
	perfLog     bool
	lastPerfLog float64

	reloads <-chan *config.Config
	subs    interaction.Subscriptions
	input   interaction.Input
	poller  *interaction.Poller
	debug   *inspector.Inspector

	ctx      context.Context
	log      *slog.Logger
	unloaded bool
}

// New builds the page: starfield first, then the gallery over it. On error
// everything already built is released.
func New(opts Options) (*Page, error) {
	p := &Page{
		cfg:      opts.Config,
		journey:  opts.Journey,
		host:     opts.Host,
		dev:      opts.Device,
		input:    opts.Input,
		reloads:  opts.Reloads,
		logStats: opts.LogStats,
		perfLog:  opts.PerfLog,
		ctx:      opts.Context,
		log:      opts.Logger,
	}
	if p.log == nil {
		p.log = slog.Default()
	}
	if p.ctx == nil {
		p.ctx = context.Background()
	}
	if p.cfg == nil {
		cfg, err := config.Load("")
		if err != nil {
			return nil, err
		}
		p.cfg = cfg
	}
	if p.journey == nil {
		j, err := journey.Load(p.cfg.Journey.Path)
		if err != nil {
			return nil, fmt.Errorf("page: %w", err)
		}
		p.journey = j
	}
	if p.host == nil {
		p.host = surface.WindowHost{}
	}
	if p.dev == nil {
		p.dev = surface.NewRaylibDevice()
	}

	p.bus = interaction.NewBus()
	p.bg = &interaction.Runtime{Bus: p.bus, Frames: interaction.NewFrameLoop()}
	p.fg = &interaction.Runtime{Bus: p.bus, Frames: interaction.NewFrameLoop()}
	if p.input == nil {
		p.input = interaction.RaylibInput{}
	}
	p.poller = interaction.NewPoller(p.bus, p.input)

	p.collector = telemetry.NewCollector(p.cfg.Telemetry.PerfLogInterval)
	p.perf = telemetry.NewPerfCollector(p.cfg.Telemetry.PerfCollectorWindow)

	p.params = p.cfg.Starfield.Params()
	stars, err := p.newStarfield(p.params)
	if err != nil {
		return nil, err
	}
	p.stars = stars
	if err := p.buildGallery(); err != nil {
		p.stars.Teardown()
		return nil, err
	}
	p.index = 0
	p.phase = p.phaseName(0)

	w, h := p.host.Size()
	p.debug = inspector.NewInspector("DEBUG [D to close]", int32(w), int32(h))
	p.poller.SetCapture(p.panelHit)
	p.subscribe()

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		p.Unload()
		return nil, fmt.Errorf("page: %w", err)
	}
	p.output = om
	if err := p.output.WriteConfig(p.cfg); err != nil {
		p.log.Error("failed to write config snapshot", "error", err)
	}

	p.log.Info("page ready",
		"moments", p.journey.Len(),
		"phases", len(p.journey.Phases),
		"repulsion", p.params.MouseRepulsion,
		"output", p.output.Dir(),
	)
	return p, nil
}

func (p *Page) newStarfield(params starfield.Params) (*starfield.Renderer, error) {
	stars, err := starfield.Initialize(p.host, p.dev, p.bg, params, starfield.WithLogger(p.log))
	if err != nil {
		return nil, fmt.Errorf("page: %w", err)
	}
	return stars, nil
}

func (p *Page) buildGallery() error {
	gcfg := p.cfg.Gallery.Config()
	gcfg.OnIndexChange = p.onIndexChange
	reel, err := gallery.Initialize(p.host, p.dev, p.fg, p.journey.Flatten(), gcfg,
		gallery.WithLogger(p.log),
		gallery.WithContext(p.ctx),
		gallery.WithWorkers(p.cfg.Gallery.Workers),
		gallery.WithImageObserver(p.onImage),
	)
	if err != nil {
		return fmt.Errorf("page: %w", err)
	}
	p.reel = reel
	return nil
}

// subscribe counts input for telemetry and keeps the debug panel anchored.
func (p *Page) subscribe() {
	p.subs.Add(p.bus.Subscribe(interaction.Wheel, func(ev interaction.Event) {
		p.collector.Record(telemetry.NewInputEvent(telemetry.EventWheel, ev.Time/1000))
	}))
	p.subs.Add(p.bus.Subscribe(interaction.PointerDown, func(ev interaction.Event) {
		p.collector.Record(telemetry.NewInputEvent(telemetry.EventDrag, ev.Time/1000))
	}))
	p.subs.Add(p.bus.Subscribe(interaction.Resize, func(ev interaction.Event) {
		p.collector.Record(telemetry.NewInputEvent(telemetry.EventResize, ev.Time/1000))
		p.debug.Resize(int32(ev.Width), int32(ev.Height))
	}))
}

func (p *Page) onIndexChange(index int) {
	p.index = index
	p.phase = p.phaseName(index)
	p.collector.Record(telemetry.NewSettleEvent(p.clock/1000, index))
	p.log.Debug("moment centred", "index", index, "phase", p.phase)
}

func (p *Page) onImage(src string, err error) {
	typ := telemetry.EventImageLoaded
	if err != nil {
		typ = telemetry.EventImageFailed
	}
	p.collector.Record(telemetry.Event{Type: typ, Time: p.clock / 1000})
}

func (p *Page) phaseName(index int) string {
	ph, ok := p.journey.PhaseAt(index)
	if !ok {
		return ""
	}
	return ph.Name
}

// Step advances the page clock by dt and renders one frame. It is the
// windowless counterpart of Update followed by Draw.
func (p *Page) Step(dt time.Duration) {
	if p.unloaded {
		return
	}
	p.perf.StartFrame()
	p.perf.StartPhase(telemetry.PhaseInput)
	p.advance(dt)
	p.applyReloads()
	p.render()
	p.perf.EndFrame()
	p.flushTelemetry()
}

func (p *Page) advance(dt time.Duration) {
	if p.paused || dt <= 0 {
		return
	}
	p.clock += float64(dt) / float64(time.Millisecond)
}

// render ticks the background loop, then the foreground loop.
func (p *Page) render() {
	p.perf.StartPhase(telemetry.PhaseStarfield)
	p.bg.Frames.Tick(p.clock)
	p.perf.StartPhase(telemetry.PhaseGallery)
	p.fg.Frames.Tick(p.clock)
	p.collector.RecordFrame()
}

// applyReloads rebuilds the starfield from the newest reloaded config, if
// any. Gallery settings are fixed for the lifetime of the page.
func (p *Page) applyReloads() {
	if p.reloads == nil {
		return
	}
	var next *config.Config
drain:
	for {
		select {
		case cfg, ok := <-p.reloads:
			if !ok {
				p.reloads = nil
				break drain
			}
			next = cfg
		default:
			break drain
		}
	}
	if next == nil {
		return
	}
	p.collector.Record(telemetry.Event{Type: telemetry.EventReload, Time: p.clock / 1000})
	if next.Gallery != p.cfg.Gallery {
		p.log.Info("gallery settings changed, restart to apply")
	}
	p.cfg.Starfield = next.Starfield
	p.cfg.Derived.Params = next.Derived.Params
	params := next.Starfield.Params()
	if params == p.params {
		return
	}
	if err := p.rebuildStarfield(params); err != nil {
		p.log.Error("starfield reload failed", "error", err)
		return
	}
	p.log.Info("starfield reloaded", "density", params.Density, "repulsion", params.MouseRepulsion)
}

// rebuildStarfield replaces the background with one built from params.
// The page clock carries over, so the animation continues where it was.
// On failure the running starfield and its params are kept.
func (p *Page) rebuildStarfield(params starfield.Params) error {
	stars, err := p.newStarfield(params)
	if err != nil {
		return err
	}
	p.stars.Teardown()
	p.stars = stars
	p.params = params
	return nil
}

// ToggleRepulsion switches the pointer between repulsion and parallax.
func (p *Page) ToggleRepulsion() error {
	if p.unloaded {
		return ErrUnloaded
	}
	next := p.params
	next.MouseRepulsion = !next.MouseRepulsion
	return p.rebuildStarfield(next)
}

// TogglePause stops or resumes the page clock and returns the new state.
func (p *Page) TogglePause() bool {
	p.paused = !p.paused
	return p.paused
}

// Nudge scrolls the reel by dir whole tiles from its current target.
func (p *Page) Nudge(dir int) {
	s := p.reel.Scroller()
	stride := s.Stride()
	if stride <= 0 || dir == 0 {
		return
	}
	slot := math.Round(s.Target/stride) + float64(dir)
	s.ScrollTo(slot*stride, p.clock)
}

// Publish feeds an input event into the page, stamped with the page clock.
func (p *Page) Publish(ev interaction.Event) {
	ev.Time = p.clock
	p.bus.Publish(ev)
}

// flushTelemetry closes the stats window when it is due.
func (p *Page) flushTelemetry() {
	nowSec := p.clock / 1000
	if p.perfLog && nowSec-p.lastPerfLog >= p.cfg.Telemetry.PerfLogInterval {
		p.lastPerfLog = nowSec
		p.logPerf()
	}
	if !p.collector.ShouldFlush(nowSec) {
		return
	}

	stats := p.collector.Flush(nowSec, p.index, p.phase)
	perfStats := p.perf.Stats()

	if p.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if p.output != nil {
		if err := p.output.WriteTelemetry(stats); err != nil {
			p.log.Error("failed to write telemetry", "error", err)
		}
		if err := p.output.WritePerf(perfStats, stats.WindowEndSec); err != nil {
			p.log.Error("failed to write perf", "error", err)
		}
	}
}

// Unload tears down both renderers and closes the telemetry output. Safe to
// call more than once.
func (p *Page) Unload() {
	if p == nil || p.unloaded {
		return
	}
	p.unloaded = true
	p.subs.Release()
	p.reel.Teardown()
	p.stars.Teardown()
	if err := p.output.Close(); err != nil {
		p.log.Error("failed to close telemetry output", "error", err)
	}
	p.log.Info("page unloaded", "clock_s", p.clock/1000)
}

// Clock returns the page time in milliseconds.
func (p *Page) Clock() float64 { return p.clock }

// Paused reports whether the page clock is stopped.
func (p *Page) Paused() bool { return p.paused }

// Index returns the last settled moment.
func (p *Page) Index() int { return p.index }

// Phase returns the journey phase of the last settled moment.
func (p *Page) Phase() string { return p.phase }

// Params returns the current starfield parameters.
func (p *Page) Params() starfield.Params { return p.params }

// Starfield returns the background renderer.
func (p *Page) Starfield() *starfield.Renderer { return p.stars }

// Gallery returns the foreground renderer.
func (p *Page) Gallery() *gallery.Gallery { return p.reel }

// Journey returns the reel content.
func (p *Page) Journey() *journey.Journey { return p.journey }

// Idle reports whether nothing is attached to the bus or either frame loop.
func (p *Page) Idle() bool {
	return p.bus.Listeners() == 0 && p.bg.Frames.Pending() == 0 && p.fg.Frames.Pending() == 0
}
