package starfield

import (
	_ "embed"
	"fmt"
	"image/color"
	"log/slog"

	"github.com/trgs-studio/nightreel/interaction"
	"github.com/trgs-studio/nightreel/surface"
)

//go:embed shaders/starfield.fs
var fragmentSource string

// Option customizes a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger used for lifecycle messages.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.log = l
		}
	}
}

// Renderer draws the star field into a host surface every frame until it is
// torn down.
type Renderer struct {
	surf   *surface.Surface
	shader surface.Shader
	rt     *interaction.Runtime

	params   Params
	u        Uniforms
	pointer  *interaction.PointerTracker
	detach   func()
	observer *interaction.ResizeObserver

	raf    int
	frames uint64
	torn   bool
	log    *slog.Logger
}

// Initialize attaches a star field to host and schedules its first frame on
// rt. Parameters are sanitized; out-of-range values are logged and clamped.
// On error nothing stays attached.
func Initialize(host surface.Host, dev surface.Device, rt *interaction.Runtime, p Params, opts ...Option) (*Renderer, error) {
	if rt == nil {
		return nil, interaction.ErrNoRuntime
	}
	r := &Renderer{rt: rt, log: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	if err := p.Validate(); err != nil {
		r.log.Warn("starfield params out of range, clamping", "error", err)
	}
	r.params = p.Sanitized()

	surf, err := surface.New(host, dev)
	if err != nil {
		return nil, fmt.Errorf("starfield: %w", err)
	}
	shader, err := surf.Shader(surface.VertexShader, fragmentSource)
	if err != nil {
		surf.Close()
		return nil, fmt.Errorf("starfield: %w", err)
	}
	r.surf = surf
	r.shader = shader

	w, h := surf.Size()
	r.u = NewUniforms(r.params)
	r.u.SetResolution(w, h)
	r.uploadStatic()

	if r.params.MouseInteraction {
		r.pointer = interaction.NewPointerTracker(float32(r.params.PointerSmoothing), float32(r.params.ActivitySmoothing))
		r.pointer.SetBounds(w, h)
		r.detach = r.pointer.Attach(rt.Bus)
	}
	r.observer = interaction.NewResizeObserver(host, rt.Bus, r.Resize)
	r.raf = rt.Frames.Request(r.tick)

	r.log.Info("starfield attached", "width", w, "height", h, "transparent", r.params.Transparent)
	return r, nil
}

func (r *Renderer) tick(ts float64) {
	if r.torn {
		return
	}
	r.raf = r.rt.Frames.Request(r.tick)
	r.Frame(ts)
}

// Frame renders one frame at timestamp ts (milliseconds). Time never runs
// backwards even if ts does.
func (r *Renderer) Frame(ts float64) {
	if r == nil || r.torn {
		return
	}
	r.observer.Check()

	if t := float32(ts * 0.001); t > r.u.Time {
		r.u.Time = t
	}
	if r.pointer != nil {
		r.pointer.Step()
		r.u.Mouse = r.pointer.Smoothed
		r.u.MouseActive = r.pointer.Active
	}

	dev := r.surf.Device()
	dev.SetFloats(r.shader, "uTime", r.u.Time)
	dev.SetFloats(r.shader, "uMouse", r.u.Mouse[0], r.u.Mouse[1])
	dev.SetFloats(r.shader, "uMouseActiveFactor", r.u.MouseActive)

	if !r.params.Transparent {
		dev.Clear(color.RGBA{A: 255})
	}
	w, h := r.surf.Size()
	dev.DrawFullscreen(r.shader, w, h)
	r.frames++
}

// Resize updates the drawing buffer and resolution uniform. Elapsed time and
// pointer state are kept.
func (r *Renderer) Resize(w, h int) {
	if r == nil || r.torn || w <= 0 || h <= 0 {
		return
	}
	r.surf.SetSize(w, h)
	r.u.SetResolution(w, h)
	if r.pointer != nil {
		r.pointer.SetBounds(w, h)
	}
	r.surf.Device().SetFloats(r.shader, "uResolution", r.u.Resolution[:]...)
	r.log.Debug("starfield resized", "width", w, "height", h)
}

// Teardown cancels the pending frame, detaches every listener and releases
// the GPU resources. It is safe to call more than once.
func (r *Renderer) Teardown() {
	if r == nil || r.torn {
		return
	}
	r.torn = true
	r.rt.Frames.Cancel(r.raf)
	if r.detach != nil {
		r.detach()
	}
	r.observer.Stop()
	r.surf.Close()
	r.log.Info("starfield detached", "frames", r.frames)
}

// Uniforms returns the uniform values of the most recent frame.
func (r *Renderer) Uniforms() Uniforms { return r.u }

// Params returns the sanitized parameters the renderer was built with.
func (r *Renderer) Params() Params { return r.params }

// Frames returns the number of frames drawn.
func (r *Renderer) Frames() uint64 { return r.frames }

// Field returns a CPU evaluator for the current frame state.
func (r *Renderer) Field() *Field { return &Field{U: r.u} }

func (r *Renderer) uploadStatic() {
	dev := r.surf.Device()
	s, u := r.shader, r.u
	dev.SetFloats(s, "uResolution", u.Resolution[:]...)
	dev.SetFloats(s, "uFocal", u.Focal[:]...)
	dev.SetFloats(s, "uRotation", u.Rotation[:]...)
	dev.SetFloats(s, "uStarSpeed", u.StarSpeed)
	dev.SetFloats(s, "uDensity", u.Density)
	dev.SetFloats(s, "uHueShift", u.HueShift)
	dev.SetFloats(s, "uHueSpread", u.HueSpread)
	dev.SetFloats(s, "uSpeed", u.Speed)
	dev.SetFloats(s, "uGlowIntensity", u.GlowIntensity)
	dev.SetFloats(s, "uSaturation", u.Saturation)
	dev.SetFloats(s, "uMouseRepulsion", boolf(u.MouseRepulsion))
	dev.SetFloats(s, "uTwinkleIntensity", u.TwinkleIntensity)
	dev.SetFloats(s, "uRotationSpeed", u.RotationSpeed)
	dev.SetFloats(s, "uRepulsionStrength", u.RepulsionStrength)
	dev.SetFloats(s, "uAutoCenterRepulsion", u.AutoCenterRepulsion)
	dev.SetFloats(s, "uDrift", u.Drift)
	dev.SetFloats(s, "uTransparent", boolf(u.Transparent))
	dev.SetFloats(s, "uTime", u.Time)
	dev.SetFloats(s, "uMouse", u.Mouse[:]...)
	dev.SetFloats(s, "uMouseActiveFactor", u.MouseActive)
}
