// Package starfield renders an animated multi-layer star field: a GPU
// fragment program driven by a time uniform and a small immutable parameter
// set, plus a CPU evaluation of the same program for previews, exports and
// tests.
package starfield

import (
	"errors"
	"fmt"
	"math"
)

// Params configures a starfield. It is fixed at construction; changing the
// look means building a new renderer.
type Params struct {
	Density float64 // star grid density, > 0
	// HueShift and HueShift+HueSpread are the two anchor hues (degrees) star
	// colors are blended between.
	HueShift            float64
	HueSpread           float64
	Speed               float64 // global animation speed
	StarSpeed           float64 // layer depth phase
	GlowIntensity       float64 // star brightness multiplier, >= 0
	Saturation          float64 // [0, 1]
	TwinkleIntensity    float64 // [0, 1]
	RotationSpeed       float64 // radians per second of auto rotation
	RotationDeg         float64 // static rotation of the field
	RepulsionStrength   float64 // pointer repulsion force
	AutoCenterRepulsion float64 // repulsion from the centre while the pointer is idle
	Drift               float64 // forward travel through the layers per second
	Focal               [2]float64

	MouseInteraction bool
	// MouseRepulsion selects repulsion (true) or parallax offset (false).
	MouseRepulsion bool
	// Transparent composites over the page instead of replacing it.
	Transparent bool

	PointerSmoothing  float64 // per-frame smoothing factor, (0, 1]
	ActivitySmoothing float64 // per-frame smoothing factor, (0, 1]
}

// DefaultParams returns the hero background look.
func DefaultParams() Params {
	return Params{
		Density:             1.6,
		HueShift:            220,
		HueSpread:           360,
		Speed:               1.0,
		StarSpeed:           0.7,
		GlowIntensity:       1.0,
		Saturation:          0.9,
		TwinkleIntensity:    0.45,
		RotationSpeed:       0.06,
		RepulsionStrength:   2.0,
		AutoCenterRepulsion: 0,
		Drift:               0,
		Focal:               [2]float64{0.5, 0.5},
		MouseInteraction:    true,
		MouseRepulsion:      false,
		Transparent:         false,
		PointerSmoothing:    0.05,
		ActivitySmoothing:   0.05,
	}
}

type bound struct {
	name     string
	v        *float64
	def      float64
	min, max float64
	// open makes min exclusive.
	open bool
}

func (p *Params) bounds() []bound {
	d := DefaultParams()
	return []bound{
		{"density", &p.Density, d.Density, 0, 10, true},
		{"hue_shift", &p.HueShift, d.HueShift, -360, 720, false},
		{"hue_spread", &p.HueSpread, d.HueSpread, 0, 360, false},
		{"speed", &p.Speed, d.Speed, 0, 20, false},
		{"star_speed", &p.StarSpeed, d.StarSpeed, -100, 100, false},
		{"glow_intensity", &p.GlowIntensity, d.GlowIntensity, 0, 10, false},
		{"saturation", &p.Saturation, d.Saturation, 0, 1, false},
		{"twinkle_intensity", &p.TwinkleIntensity, d.TwinkleIntensity, 0, 1, false},
		{"rotation_speed", &p.RotationSpeed, d.RotationSpeed, -10, 10, false},
		{"rotation_deg", &p.RotationDeg, d.RotationDeg, -360, 360, false},
		{"repulsion_strength", &p.RepulsionStrength, d.RepulsionStrength, 0, 10, false},
		{"auto_center_repulsion", &p.AutoCenterRepulsion, d.AutoCenterRepulsion, 0, 10, false},
		{"drift", &p.Drift, d.Drift, -10, 10, false},
		{"focal_x", &p.Focal[0], d.Focal[0], 0, 1, false},
		{"focal_y", &p.Focal[1], d.Focal[1], 0, 1, false},
		{"pointer_smoothing", &p.PointerSmoothing, d.PointerSmoothing, 0, 1, true},
		{"activity_smoothing", &p.ActivitySmoothing, d.ActivitySmoothing, 0, 1, true},
	}
}

func (b bound) ok() bool {
	v := *b.v
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	if b.open {
		return v > b.min && v <= b.max
	}
	return v >= b.min && v <= b.max
}

// Validate reports every field outside its documented range.
func (p Params) Validate() error {
	var errs []error
	for _, b := range p.bounds() {
		if !b.ok() {
			errs = append(errs, fmt.Errorf("%s=%v outside [%v, %v]", b.name, *b.v, b.min, b.max))
		}
	}
	return errors.Join(errs...)
}

// Sanitized returns a copy safe to feed the render loop: non-finite values
// fall back to defaults and the rest are clamped into range.
func (p Params) Sanitized() Params {
	out := p
	for _, b := range out.bounds() {
		v := *b.v
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0):
			*b.v = b.def
		case b.open && v <= b.min:
			*b.v = b.def
		case v < b.min:
			*b.v = b.min
		case v > b.max:
			*b.v = b.max
		}
	}
	return out
}
