package starfield

import "math"

// Uniforms is the full per-frame input of the fragment program.
type Uniforms struct {
	Time       float32
	Resolution [3]float32 // width, height, aspect
	Focal      [2]float32
	Rotation   [2]float32 // cos, sin of the static rotation
	Mouse      [2]float32 // smoothed pointer in [0,1]^2, y up
	// MouseActive is the smoothed pointer activity in [0, 1].
	MouseActive float32

	StarSpeed           float32
	Density             float32
	HueShift            float32
	HueSpread           float32
	Speed               float32
	GlowIntensity       float32
	Saturation          float32
	TwinkleIntensity    float32
	RotationSpeed       float32
	RepulsionStrength   float32
	AutoCenterRepulsion float32
	Drift               float32

	MouseRepulsion bool
	Transparent    bool
}

// NewUniforms builds the static part of the uniform bundle from p.
func NewUniforms(p Params) Uniforms {
	rad := p.RotationDeg * math.Pi / 180
	return Uniforms{
		Focal:               [2]float32{float32(p.Focal[0]), float32(p.Focal[1])},
		Rotation:            [2]float32{float32(math.Cos(rad)), float32(math.Sin(rad))},
		Mouse:               [2]float32{0.5, 0.5},
		StarSpeed:           float32(p.StarSpeed),
		Density:             float32(p.Density),
		HueShift:            float32(p.HueShift),
		HueSpread:           float32(p.HueSpread),
		Speed:               float32(p.Speed),
		GlowIntensity:       float32(p.GlowIntensity),
		Saturation:          float32(p.Saturation),
		TwinkleIntensity:    float32(p.TwinkleIntensity),
		RotationSpeed:       float32(p.RotationSpeed),
		RepulsionStrength:   float32(p.RepulsionStrength),
		AutoCenterRepulsion: float32(p.AutoCenterRepulsion),
		Drift:               float32(p.Drift),
		MouseRepulsion:      p.MouseRepulsion,
		Transparent:         p.Transparent,
	}
}

// SetResolution updates the resolution uniform.
func (u *Uniforms) SetResolution(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	u.Resolution = [3]float32{float32(w), float32(h), float32(w) / float32(h)}
}

func boolf(b bool) float32 {
	if b {
		return 1
	}
	return 0
}
