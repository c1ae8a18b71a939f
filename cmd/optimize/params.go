package main

import (
	"github.com/trgs-studio/nightreel/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
// Defaults follow the embedded config.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "density", Path: "starfield.density", Min: 0.5, Max: 4.0, Default: 1.6},
			{Name: "glow_intensity", Path: "starfield.glow_intensity", Min: 0.2, Max: 3.0, Default: 1.0},
			{Name: "twinkle_intensity", Path: "starfield.twinkle_intensity", Min: 0.0, Max: 1.0, Default: 0.45},
			{Name: "saturation", Path: "starfield.saturation", Min: 0.0, Max: 1.0, Default: 0.9},
			{Name: "star_speed", Path: "starfield.star_speed", Min: 0.1, Max: 2.0, Default: 0.7},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into the starfield section.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	sf := &cfg.Starfield
	sf.Density = clamped[0]
	sf.GlowIntensity = clamped[1]
	sf.TwinkleIntensity = clamped[2]
	sf.Saturation = clamped[3]
	sf.StarSpeed = clamped[4]
	cfg.Derived.Params = sf.Params()
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	sf := cfg.Starfield
	return []float64{
		sf.Density,
		sf.GlowIntensity,
		sf.TwinkleIntensity,
		sf.Saturation,
		sf.StarSpeed,
	}
}
