// Package config provides configuration loading and access for the reel.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/trgs-studio/nightreel/gallery"
	"github.com/trgs-studio/nightreel/starfield"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Starfield StarfieldConfig `yaml:"starfield"`
	Gallery   GalleryConfig   `yaml:"gallery"`
	Journey   JourneyConfig   `yaml:"journey"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	TargetFPS  int    `yaml:"target_fps"`
	Title      string `yaml:"title"`
	Fullscreen bool   `yaml:"fullscreen"`
}

// StarfieldConfig holds the background starfield parameters.
type StarfieldConfig struct {
	Density             float64    `yaml:"density"`
	HueShift            float64    `yaml:"hue_shift"`  // Degrees
	HueSpread           float64    `yaml:"hue_spread"` // Degrees of hue variation around hue_shift
	Speed               float64    `yaml:"speed"`
	StarSpeed           float64    `yaml:"star_speed"`
	GlowIntensity       float64    `yaml:"glow_intensity"`
	Saturation          float64    `yaml:"saturation"`
	TwinkleIntensity    float64    `yaml:"twinkle_intensity"`
	RotationSpeed       float64    `yaml:"rotation_speed"`
	RotationDeg         float64    `yaml:"rotation_deg"`
	RepulsionStrength   float64    `yaml:"repulsion_strength"`
	AutoCenterRepulsion float64    `yaml:"auto_center_repulsion"`
	Drift               float64    `yaml:"drift"`
	Focal               [2]float64 `yaml:"focal"` // Fraction of the surface, 0.5 is centred
	MouseInteraction    bool       `yaml:"mouse_interaction"`
	MouseRepulsion      bool       `yaml:"mouse_repulsion"` // false = parallax
	Transparent         bool       `yaml:"transparent"`
	PointerSmoothing    float64    `yaml:"pointer_smoothing"`
	ActivitySmoothing   float64    `yaml:"activity_smoothing"`
}

// GalleryConfig holds the filmstrip settings.
type GalleryConfig struct {
	Bend         float64       `yaml:"bend"`
	TextColor    string        `yaml:"text_color"`
	BorderRadius float64       `yaml:"border_radius"`
	Font         string        `yaml:"font"`
	ScrollSpeed  float64       `yaml:"scroll_speed"`
	ScrollEase   float64       `yaml:"scroll_ease"`
	SnapDelay    time.Duration `yaml:"snap_delay"`
	Workers      int           `yaml:"workers"` // Concurrent image decodes
}

// JourneyConfig points at the reel content.
type JourneyConfig struct {
	Path string `yaml:"path"` // YAML document of phases (empty = built-in sample)
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
	PerfLogInterval     float64 `yaml:"perf_log_interval"` // Seconds between perf log lines and CSV rows
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	// Window size for rl.InitWindow; non-positive screen sizes fall back
	// to 1280x720.
	WindowW, WindowH int32
	Params           starfield.Params
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.WindowW, c.Derived.WindowH = 1280, 720
	if c.Screen.Width > 0 && c.Screen.Height > 0 {
		c.Derived.WindowW, c.Derived.WindowH = int32(c.Screen.Width), int32(c.Screen.Height)
	}
	c.Derived.Params = c.Starfield.Params()

	if c.Telemetry.PerfCollectorWindow < 1 {
		c.Telemetry.PerfCollectorWindow = 60
	}
	if c.Telemetry.PerfLogInterval <= 0 {
		c.Telemetry.PerfLogInterval = 5
	}
}

// Params converts the section into starfield parameters. Values are passed
// through unchecked; the renderer sanitizes them.
func (s StarfieldConfig) Params() starfield.Params {
	return starfield.Params{
		Density:             s.Density,
		HueShift:            s.HueShift,
		HueSpread:           s.HueSpread,
		Speed:               s.Speed,
		StarSpeed:           s.StarSpeed,
		GlowIntensity:       s.GlowIntensity,
		Saturation:          s.Saturation,
		TwinkleIntensity:    s.TwinkleIntensity,
		RotationSpeed:       s.RotationSpeed,
		RotationDeg:         s.RotationDeg,
		RepulsionStrength:   s.RepulsionStrength,
		AutoCenterRepulsion: s.AutoCenterRepulsion,
		Drift:               s.Drift,
		Focal:               s.Focal,
		MouseInteraction:    s.MouseInteraction,
		MouseRepulsion:      s.MouseRepulsion,
		Transparent:         s.Transparent,
		PointerSmoothing:    s.PointerSmoothing,
		ActivitySmoothing:   s.ActivitySmoothing,
	}
}

// Config converts the section into a gallery configuration without an
// index callback.
func (g GalleryConfig) Config() gallery.Config {
	return gallery.Config{
		Bend:         g.Bend,
		TextColor:    g.TextColor,
		BorderRadius: g.BorderRadius,
		Font:         g.Font,
		ScrollSpeed:  g.ScrollSpeed,
		ScrollEase:   g.ScrollEase,
		SnapDelay:    g.SnapDelay,
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
