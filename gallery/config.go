// Package gallery renders an endlessly wrapping, optionally curved filmstrip
// of images with captions, driven by wheel and drag input, that snaps to the
// nearest tile and reports which item is centred.
package gallery

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrNoItems is returned when a gallery is initialized without items.
var ErrNoItems = errors.New("gallery: no items")

// Item is one entry of the filmstrip.
type Item struct {
	Image string `yaml:"image"`
	Text  string `yaml:"text"`
	Alt   string `yaml:"alt,omitempty"`
}

// Config controls the look and feel of a gallery. It is fixed at
// construction.
type Config struct {
	// Bend is the curvature of the rail in world units. 0 is a flat strip;
	// negative values curve the other way.
	Bend         float64
	TextColor    string
	BorderRadius float64 // corner rounding in UV units, 0 is square
	Font         string  // CSS-like "bold 26px system-ui"
	ScrollSpeed  float64
	ScrollEase   float64
	// SnapDelay debounces snapping after the last wheel event.
	SnapDelay time.Duration
	// OnIndexChange is called once per settle on a new centred item.
	OnIndexChange func(index int)
}

// DefaultConfig returns the journey reel defaults.
func DefaultConfig() Config {
	return Config{
		Bend:         3,
		TextColor:    "#ffffff",
		BorderRadius: 0.05,
		Font:         "bold 26px system-ui",
		ScrollSpeed:  2,
		ScrollEase:   0.05,
		SnapDelay:    160 * time.Millisecond,
	}
}

func (c Config) sanitized() Config {
	d := DefaultConfig()
	if !finite(c.Bend) {
		c.Bend = d.Bend
	}
	if !finite(c.BorderRadius) || c.BorderRadius < 0 {
		c.BorderRadius = 0
	}
	if c.BorderRadius > 0.5 {
		c.BorderRadius = 0.5
	}
	if !finite(c.ScrollSpeed) {
		c.ScrollSpeed = d.ScrollSpeed
	}
	if !finite(c.ScrollEase) || c.ScrollEase <= 0 {
		c.ScrollEase = d.ScrollEase
	}
	if c.ScrollEase > 1 {
		c.ScrollEase = 1
	}
	if c.SnapDelay < 0 {
		c.SnapDelay = 0
	}
	if c.TextColor == "" {
		c.TextColor = d.TextColor
	}
	if c.Font == "" {
		c.Font = d.Font
	}
	return c
}

// Font is a parsed caption font description.
type Font struct {
	Size   float64
	Bold   bool
	Family string
}

// ParseFont reads a CSS shorthand such as "bold 26px system-ui". Weight and
// size are optional; the rest is the family.
func ParseFont(s string) (Font, error) {
	f := Font{Size: 26, Family: "sans-serif"}
	fields := strings.Fields(s)
	var family []string
	sized := false
	for _, tok := range fields {
		lower := strings.ToLower(tok)
		switch {
		case lower == "bold" || lower == "bolder":
			f.Bold = true
		case lower == "normal" || lower == "italic" || lower == "oblique":
		case isWeight(lower):
			n, _ := strconv.Atoi(lower)
			f.Bold = n >= 600
		case !sized && strings.HasSuffix(lower, "px"):
			v, err := strconv.ParseFloat(strings.TrimSuffix(lower, "px"), 64)
			if err != nil || v <= 0 {
				return Font{}, fmt.Errorf("invalid font size %q", tok)
			}
			f.Size = v
			sized = true
		default:
			family = append(family, tok)
		}
	}
	if len(family) > 0 {
		f.Family = strings.Trim(strings.Join(family, " "), `"',`)
	}
	return f, nil
}

func isWeight(s string) bool {
	if len(s) != 3 || !strings.HasSuffix(s, "00") {
		return false
	}
	return s[0] >= '1' && s[0] <= '9'
}

// Monospace reports whether the family asks for a fixed-width face.
func (f Font) Monospace() bool {
	fam := strings.ToLower(f.Family)
	return strings.Contains(fam, "mono") || strings.Contains(fam, "courier")
}
