package gallery

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Captioner rasterizes caption strings into transparent bitmaps.
type Captioner struct {
	font   Font
	color  string
	source *text.FontSource
	face   text.Face
}

// NewCaptioner parses font and loads the matching Go font face.
func NewCaptioner(font, color string) (*Captioner, error) {
	f, err := ParseFont(font)
	if err != nil {
		return nil, err
	}
	var ttf []byte
	switch {
	case f.Monospace() && f.Bold:
		ttf = gomonobold.TTF
	case f.Monospace():
		ttf = gomono.TTF
	case f.Bold:
		ttf = gobold.TTF
	default:
		ttf = goregular.TTF
	}
	source, err := text.NewFontSource(ttf)
	if err != nil {
		return nil, fmt.Errorf("loading caption font: %w", err)
	}
	return &Captioner{font: f, color: color, source: source, face: source.Face(f.Size)}, nil
}

// Font returns the parsed font.
func (c *Captioner) Font() Font { return c.font }

// Rasterize draws s centred on a canvas padded by 12px horizontally and
// 10px vertically around the measured text.
func (c *Captioner) Rasterize(s string) (image.Image, error) {
	textW, _ := text.Measure(s, c.face)
	w := int(math.Ceil(textW)) + 24
	h := int(math.Ceil(c.font.Size*1.2)) + 20

	dc := gg.NewContext(w, h)
	defer dc.Close()
	dc.Clear()
	dc.SetFont(c.face)
	dc.SetHexColor(c.color)
	dc.DrawStringAnchored(s, float64(w)/2, float64(h)/2, 0.5, 0.5)

	// Copy out before the context releases its pixmap.
	src := dc.Image()
	out := image.NewRGBA(src.Bounds())
	draw.Draw(out, out.Bounds(), src, src.Bounds().Min, draw.Src)
	return out, nil
}

// Close releases the font source.
func (c *Captioner) Close() error {
	if c == nil || c.source == nil {
		return nil
	}
	err := c.source.Close()
	c.source = nil
	return err
}
