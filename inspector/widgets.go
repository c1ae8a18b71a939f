package inspector

import (
	"fmt"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Widget colors
var (
	ColorBarBg   = rl.Color{R: 40, G: 40, B: 40, A: 255}
	ColorBarFill = rl.Color{R: 100, G: 180, B: 100, A: 255}
	ColorBarHigh = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorText    = rl.Color{R: 220, G: 220, B: 220, A: 255}
	ColorTextDim = rl.Color{R: 150, G: 150, B: 150, A: 255}
	ColorBoolOn  = rl.Color{R: 100, G: 200, B: 100, A: 255}
	ColorBoolOff = rl.Color{R: 80, G: 80, B: 80, A: 255}
)

// Row heights in pixels.
const (
	labelHeight    = 20
	barHeight      = 18
	barGroupHeight = 34
)

// RowHeight returns the vertical space DrawField uses for f.
func RowHeight(f Field) int32 {
	switch f.Widget {
	case WidgetBar:
		if _, ok := GetFloatSlice(f.Value); ok {
			return barGroupHeight
		}
		if _, ok := GetFloatValue(f.Value); ok {
			return barHeight
		}
	case WidgetBool:
		if _, ok := f.Value.(bool); ok {
			return barHeight
		}
	}
	return labelHeight
}

// DrawLabel renders a text value.
func DrawLabel(x, y int32, name string, value any, options map[string]string) int32 {
	text := FormatValue(value, options["fmt"])
	rl.DrawText(fmt.Sprintf("%s: %s", name, text), x, y, 16, ColorText)
	return labelHeight
}

// DrawBar renders a horizontal gauge. Values near the max turn red, since
// the bars show load.
func DrawBar(x, y int32, name string, value float32, options map[string]string) int32 {
	ratio := clamp01(value / GetMax(options))

	barWidth := int32(120)
	h := int32(14)

	rl.DrawText(name, x, y, 14, ColorTextDim)

	barX := x + 90
	rl.DrawRectangle(barX, y, barWidth, h, ColorBarBg)
	rl.DrawRectangle(barX, y, int32(float32(barWidth)*ratio), h, lerpColor(ColorBarFill, ColorBarHigh, ratio))

	rl.DrawText(FormatValue(value, options["fmt"]), barX+barWidth+5, y, 14, ColorTextDim)
	return barHeight
}

// DrawBarGroup renders one mini-bar per element of values.
func DrawBarGroup(x, y int32, name string, values []float32, options map[string]string) int32 {
	maxVal := GetMax(options)
	w := int32(20)
	h := int32(30)
	gap := int32(2)

	rl.DrawText(name, x, y, 14, ColorTextDim)

	barX := x + 90
	for i, v := range values {
		ratio := clamp01(v / maxVal)
		bx := barX + int32(i)*(w+gap)
		rl.DrawRectangle(bx, y, w, h, ColorBarBg)
		fill := int32(float32(h) * ratio)
		rl.DrawRectangle(bx, y+h-fill, w, fill, lerpColor(ColorBarFill, ColorBarHigh, ratio))
	}
	if labels := parseLabels(options, len(values)); labels != nil {
		for i, label := range labels {
			lx := barX + int32(i)*(w+gap) + w/2
			tw := rl.MeasureText(label, 8)
			rl.DrawText(label, lx-tw/2, y+h-9, 8, ColorText)
		}
	}
	return barGroupHeight
}

// DrawBool renders an on/off indicator.
func DrawBool(x, y int32, name string, value bool) int32 {
	rl.DrawText(name, x, y, 14, ColorTextDim)

	ix := x + 90
	size := int32(14)

	color := ColorBoolOff
	text := "OFF"
	if value {
		color = ColorBoolOn
		text = "ON"
	}

	rl.DrawRectangle(ix, y, size, size, color)
	rl.DrawText(text, ix+size+5, y, 14, color)
	return barHeight
}

// DrawField renders a field using its widget type.
func DrawField(x, y int32, field Field) int32 {
	name := field.Label()
	switch field.Widget {
	case WidgetBar:
		if values, ok := GetFloatSlice(field.Value); ok {
			return DrawBarGroup(x, y, name, values, field.Options)
		}
		if v, ok := GetFloatValue(field.Value); ok {
			return DrawBar(x, y, name, v, field.Options)
		}
	case WidgetBool:
		if v, ok := field.Value.(bool); ok {
			return DrawBool(x, y, name, v)
		}
	}
	return DrawLabel(x, y, name, field.Value, field.Options)
}

func parseLabels(options map[string]string, count int) []string {
	raw, ok := options["labels"]
	if !ok || raw == "" {
		return nil
	}
	parts := strings.Split(raw, "|")
	if len(parts) != count {
		return nil
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// lerpColor interpolates between two colors.
func lerpColor(a, b rl.Color, t float32) rl.Color {
	return rl.Color{
		R: uint8(float32(a.R) + (float32(b.R)-float32(a.R))*t),
		G: uint8(float32(a.G) + (float32(b.G)-float32(a.G))*t),
		B: uint8(float32(a.B) + (float32(b.B)-float32(a.B))*t),
		A: 255,
	}
}
