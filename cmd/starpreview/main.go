// Starfield preview tool - interactive CPU rendering of the background with sliders.
//
// Usage: go run ./cmd/starpreview [-config config.yaml]
package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"log"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/trgs-studio/nightreel/config"
	"github.com/trgs-studio/nightreel/starfield"
)

const (
	windowWidth  = 1100
	windowHeight = 720
	previewW     = 640
	previewH     = 360
	panelWidth   = windowWidth - previewW - 30

	// CPU render resolution, scaled up into the preview rectangle
	gridW = 320
	gridH = 180
)

// slider binds one starfield field to a raygui slider.
type slider struct {
	label    string
	min, max float32
	format   string
	value    func(*config.StarfieldConfig) *float64
}

var sliders = []slider{
	{"Density", 0.5, 4, "%.2f", func(s *config.StarfieldConfig) *float64 { return &s.Density }},
	{"Glow intensity", 0.2, 3, "%.2f", func(s *config.StarfieldConfig) *float64 { return &s.GlowIntensity }},
	{"Twinkle intensity", 0, 1, "%.2f", func(s *config.StarfieldConfig) *float64 { return &s.TwinkleIntensity }},
	{"Saturation", 0, 1, "%.2f", func(s *config.StarfieldConfig) *float64 { return &s.Saturation }},
	{"Star speed (layer depth)", 0.1, 2, "%.2f", func(s *config.StarfieldConfig) *float64 { return &s.StarSpeed }},
	{"Hue shift (deg)", 0, 360, "%.0f", func(s *config.StarfieldConfig) *float64 { return &s.HueShift }},
	{"Hue spread (deg)", 0, 360, "%.0f", func(s *config.StarfieldConfig) *float64 { return &s.HueSpread }},
	{"Rotation speed", 0, 0.5, "%.3f", func(s *config.StarfieldConfig) *float64 { return &s.RotationSpeed }},
	{"Repulsion strength", 0, 5, "%.2f", func(s *config.StarfieldConfig) *float64 { return &s.RepulsionStrength }},
}

func main() {
	configPath := flag.String("config", "", "Config YAML file (empty = use defaults)")
	flag.Parse()

	base, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	sf := base.Starfield

	rl.InitWindow(windowWidth, windowHeight, "Starfield Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	img := rl.GenImageColor(gridW, gridH, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)
	pixels := make([]color.RGBA, gridW*gridH)

	var t float32
	animating := true
	needsRegen := true
	ctx := context.Background()

	for !rl.WindowShouldClose() {
		if animating {
			t += rl.GetFrameTime()
			needsRegen = true
		}

		// Pointer over the preview drives the interaction uniforms.
		mouse := rl.GetMousePosition()
		mx, my := (mouse.X-10)/previewW, 1-(mouse.Y-10)/previewH
		hovering := mx >= 0 && mx <= 1 && my >= 0 && my <= 1
		if hovering {
			needsRegen = true
		}

		if needsRegen {
			field := starfield.NewField(sf.Params(), gridW, gridH)
			field.U.Time = t
			if hovering {
				field.U.Mouse = [2]float32{mx, my}
				field.U.MouseActive = 1
			}
			frame, err := field.Render(ctx)
			if err != nil {
				log.Fatalf("render failed: %v", err)
			}
			for i := range pixels {
				p := frame.Pix[i*4 : i*4+4 : i*4+4]
				pixels[i] = color.RGBA{R: p[0], G: p[1], B: p[2], A: 255}
			}
			rl.UpdateTexture(texture, pixels)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: gridW, Height: gridH},
			rl.Rectangle{X: 10, Y: 10, Width: previewW, Height: previewH},
			rl.Vector2{},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewW, previewH, rl.DarkGray)

		statsY := int32(previewH + 25)
		rl.DrawText(fmt.Sprintf("Time: %.1f  FPS: %d", t, rl.GetFPS()), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Pointer mode: %s", toggleText(sf.MouseRepulsion, "repulsion", "parallax")), 15, statsY+20, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewW + 20)
		panelY := float32(10)

		rl.DrawText("Starfield Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		for _, s := range sliders {
			v := s.value(&sf)
			rl.DrawText(s.label, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			next := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				fmt.Sprintf(s.format, s.min), fmt.Sprintf(s.format, s.max),
				float32(*v), s.min, s.max,
			)
			rl.DrawText(fmt.Sprintf(s.format, *v), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			if next != float32(*v) {
				*v = float64(next)
				needsRegen = true
			}
			panelY += 35
		}
		panelY += 10

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(animating, "Stop", "Animate")) {
			animating = !animating
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset Time") {
			t = 0
			needsRegen = true
		}
		panelY += 40

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(sf.MouseRepulsion, "Parallax", "Repulsion")) {
			sf.MouseRepulsion = !sf.MouseRepulsion
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			sf = base.Starfield
			t = 0
			needsRegen = true
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			out, err := yaml.Marshal(map[string]config.StarfieldConfig{"starfield": sf})
			if err != nil {
				log.Printf("failed to encode yaml: %v", err)
			} else {
				rl.SetClipboardText(string(out))
			}
		}

		rl.EndDrawing()
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
