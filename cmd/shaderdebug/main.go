// Shader debug tool - renders one starfield frame to a PNG file for inspection.
//
// Usage: go run ./cmd/shaderdebug -time 3.5 -out debug.png -cpu debug_cpu.png
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/trgs-studio/nightreel/config"
	"github.com/trgs-studio/nightreel/interaction"
	"github.com/trgs-studio/nightreel/starfield"
	"github.com/trgs-studio/nightreel/surface"
)

func main() {
	configPath := flag.String("config", "", "Config YAML file (empty = use defaults)")
	outPath := flag.String("out", "debug.png", "Output PNG path")
	cpuPath := flag.String("cpu", "", "Also write the CPU evaluation of the same frame here")
	width := flag.Int("width", 512, "Render width")
	height := flag.Int("height", 512, "Render height")
	at := flag.Float64("time", 0, "Frame time in seconds")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	params := cfg.Derived.Params
	params.MouseInteraction = false

	// Initialize raylib with hidden window
	rl.SetConfigFlags(rl.FlagWindowHidden)
	rl.InitWindow(int32(*width), int32(*height), "Shader Debug")
	defer rl.CloseWindow()

	host := surface.HostFunc(func() (int, int) { return *width, *height })
	rt := interaction.NewRuntime()
	stars, err := starfield.Initialize(host, surface.NewRaylibDevice(), rt, params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build starfield: %v\n", err)
		os.Exit(1)
	}
	defer stars.Teardown()

	// Create render texture
	target := rl.LoadRenderTexture(int32(*width), int32(*height))
	defer rl.UnloadRenderTexture(target)

	// Render one frame to texture
	rl.BeginTextureMode(target)
	rl.ClearBackground(rl.Black)
	rt.Frames.Tick(*at * 1000)
	rl.EndTextureMode()

	// Get image from texture and flip it (OpenGL convention)
	img := rl.LoadImageFromTexture(target.Texture)
	rl.ImageFlipVertical(img)

	// Export to PNG
	success := rl.ExportImage(*img, *outPath)
	rl.UnloadImage(img)

	if !success {
		fmt.Fprintf(os.Stderr, "Failed to export image\n")
		os.Exit(1)
	}
	fmt.Printf("Shader rendered to: %s (%dx%d, t=%.2fs)\n", *outPath, *width, *height, *at)

	if *cpuPath == "" {
		return
	}
	cpu, err := stars.Field().Render(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "CPU render failed: %v\n", err)
		os.Exit(1)
	}
	if err := writePNG(*cpuPath, cpu); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", *cpuPath, err)
		os.Exit(1)
	}
	fmt.Printf("CPU reference written to: %s\n", *cpuPath)
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
