// Starframes exports a numbered PNG sequence of the CPU-rendered starfield,
// for stills and for checking the animation offline.
//
// Usage: go run ./cmd/starframes -out frames -frames 120 -fps 30
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/trgs-studio/nightreel/config"
	"github.com/trgs-studio/nightreel/starfield"
)

func main() {
	configPath := flag.String("config", "", "Config YAML file (empty = use defaults)")
	outDir := flag.String("out", "frames", "Output directory")
	width := flag.Int("width", 640, "Frame width")
	height := flag.Int("height", 360, "Frame height")
	frames := flag.Int("frames", 60, "Number of frames")
	fps := flag.Float64("fps", 30, "Frames per second of animation time")
	start := flag.Float64("start", 0, "Animation time of the first frame in seconds")
	workers := flag.Int("workers", 2, "Frames rendered concurrently")
	flag.Parse()

	if err := run(*configPath, *outDir, *width, *height, *frames, *fps, *start, *workers); err != nil {
		log.Fatal(err)
	}
}

func run(configPath, outDir string, w, h, n int, fps, start float64, workers int) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if fps <= 0 {
		return fmt.Errorf("fps must be positive, got %v", fps)
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	params := cfg.Derived.Params.Sanitized()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	pb := progressbar.Default(int64(n), "rendering")
	defer pb.Close()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(workers, runtime.GOMAXPROCS(0))))
	for i := range n {
		g.Go(func() error {
			field := starfield.NewField(params, w, h)
			field.U.Time = float32(start + float64(i)/fps)
			img, err := field.Render(ctx)
			if err != nil {
				return err
			}
			path := filepath.Join(outDir, fmt.Sprintf("frame_%04d.png", i))
			if err := writePNG(path, img); err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			return pb.Add(1)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	fmt.Printf("\nWrote %d frames to %s\n", n, outDir)
	return nil
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
