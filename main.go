package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/gogpu/gg"

	"github.com/trgs-studio/nightreel/config"
	"github.com/trgs-studio/nightreel/journey"
	"github.com/trgs-studio/nightreel/page"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	journeyPath := flag.String("journey", "", "Path to journey.yaml (empty = use config, then the built-in sample)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	perfLog := flag.Bool("perf", false, "Log per-phase frame timing")
	watch := flag.Bool("watch", true, "Reload starfield settings when the config file changes")
	outline := flag.Bool("outline", false, "Print the journey outline and exit")
	fullscreen := flag.Bool("fullscreen", false, "Start fullscreen")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = unlimited)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	gg.SetLogger(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *journeyPath != "" {
		cfg.Journey.Path = *journeyPath
	}

	j, err := journey.Load(cfg.Journey.Path)
	if err != nil {
		slog.Error("failed to load journey", "path", cfg.Journey.Path, "error", err)
		os.Exit(1)
	}
	if *outline {
		page.LogOutline(j)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := page.Options{
		Config:    cfg,
		Journey:   j,
		OutputDir: *outputDir,
		LogStats:  *logStats,
		PerfLog:   *perfLog,
		Context:   ctx,
		Logger:    logger,
	}

	if *watch && *configPath != "" {
		w, err := config.Watch(ctx, *configPath, 250*time.Millisecond, logger)
		if err != nil {
			slog.Warn("config hot reload disabled", "error", err)
		} else {
			defer w.Close()
			opts.Reloads = w.Changes()
		}
	}

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(cfg.Derived.WindowW, cfg.Derived.WindowH, cfg.Screen.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	if *fullscreen || cfg.Screen.Fullscreen {
		rl.ToggleFullscreen()
	}

	p, err := page.New(opts)
	if err != nil {
		slog.Error("failed to build page", "error", err)
		os.Exit(1)
	}
	defer p.Unload()

	frames := 0
	for !rl.WindowShouldClose() && ctx.Err() == nil {
		p.Update()
		p.Draw()

		frames++
		if *maxFrames > 0 && frames >= *maxFrames {
			slog.Info("max frames reached", "frames", frames)
			break
		}
	}
}
