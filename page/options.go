package page

import (
	"context"
	"log/slog"

	"github.com/trgs-studio/nightreel/config"
	"github.com/trgs-studio/nightreel/interaction"
	"github.com/trgs-studio/nightreel/journey"
	"github.com/trgs-studio/nightreel/surface"
)

// Options configures page construction.
type Options struct {
	// Config is the loaded configuration (nil = embedded defaults).
	Config *config.Config
	// Journey is the reel content (nil = load Config.Journey.Path).
	Journey *journey.Journey

	// Host and Device default to the raylib window.
	Host   surface.Host
	Device surface.Device
	// Input defaults to the raylib window's mouse and wheel.
	Input interaction.Input

	// Reloads delivers hot-reloaded configurations, usually from a config.Watcher.
	Reloads <-chan *config.Config

	OutputDir string // CSV logs and config snapshot (empty = disabled)
	LogStats  bool   // window stats via slog
	PerfLog   bool   // per-phase timing table via Logf

	Context context.Context
	Logger  *slog.Logger
}
