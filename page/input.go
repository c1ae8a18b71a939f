package page

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/trgs-studio/nightreel/telemetry"
)

// Update advances the clock, polls window input onto the bus and applies
// pending reloads. Call once per frame before Draw.
func (p *Page) Update() {
	if p.unloaded {
		return
	}
	p.perf.StartFrame()
	p.perf.StartPhase(telemetry.PhaseInput)

	p.advance(time.Duration(float64(rl.GetFrameTime()) * float64(time.Second)))
	p.poller.Poll(p.clock)
	p.handleInput()
	p.applyReloads()
}

// handleInput processes keyboard input.
func (p *Page) handleInput() {
	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		p.TogglePause()
	}

	if rl.IsKeyPressed(rl.KeyR) {
		if err := p.ToggleRepulsion(); err != nil {
			p.log.Error("starfield rebuild failed", "error", err)
		}
	}

	// Debug panel toggle
	if rl.IsKeyPressed(rl.KeyD) {
		p.debug.Toggle()
	}

	// Step through moments
	if rl.IsKeyPressed(rl.KeyRight) {
		p.Nudge(1)
	}
	if rl.IsKeyPressed(rl.KeyLeft) {
		p.Nudge(-1)
	}
}
