package page

import (
	"fmt"
	"math"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/trgs-studio/nightreel/inspector"
	"github.com/trgs-studio/nightreel/telemetry"
)

const controlsText = "[Wheel/Drag] Scroll  [Left/Right] Step  [Space] Pause  [R] Repulsion  [D] Debug  [F11] Fullscreen"

// Draw renders the background, the reel and the HUD, then presents the frame.
func (p *Page) Draw() {
	if p.unloaded {
		return
	}
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	p.render()

	p.perf.StartPhase(telemetry.PhaseHUD)
	p.drawHUD()
	p.perf.EndFrame()

	rl.EndDrawing()
	p.perf.RecordPresent()
	p.flushTelemetry()
}

// drawHUD draws the phase caption, status line and, when enabled, the debug panel.
func (p *Page) drawHUD() {
	rl.DrawText(p.hudLine(), 10, 10, 20, rl.White)
	if p.paused {
		rl.DrawText("PAUSED", 10, 35, 20, rl.Yellow)
	}
	_, h := p.host.Size()
	rl.DrawText(controlsText, 10, int32(h)-25, 14, rl.Gray)

	if !p.debug.Visible() {
		return
	}
	y := float32(p.debug.Draw(p.debugSections()...)) + buttonGap
	x := p.debug.Bounds(nil).X + inspector.PanelPadding

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 140, Height: buttonHeight}, toggleText(p.params.MouseRepulsion, "Parallax", "Repulsion")) {
		if err := p.ToggleRepulsion(); err != nil {
			p.log.Error("starfield rebuild failed", "error", err)
		}
	}
	if gui.Button(rl.Rectangle{X: x + 150, Y: y, Width: 140, Height: buttonHeight}, toggleText(p.paused, "Resume", "Pause")) {
		p.TogglePause()
	}
}

// Debug panel button row, drawn below the sections.
const (
	buttonGap    = 8
	buttonHeight = 28
)

// panelHit reports whether (x, y) lies on the visible debug panel or its
// buttons. Those clicks belong to the panel, not the reel.
func (p *Page) panelHit(x, y float32) bool {
	if p.debug == nil || !p.debug.Visible() {
		return false
	}
	r := p.debug.Bounds(p.debugSections())
	r.Height += buttonGap + buttonHeight
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// hudLine is the caption naming the phase of the centred moment.
func (p *Page) hudLine() string {
	if p.phase == "" {
		return "Phase: -"
	}
	return "Phase: " + p.phase
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}

type frameView struct {
	FPS    float64       `inspect:"label,fmt:%.0f"`
	Frame  time.Duration `inspect:"label,name:Frame avg"`
	P95    time.Duration `inspect:"label,name:Frame p95"`
	Phases [4]float64    `inspect:"bar,max:100,labels:in|sf|gal|hud"`
}

type reelView struct {
	Moment   string
	Phase    string
	State    string
	Position float64 `inspect:"label,fmt:%.2f"`
	Speed    float64 `inspect:"bar,max:0.5,fmt:%.3f"`
	Tiles    int
}

type starView struct {
	Repulsion bool
	Paused    bool
	Time      float32 `inspect:"label,fmt:%.1fs"`
	Pointer   float32 `inspect:"bar"`
	Frames    uint64
}

// debugSections snapshots the page state for the debug panel.
func (p *Page) debugSections() []inspector.Section {
	ps := p.perf.Stats()
	fv := frameView{FPS: ps.FPS, Frame: ps.AvgFrame, P95: ps.P95Frame}
	for i, phase := range telemetry.Phases {
		fv.Phases[i] = ps.PhasePct[phase]
	}

	s := p.reel.Scroller()
	items := p.reel.Items()
	rv := reelView{
		Moment:   fmt.Sprintf("%d/%d", p.index+1, len(items)),
		Phase:    p.phase,
		State:    s.State().String(),
		Position: s.Current,
		Speed:    math.Abs(s.Current - s.Last),
		Tiles:    len(p.reel.Tiles()),
	}

	sv := starView{Repulsion: p.params.MouseRepulsion, Paused: p.paused}
	if p.stars != nil {
		u := p.stars.Uniforms()
		sv.Time = u.Time
		sv.Pointer = u.MouseActive
		sv.Frames = p.stars.Frames()
	}

	return []inspector.Section{
		{Title: "FRAME", Value: fv},
		{Title: "REEL", Value: rv},
		{Title: "STARFIELD", Value: sv},
	}
}
