package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for one page frame.
const (
	PhaseInput     = "input"
	PhaseStarfield = "starfield"
	PhaseGallery   = "gallery"
	PhaseHUD       = "hud"
)

// Phases lists the frame phases in execution order.
var Phases = []string{PhaseInput, PhaseStarfield, PhaseGallery, PhaseHUD}

// PerfSample holds timing data for a single frame.
type PerfSample struct {
	FrameDuration time.Duration
	Phases        map[string]time.Duration
}

// PerfCollector tracks performance metrics over a rolling window.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	frameStart    time.Time
	phaseStart    time.Time
	lastPhase     string

	// Wall-clock interval between presented frames
	lastPresent time.Time
	interval    time.Duration
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of frames to aggregate over (e.g., 60 for 1 second at 60fps).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartFrame begins timing a new frame.
func (p *PerfCollector) StartFrame() {
	p.frameStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a specific phase, ending the previous one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndFrame finishes timing the current frame and records the sample.
func (p *PerfCollector) EndFrame() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.record(PerfSample{FrameDuration: now.Sub(p.frameStart), Phases: p.currentPhases})
	p.lastPhase = ""
}

func (p *PerfCollector) record(s PerfSample) {
	p.samples[p.writeIndex] = s
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// RecordPresent records the wall-clock time a frame was presented.
func (p *PerfCollector) RecordPresent() {
	now := time.Now()
	if !p.lastPresent.IsZero() {
		p.interval = now.Sub(p.lastPresent)
	}
	p.lastPresent = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	// Frame work timing
	AvgFrame    time.Duration
	MinFrame    time.Duration
	MaxFrame    time.Duration
	StdDevFrame time.Duration
	P95Frame    time.Duration

	// Phase breakdown (average durations)
	PhaseAvg map[string]time.Duration

	// Phase percentages of total frame time
	PhasePct map[string]float64

	// Frames the work alone would allow per second
	Headroom float64

	// Presentation
	Interval time.Duration
	FPS      float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	var fps float64
	if p.interval > 0 {
		fps = float64(time.Second) / float64(p.interval)
	}

	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg: make(map[string]time.Duration),
			PhasePct: make(map[string]float64),
			Interval: p.interval,
			FPS:      fps,
		}
	}

	durations := make([]float64, p.sampleCount)
	phaseSum := make(map[string]time.Duration)
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		durations[i] = float64(s.FrameDuration)
		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}
	sum := Summarize(durations)
	avg := time.Duration(sum.Mean)

	phaseAvg := make(map[string]time.Duration)
	phasePct := make(map[string]float64)
	for phase, total := range phaseSum {
		phaseAvg[phase] = total / time.Duration(p.sampleCount)
		if avg > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avg) * 100
		}
	}

	var headroom float64
	if avg > 0 {
		headroom = float64(time.Second) / float64(avg)
	}

	return PerfStats{
		AvgFrame:    avg,
		MinFrame:    time.Duration(sum.Min),
		MaxFrame:    time.Duration(sum.Max),
		StdDevFrame: time.Duration(sum.Std),
		P95Frame:    time.Duration(sum.P95),
		PhaseAvg:    phaseAvg,
		PhasePct:    phasePct,
		Headroom:    headroom,
		Interval:    p.interval,
		FPS:         fps,
	}
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_frame_us", s.AvgFrame.Microseconds(),
		"p95_frame_us", s.P95Frame.Microseconds(),
		"max_frame_us", s.MaxFrame.Microseconds(),
		"headroom_fps", int(s.Headroom),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", float64(int(pct*10))/10.0)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_frame_us", s.AvgFrame.Microseconds()),
		slog.Int64("p95_frame_us", s.P95Frame.Microseconds()),
		slog.Int64("stddev_frame_us", s.StdDevFrame.Microseconds()),
		slog.Float64("headroom_fps", s.Headroom),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd    float64 `csv:"window_end"`
	AvgFrameUS   int64   `csv:"avg_frame_us"`
	MinFrameUS   int64   `csv:"min_frame_us"`
	MaxFrameUS   int64   `csv:"max_frame_us"`
	StdDevUS     int64   `csv:"stddev_frame_us"`
	P95FrameUS   int64   `csv:"p95_frame_us"`
	Headroom     float64 `csv:"headroom_fps"`
	FPS          float64 `csv:"fps"`
	InputPct     float64 `csv:"input_pct"`
	StarfieldPct float64 `csv:"starfield_pct"`
	GalleryPct   float64 `csv:"gallery_pct"`
	HUDPct       float64 `csv:"hud_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd float64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgFrameUS:   s.AvgFrame.Microseconds(),
		MinFrameUS:   s.MinFrame.Microseconds(),
		MaxFrameUS:   s.MaxFrame.Microseconds(),
		StdDevUS:     s.StdDevFrame.Microseconds(),
		P95FrameUS:   s.P95Frame.Microseconds(),
		Headroom:     s.Headroom,
		FPS:          s.FPS,
		InputPct:     s.PhasePct[PhaseInput],
		StarfieldPct: s.PhasePct[PhaseStarfield],
		GalleryPct:   s.PhasePct[PhaseGallery],
		HUDPct:       s.PhasePct[PhaseHUD],
	}
}
