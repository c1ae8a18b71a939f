package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated reel activity for a time window.
type WindowStats struct {
	WindowStartSec float64 `csv:"-"`
	WindowEndSec   float64 `csv:"window_end"`

	Frames int `csv:"frames"`

	// Input during window
	WheelEvents int `csv:"wheel_events"`
	Drags       int `csv:"drags"`
	Settles     int `csv:"settles"`

	// Seconds spent on each settled item before moving on
	DwellMean float64 `csv:"dwell_mean"`
	DwellStd  float64 `csv:"dwell_std"`
	DwellP50  float64 `csv:"dwell_p50"`
	DwellP90  float64 `csv:"dwell_p90"`

	// Assets
	ImagesLoaded int `csv:"images_loaded"`
	ImagesFailed int `csv:"images_failed"`

	Resizes int `csv:"resizes"`
	Reloads int `csv:"reloads"`

	// State at window end
	CenterIndex int    `csv:"center_index"`
	Phase       string `csv:"phase"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Summary is the distribution of a sample.
type Summary struct {
	Mean, Std     float64
	P50, P90, P95 float64
	Min, Max      float64
}

// Summarize computes mean, sample standard deviation and percentiles.
func Summarize(values []float64) Summary {
	n := len(values)
	if n == 0 {
		return Summary{}
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	var s Summary
	if n == 1 {
		s.Mean = sorted[0]
	} else {
		s.Mean, s.Std = stat.MeanStdDev(sorted, nil)
	}
	s.P50 = Percentile(sorted, 0.50)
	s.P90 = Percentile(sorted, 0.90)
	s.P95 = Percentile(sorted, 0.95)
	s.Min, s.Max = sorted[0], sorted[n-1]
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("window_start", s.WindowStartSec),
		slog.Float64("window_end", s.WindowEndSec),
		slog.Int("frames", s.Frames),
		slog.Int("wheel_events", s.WheelEvents),
		slog.Int("drags", s.Drags),
		slog.Int("settles", s.Settles),
		slog.Float64("dwell_mean", s.DwellMean),
		slog.Float64("dwell_p90", s.DwellP90),
		slog.Int("images_loaded", s.ImagesLoaded),
		slog.Int("images_failed", s.ImagesFailed),
		slog.Int("center_index", s.CenterIndex),
		slog.String("phase", s.Phase),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
