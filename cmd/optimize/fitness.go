package main

import (
	"context"
	"image"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/trgs-studio/nightreel/config"
	"github.com/trgs-studio/nightreel/starfield"
)

// Target describes the look being tuned for.
type Target struct {
	MeanLuma float64 // average luminance in [0, 1]
	Coverage float64 // fraction of pixels brighter than coverageLuma
	Chroma   float64 // mean chroma of covered pixels (0 = ignore)
}

// coverageLuma is the luminance above which a pixel counts as lit.
const coverageLuma = 0.2

// Metrics summarizes rendered frames.
type Metrics struct {
	MeanLuma float64
	Coverage float64
	Chroma   float64
}

// Measure computes the metrics of one frame.
func Measure(img *image.RGBA) Metrics {
	b := img.Bounds()
	n := b.Dx() * b.Dy()
	if n == 0 {
		return Metrics{}
	}
	lumas := make([]float64, 0, n)
	var chromas []float64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.RGBAAt(x, y)
			r, g, bl := float64(c.R)/255, float64(c.G)/255, float64(c.B)/255
			l := 0.2126*r + 0.7152*g + 0.0722*bl
			lumas = append(lumas, l)
			if l > coverageLuma {
				chromas = append(chromas, max(r, g, bl)-min(r, g, bl))
			}
		}
	}
	m := Metrics{
		MeanLuma: stat.Mean(lumas, nil),
		Coverage: float64(len(chromas)) / float64(n),
	}
	if len(chromas) > 0 {
		m.Chroma = stat.Mean(chromas, nil)
	}
	return m
}

// FitnessEvaluator renders the starfield on the CPU and scores it against
// a target.
type FitnessEvaluator struct {
	params     *ParamVector
	baseConfig *config.Config
	target     Target
	width      int
	height     int
	times      []float64 // sample times in seconds

	mu          sync.Mutex
	lastMetrics Metrics
}

// NewFitnessEvaluator creates a new evaluator rendering w x h frames at each
// of the given times.
func NewFitnessEvaluator(params *ParamVector, baseCfg *config.Config, target Target, w, h int, times []float64) *FitnessEvaluator {
	if len(times) == 0 {
		times = []float64{0}
	}
	return &FitnessEvaluator{
		params:     params,
		baseConfig: baseCfg,
		target:     target,
		width:      w,
		height:     h,
		times:      times,
	}
}

// LastMetrics returns the metrics from the most recent evaluation.
func (fe *FitnessEvaluator) LastMetrics() Metrics {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastMetrics
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(ctx context.Context, x []float64) (float64, error) {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	var sum Metrics
	for _, t := range fe.times {
		f := starfield.NewField(cfg.Derived.Params, fe.width, fe.height)
		f.U.Time = float32(t)
		img, err := f.Render(ctx)
		if err != nil {
			return math.Inf(1), err
		}
		m := Measure(img)
		sum.MeanLuma += m.MeanLuma
		sum.Coverage += m.Coverage
		sum.Chroma += m.Chroma
	}
	n := float64(len(fe.times))
	avg := Metrics{MeanLuma: sum.MeanLuma / n, Coverage: sum.Coverage / n, Chroma: sum.Chroma / n}

	fe.mu.Lock()
	fe.lastMetrics = avg
	fe.mu.Unlock()

	return fe.target.Score(avg), nil
}

// Score is the sum of squared relative errors against the target.
func (t Target) Score(m Metrics) float64 {
	score := relErr(m.MeanLuma, t.MeanLuma) + relErr(m.Coverage, t.Coverage)
	if t.Chroma > 0 {
		score += relErr(m.Chroma, t.Chroma)
	}
	return score
}

func relErr(got, want float64) float64 {
	if want <= 0 {
		return got * got
	}
	d := (got - want) / want
	return d * d
}

// copyConfig copies the base config so evaluations never mutate it.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}
