package main

import (
	"context"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trgs-studio/nightreel/config"
)

func TestParamVectorRoundTrip(t *testing.T) {
	pv := NewParamVector()
	cfg, err := config.Load("")
	require.NoError(t, err)

	def := pv.DefaultVector()
	assert.Equal(t, def, pv.ExtractFromConfig(cfg), "defaults follow the embedded config")

	n := pv.Normalize(def)
	back := pv.Denormalize(n)
	for i := range def {
		if math.Abs(back[i]-def[i]) > 1e-9 {
			t.Errorf("%s: round trip %v -> %v", pv.Specs[i].Name, def[i], back[i])
		}
	}

	clamped := pv.Clamp([]float64{-1, 99, 0.5, 2, 0})
	assert.Equal(t, []float64{0.5, 3.0, 0.5, 1.0, 0.1}, clamped)

	pv.ApplyToConfig(cfg, []float64{10, 1, 0.2, 0.3, 1.5})
	assert.Equal(t, 4.0, cfg.Starfield.Density)
	assert.Equal(t, 4.0, cfg.Derived.Params.Density)
	assert.Equal(t, 1.5, cfg.Derived.Params.StarSpeed)
}

func TestMeasure(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	img.SetRGBA(1, 0, color.RGBA{R: 255, A: 255})

	m := Measure(img)
	assert.InDelta(t, (1+0.2126)/4, m.MeanLuma, 1e-9)
	assert.InDelta(t, 0.5, m.Coverage, 1e-9, "white and red are lit")
	assert.InDelta(t, 0.5, m.Chroma, 1e-9, "white has none, red is fully saturated")

	assert.Equal(t, Metrics{}, Measure(image.NewRGBA(image.Rect(0, 0, 0, 0))))
}

func TestTargetScore(t *testing.T) {
	tgt := Target{MeanLuma: 0.1, Coverage: 0.2}
	assert.Zero(t, tgt.Score(Metrics{MeanLuma: 0.1, Coverage: 0.2, Chroma: 0.9}), "chroma ignored when unset")
	assert.InDelta(t, 1.0, tgt.Score(Metrics{MeanLuma: 0.2, Coverage: 0.2}), 1e-9)

	tgt.Chroma = 0.5
	assert.InDelta(t, 0.25, tgt.Score(Metrics{MeanLuma: 0.1, Coverage: 0.2, Chroma: 0.25}), 1e-9)
}

func TestEvaluateRanksDensity(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, cfg, Target{MeanLuma: 0.05, Coverage: 0.02}, 48, 27, []float64{0, 1})

	sparse := pv.DefaultVector()
	sparse[0] = 0.5
	_, err = fe.Evaluate(context.Background(), sparse)
	require.NoError(t, err)
	lowDensity := fe.LastMetrics()

	dense := pv.DefaultVector()
	dense[0] = 4
	_, err = fe.Evaluate(context.Background(), dense)
	require.NoError(t, err)
	highDensity := fe.LastMetrics()

	assert.Equal(t, 1.6, cfg.Starfield.Density, "base config untouched")
	assert.GreaterOrEqual(t, highDensity.MeanLuma, 0.0)
	assert.NotEqual(t, lowDensity, highDensity)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	score, err := fe.Evaluate(ctx, dense)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, math.IsInf(score, 1))
}
