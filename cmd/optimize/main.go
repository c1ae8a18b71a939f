// Package main provides CMA-ES tuning of starfield parameters: it searches for
// the density, glow and color settings whose CPU-rendered frames match a target
// brightness and star coverage.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/trgs-studio/nightreel/config"
)

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

// evalRow is one line of optimize_log.csv.
type evalRow struct {
	Eval             int     `csv:"eval"`
	Fitness          float64 `csv:"fitness"`
	MeanLuma         float64 `csv:"mean_luma"`
	Coverage         float64 `csv:"coverage"`
	Chroma           float64 `csv:"chroma"`
	Density          float64 `csv:"density"`
	GlowIntensity    float64 `csv:"glow_intensity"`
	TwinkleIntensity float64 `csv:"twinkle_intensity"`
	Saturation       float64 `csv:"saturation"`
	StarSpeed        float64 `csv:"star_speed"`
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	width := flag.Int("width", 192, "Render width of each sample frame")
	height := flag.Int("height", 108, "Render height of each sample frame")
	samples := flag.Int("samples", 3, "Frames per evaluation, one second apart")
	targetLuma := flag.Float64("luma", 0.04, "Target mean luminance")
	targetCoverage := flag.Float64("coverage", 0.02, "Target fraction of lit pixels")
	targetChroma := flag.Float64("chroma", 0, "Target chroma of lit pixels (0 = ignore)")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := config.Cfg()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	params := NewParamVector()
	times := make([]float64, *samples)
	for i := range times {
		times[i] = float64(i)
	}
	target := Target{MeanLuma: *targetLuma, Coverage: *targetCoverage, Chroma: *targetChroma}
	evaluator := NewFitnessEvaluator(params, baseCfg, target, *width, *height, times)

	dim := params.Dim()
	initX := params.Normalize(params.ExtractFromConfig(baseCfg))

	logPath := filepath.Join(*outputDir, "optimize_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()
	headerWritten := false

	evalCount := 0
	bestFitness := math.Inf(1)
	var bestParams []float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			clamped := params.Clamp(params.Denormalize(x))
			fitness, err := evaluator.Evaluate(ctx, clamped)
			if err != nil {
				return math.Inf(1)
			}
			evalCount++

			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = clamped
			}

			m := evaluator.LastMetrics()
			row := []evalRow{{
				Eval: evalCount, Fitness: fitness,
				MeanLuma: m.MeanLuma, Coverage: m.Coverage, Chroma: m.Chroma,
				Density: clamped[0], GlowIntensity: clamped[1], TwinkleIntensity: clamped[2],
				Saturation: clamped[3], StarSpeed: clamped[4],
			}}
			if headerWritten {
				err = gocsv.MarshalWithoutHeaders(row, logFile)
			} else {
				err = gocsv.Marshal(row, logFile)
				headerWritten = true
			}
			if err != nil {
				log.Printf("failed to log evaluation: %v", err)
			}

			elapsed := time.Since(startTime)
			avgPerEval := elapsed / time.Duration(evalCount)
			remaining := time.Duration(*maxEvals-evalCount) * avgPerEval

			fmt.Printf("Eval %d/%d: luma=%.4f coverage=%.4f chroma=%.3f fitness=%.5f (best=%.5f) | elapsed: %s, ETA: %s\n",
				evalCount, *maxEvals, m.MeanLuma, m.Coverage, m.Chroma, fitness, bestFitness,
				formatDuration(elapsed), formatDuration(remaining))

			return fitness
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // Sequential evaluation; each render is already row-parallel
	}

	popSize := *population
	if popSize == 0 {
		// Auto-size: 4 + floor(3*ln(n))
		popSize = 4 + int(3.0*math.Log(float64(dim)))
	}

	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}

	fmt.Printf("Starting CMA-ES tuning with %d parameters, population=%d, max_evals=%d\n",
		dim, popSize, *maxEvals)
	fmt.Printf("Target: luma=%.4f coverage=%.4f chroma=%.3f, %d frames of %dx%d per evaluation\n",
		target.MeanLuma, target.Coverage, target.Chroma, len(times), *width, *height)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		log.Fatal("no evaluation completed")
	}

	fmt.Printf("\nTuning complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best fitness: %.5f\n", bestFitness)

	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Path, bestParams[i])
	}

	bestCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to reload config: %v", err)
	}
	params.ApplyToConfig(bestCfg, bestParams)

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}
}
