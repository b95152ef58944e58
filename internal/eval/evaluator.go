package eval

import (
	"runtime"
	"sync"

	"gonum.org/v1/gonum/stat"

	"birdsim/internal/config"
	"birdsim/internal/ga"
	"birdsim/internal/rnd"
	"birdsim/internal/sim"
)

// RunResult is the fitness history of one independently seeded run.
type RunResult struct {
	Seed        int64
	Generations []ga.Statistics
}

// AggregatedStats summarises one generation across every seed.
type AggregatedStats struct {
	Generation int
	AvgMean    float64
	AvgStd     float64
	MaxMean    float64
	NumRuns    int
}

// RobustnessScore computes the ranking score: mean - lambda * std
func (a AggregatedStats) RobustnessScore(lambda float64) float64 {
	return a.AvgMean - lambda*a.AvgStd
}

// Evaluator runs whole simulations for several seeds. Every simulation is
// single-threaded; only independent runs execute in parallel.
type Evaluator struct {
	cfg     config.Config
	workers int
}

// NewEvaluator creates a new evaluator; workers <= 0 means one per CPU.
func NewEvaluator(cfg config.Config, workers int) *Evaluator {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Evaluator{cfg: cfg, workers: workers}
}

// RunSeed plays generations full generations from seed.
func (e *Evaluator) RunSeed(seed int64, generations int) RunResult {
	cfg := e.cfg
	cfg.Seed = seed
	rng := rnd.New(seed)
	s := sim.New(cfg, rng)

	result := RunResult{Seed: seed, Generations: make([]ga.Statistics, 0, generations)}
	for len(result.Generations) < generations {
		if stats := s.Step(rng); stats != nil {
			result.Generations = append(result.Generations, *stats)
		}
	}
	return result
}

// RunSeeds runs every seed, in parallel, and returns results in seed order.
func (e *Evaluator) RunSeeds(seeds []int64, generations int) []RunResult {
	results := make([]RunResult, len(seeds))
	var wg sync.WaitGroup
	sem := make(chan struct{}, e.workers)

	for i, seed := range seeds {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, seed int64) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = e.RunSeed(seed, generations)
		}(i, seed)
	}
	wg.Wait()
	return results
}

// Aggregate computes per-generation statistics across runs.
func Aggregate(results []RunResult) []AggregatedStats {
	if len(results) == 0 {
		return nil
	}

	generations := len(results[0].Generations)
	for _, r := range results[1:] {
		if len(r.Generations) < generations {
			generations = len(r.Generations)
		}
	}

	out := make([]AggregatedStats, generations)
	avg := make([]float64, len(results))
	best := make([]float64, len(results))
	for g := 0; g < generations; g++ {
		for i, r := range results {
			avg[i] = float64(r.Generations[g].AvgFitness)
			best[i] = float64(r.Generations[g].MaxFitness)
		}
		mean, std := stat.PopMeanStdDev(avg, nil)
		out[g] = AggregatedStats{
			Generation: g + 1,
			AvgMean:    mean,
			AvgStd:     std,
			MaxMean:    stat.Mean(best, nil),
			NumRuns:    len(results),
		}
	}
	return out
}
