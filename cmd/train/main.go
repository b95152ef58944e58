package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"birdsim/internal/config"
	"birdsim/internal/eval"
	"birdsim/internal/ga"
	"birdsim/internal/history"
	"birdsim/internal/logging"
	"birdsim/internal/rnd"
	"birdsim/internal/sim"
)

func main() {
	configPath := flag.String("config", "", "path to config file (.yaml or .ini); defaults are used when empty")
	generations := flag.Int("generations", 100, "number of generations to run")
	fast := flag.Bool("fast", false, "evolve immediately instead of simulating each generation")
	seeds := flag.String("benchmark-seeds", "", "comma-separated seeds; runs a multi-seed benchmark instead of training")
	workers := flag.Int("workers", 0, "benchmark workers (0 = one per CPU)")
	lambda := flag.Float64("robust-lambda", 1.0, "std penalty of the benchmark robustness score")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if *seeds != "" {
		if err := runBenchmark(cfg, *seeds, *generations, *workers, *lambda); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := runTraining(context.Background(), cfg, *generations, *fast); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		cfg := config.Default()
		return &cfg, nil
	}
	return config.Load(path)
}

func runTraining(ctx context.Context, cfg *config.Config, generations int, fast bool) (err error) {
	fmt.Printf("Bird simulation trainer - seed %d\n", cfg.Seed)
	fmt.Printf("Animals: %d, Foods: %d, Brain: %v\n", cfg.World.Animals, cfg.World.Foods, cfg.Topology())
	fmt.Printf("Generation length: %d ticks, Mutation: chance=%.3f coeff=%.2f, Reverse: %v\n",
		cfg.Sim.GenerationLength, cfg.GA.MutationChance, cfg.GA.MutationCoeff, cfg.GA.Reverse)
	fmt.Println("---")

	logger, err := logging.NewLogger(cfg.Logging.CSVPath, cfg.Logging.JSONPath)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	if err := logger.Init(); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logger.Close()

	store, err := history.NewStore(cfg.Logging.History, cfg.Logging.HistoryPath)
	if err != nil {
		return err
	}
	if err := store.Init(ctx); err != nil {
		return fmt.Errorf("initializing history: %w", err)
	}
	defer closeHistory(store, &err)
	runID := history.NewRunID()

	rng := rnd.New(cfg.Seed)
	s := sim.New(*cfg, rng)

	startTime := time.Now()
	for gen := 1; gen <= generations; gen++ {
		genStart := time.Now()

		var (
			stats ga.Statistics
			ticks int
		)
		if fast {
			stats = s.Train(rng)
		} else {
			for {
				ticks++
				if st := s.Step(rng); st != nil {
					stats = *st
					break
				}
			}
		}

		summary := logging.NewGenerationSummary(gen, ticks, stats, time.Since(genStart))
		if cfg.Logging.EveryGenSummary || gen == generations {
			if err := logger.LogGeneration(summary); err != nil {
				return fmt.Errorf("logging generation %d: %w", gen, err)
			}
		}
		if err := store.Append(ctx, history.Record{
			RunID:      runID,
			Generation: gen,
			Stats:      stats,
			RecordedAt: time.Now(),
		}); err != nil {
			return fmt.Errorf("recording generation %d: %w", gen, err)
		}
	}

	fmt.Println("---")
	fmt.Printf("Training complete! %d generations in %v (run %s)\n", generations, time.Since(startTime), runID)
	return nil
}

// closeHistory closes the store and reports a failure through err unless an
// earlier error is already set.
func closeHistory(store history.Store, err *error) {
	if cerr := history.CloseIfSupported(store); cerr != nil && *err == nil {
		*err = fmt.Errorf("closing history: %w", cerr)
	}
}

func runBenchmark(cfg *config.Config, seedList string, generations, workers int, lambda float64) error {
	seeds, err := parseSeeds(seedList)
	if err != nil {
		return err
	}

	evaluator := eval.NewEvaluator(*cfg, workers)
	results := evaluator.RunSeeds(seeds, generations)
	for _, agg := range eval.Aggregate(results) {
		fmt.Printf("  [Benchmark] Gen %d: Avg=%.2f±%.2f, Max=%.2f, Robust=%.2f over %d seeds\n",
			agg.Generation, agg.AvgMean, agg.AvgStd, agg.MaxMean, agg.RobustnessScore(lambda), agg.NumRuns)
	}
	return nil
}

func parseSeeds(list string) ([]int64, error) {
	var seeds []int64
	for _, field := range strings.Split(list, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		seed, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid seed %q: %w", field, err)
		}
		seeds = append(seeds, seed)
	}
	if len(seeds) == 0 {
		return nil, fmt.Errorf("no seeds given")
	}
	return seeds, nil
}
