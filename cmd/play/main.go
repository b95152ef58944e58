package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"birdsim/internal/config"
	"birdsim/internal/rnd"
	"birdsim/internal/sim"
)

func main() {
	configPath := flag.String("config", "", "path to config file (.yaml or .ini); defaults are used when empty")
	seed := flag.Int64("seed", 0, "override the config seed (0 keeps it)")
	ticks := flag.Int("ticks", 2500, "number of ticks to play")
	every := flag.Int("every", 10, "emit one frame every N ticks")
	framesPath := flag.String("frames", "", "write world frames as JSON lines here (- for stdout)")
	recordPath := flag.String("record", "", "save a replay of the run to this path")
	verifyPath := flag.String("verify", "", "play back a saved replay and check it reproduces")
	flag.Parse()

	if *verifyPath != "" {
		if err := verifyReplay(*verifyPath); err != nil {
			fmt.Fprintf(os.Stderr, "Replay verification failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Replay verified")
		return
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = *loaded
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	var frames io.Writer
	switch *framesPath {
	case "":
	case "-":
		frames = os.Stdout
	default:
		f, err := os.Create(*framesPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating frames file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		frames = f
	}

	replay, err := play(cfg, *ticks, *every, frames)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *recordPath != "" {
		if err := replay.Save(*recordPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving replay: %v\n", err)
			os.Exit(1)
		}
	}

	// keep stdout clean for frame consumers
	out := os.Stdout
	if frames == os.Stdout {
		out = os.Stderr
	}
	printSummary(out, cfg.Seed, replay.Final)
}

// play steps a fresh simulation and returns the replay that reproduces it.
func play(cfg config.Config, ticks, every int, frames io.Writer) (*sim.Replay, error) {
	if every < 1 {
		every = 1
	}

	rng := rnd.New(cfg.Seed)
	s := sim.New(cfg, rng)
	replay := sim.NewReplay(cfg)

	var w *bufio.Writer
	var enc *json.Encoder
	if frames != nil {
		w = bufio.NewWriter(frames)
		enc = json.NewEncoder(w)
	}

	for tick := 1; tick <= ticks; tick++ {
		if stats := s.Step(rng); stats != nil {
			fmt.Fprintf(os.Stderr, "Gen %4d | %s\n", s.Generation(), stats)
		}
		replay.Record()

		if enc != nil && tick%every == 0 {
			if err := enc.Encode(s.Snapshot()); err != nil {
				return nil, fmt.Errorf("writing frame %d: %w", tick, err)
			}
		}
	}
	if w != nil {
		if err := w.Flush(); err != nil {
			return nil, fmt.Errorf("flushing frames: %w", err)
		}
	}

	replay.SetFinal(s.Snapshot())
	return replay, nil
}

func verifyReplay(path string) error {
	replay, err := sim.LoadReplay(path)
	if err != nil {
		return err
	}
	return replay.Verify()
}

func printSummary(w io.Writer, seed int64, snap sim.Snapshot) {
	eaten, best := 0, 0
	for _, a := range snap.Animals {
		eaten += a.Satiation
		if a.Satiation > best {
			best = a.Satiation
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "═══════════════════════════════════")
	fmt.Fprintf(w, "  Seed: %d, Generation: %d, Age: %d\n", seed, snap.Generation, snap.Age)
	fmt.Fprintf(w, "  Birds: %d, Foods: %d\n", len(snap.Animals), len(snap.Foods))
	fmt.Fprintf(w, "  Eaten this generation: %d (best bird: %d)\n", eaten, best)
	fmt.Fprintln(w, "═══════════════════════════════════")
}
