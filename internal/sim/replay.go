package sim

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"

	"birdsim/internal/config"
	"birdsim/internal/rnd"
)

// Replay stores what is needed to reproduce a run deterministically: the
// configuration (seed included) and how many ticks were played.
type Replay struct {
	Config config.Config `json:"config"`
	Ticks  int           `json:"ticks"`
	Final  Snapshot      `json:"final"`
}

// NewReplay creates a new replay recorder
func NewReplay(cfg config.Config) *Replay {
	return &Replay{Config: cfg}
}

// Record counts one played tick.
func (r *Replay) Record() {
	r.Ticks++
}

// SetFinal stores the world as it looked after the last recorded tick.
func (r *Replay) SetFinal(snap Snapshot) {
	r.Final = snap
}

// Save writes the replay to a file
func (r *Replay) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadReplay loads a replay from a file
func LoadReplay(path string) (*Replay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Replay
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("replay %s: %w", path, err)
	}
	return &r, nil
}

// Playback recreates the simulation from the seed and plays every recorded
// tick. The same source drives construction and stepping.
func (r *Replay) Playback() *Simulation {
	rng := rnd.New(r.Config.Seed)
	s := New(r.Config, rng)
	for i := 0; i < r.Ticks; i++ {
		s.Step(rng)
	}
	return s
}

// Verify plays the replay back and checks it ends in the recorded state.
func (r *Replay) Verify() error {
	got := r.Playback().Snapshot()
	if !reflect.DeepEqual(got, r.Final) {
		return fmt.Errorf("replay diverged after %d ticks", r.Ticks)
	}
	return nil
}
