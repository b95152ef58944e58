package sim

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"birdsim/internal/config"
	"birdsim/internal/nn"
	"birdsim/internal/rnd"
)

// Animal is one bird: a body on the torus driven by its brain.
type Animal struct {
	Position  r2.Vec
	Rotation  float64 // heading in (-pi, pi]; 0 faces +Y
	Speed     float64
	Brain     *nn.Network
	Eye       *Eye
	Satiation int

	vision []float32
}

// Vision returns what the eye reported on the last brain pass.
func (a *Animal) Vision() []float32 {
	return a.vision
}

// Food is a single food item; eaten food is moved, never removed.
type Food struct {
	Position r2.Vec
}

// World holds every animal and food item.
type World struct {
	Animals []Animal
	Foods   []Food
}

func randomAnimal(cfg *config.Config, topology nn.Topology, rng rnd.Source) Animal {
	brain := nn.Random(rng, topology)
	return newAnimal(cfg, brain, rng)
}

// newAnimal places a brain in a fresh body: random position, random
// heading, mid-range speed, empty stomach.
func newAnimal(cfg *config.Config, brain *nn.Network, rng rnd.Source) Animal {
	return Animal{
		Position: rng.Point(),
		Rotation: rng.Float64In(-math.Pi, math.Pi),
		Speed:    (cfg.Sim.SpeedMin + cfg.Sim.SpeedMax) / 2,
		Brain:    brain,
		Eye:      NewEye(cfg.Eye.FOVRange, cfg.Eye.FOVAngle, cfg.Eye.Cells),
	}
}

func randomFood(rng rnd.Source) Food {
	return Food{Position: rng.Point()}
}

func randomWorld(cfg *config.Config, topology nn.Topology, rng rnd.Source) World {
	w := World{
		Animals: make([]Animal, cfg.World.Animals),
		Foods:   make([]Food, cfg.World.Foods),
	}
	for i := range w.Animals {
		w.Animals[i] = randomAnimal(cfg, topology, rng)
	}
	for i := range w.Foods {
		w.Foods[i] = randomFood(rng)
	}
	return w
}
