// Package sim runs the foraging world: birds perceive food through their
// eyes, their brains steer them, and every generation the genetic algorithm
// breeds the next flock from the best feeders.
package sim

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"birdsim/internal/config"
	"birdsim/internal/ga"
	"birdsim/internal/nn"
	"birdsim/internal/rnd"
)

// Simulation owns the world and advances it one tick at a time. It is not
// safe for concurrent use.
type Simulation struct {
	cfg        config.Config
	topology   nn.Topology
	world      World
	ga         *ga.GeneticAlgorithm[*AnimalIndividual]
	age        int
	generation int
}

// New builds a simulation with a random world. It panics if cfg does not
// validate.
func New(cfg config.Config, rng rnd.Source) *Simulation {
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("sim: invalid config: %v", err))
	}
	topology := nn.Topology(cfg.Topology())
	topology.Validate()

	return &Simulation{
		cfg:      cfg,
		topology: topology,
		world:    randomWorld(&cfg, topology, rng),
		ga: ga.New(
			ga.RouletteWheelSelection{},
			ga.UniformCrossover{},
			ga.NewGaussianMutation(float32(cfg.GA.MutationChance), float32(cfg.GA.MutationCoeff)),
			NewAnimalIndividual,
		),
	}
}

// Random builds a simulation with the default configuration.
func Random(rng rnd.Source) *Simulation {
	return New(config.Default(), rng)
}

// World returns a copy of the current world. Animals share their brain and
// eye with the simulation; both expose no mutators.
func (s *Simulation) World() World {
	w := World{
		Animals: make([]Animal, len(s.world.Animals)),
		Foods:   append([]Food(nil), s.world.Foods...),
	}
	copy(w.Animals, s.world.Animals)
	for i := range w.Animals {
		w.Animals[i].vision = append([]float32(nil), w.Animals[i].vision...)
	}
	return w
}

func (s *Simulation) Config() config.Config { return s.cfg }
func (s *Simulation) Topology() nn.Topology  { return s.topology }
func (s *Simulation) Age() int               { return s.age }
func (s *Simulation) Generation() int        { return s.generation }

// Step advances one tick: collisions, brains, movement. When the generation
// is over it also evolves the flock and returns the fitness statistics of
// the generation that just ended; otherwise it returns nil.
func (s *Simulation) Step(rng rnd.Source) *ga.Statistics {
	s.processCollisions(rng)
	s.processBrains()
	s.processMovements()

	s.age++
	if s.age > s.cfg.Sim.GenerationLength {
		stats := s.evolve(rng)
		return &stats
	}
	return nil
}

// Train evolves immediately, regardless of age, and returns the statistics
// of the population before evolution.
func (s *Simulation) Train(rng rnd.Source) ga.Statistics {
	return s.evolve(rng)
}

// processCollisions feeds animals in animal-major, food-minor order. A food
// item eaten this tick is moved away and cannot be eaten again until the
// next tick.
func (s *Simulation) processCollisions(rng rnd.Source) {
	eaten := make([]bool, len(s.world.Foods))

	for i := range s.world.Animals {
		animal := &s.world.Animals[i]
		for j := range s.world.Foods {
			if eaten[j] {
				continue
			}
			food := &s.world.Foods[j]

			distance := r2.Norm(torusDelta(animal.Position, food.Position))
			if distance <= s.cfg.World.FoodSize {
				animal.Satiation++
				*food = randomFood(rng)
				eaten[j] = true
			}
		}
	}
}

func (s *Simulation) processBrains() {
	for i := range s.world.Animals {
		animal := &s.world.Animals[i]

		animal.vision = animal.Eye.ProcessVision(animal.Position, animal.Rotation, s.world.Foods)
		response := animal.Brain.Propagate(animal.vision)

		accel := clamp(float64(response[0]), -s.cfg.Sim.SpeedAccel, s.cfg.Sim.SpeedAccel)
		rotation := clamp(float64(response[1]), -s.cfg.Sim.RotationAccel, s.cfg.Sim.RotationAccel)

		animal.Speed = clamp(animal.Speed+accel, s.cfg.Sim.SpeedMin, s.cfg.Sim.SpeedMax)
		animal.Rotation = wrapAngle(animal.Rotation + rotation)
	}
}

func (s *Simulation) processMovements() {
	for i := range s.world.Animals {
		animal := &s.world.Animals[i]

		animal.Position = r2.Add(animal.Position, r2.Scale(animal.Speed, heading(animal.Rotation)))
		animal.Position.X = wrapUnit(animal.Position.X)
		animal.Position.Y = wrapUnit(animal.Position.Y)
	}
}

// evolve replaces every animal with an offspring and scatters the food.
// Randomness is consumed in this order: breeding, new bodies, food.
func (s *Simulation) evolve(rng rnd.Source) ga.Statistics {
	s.age = 0
	s.generation++

	current := s.individuals()
	stats := ga.NewStatistics(current)

	evolved := s.ga.Evolve(rng, current)
	for i, individual := range evolved {
		s.world.Animals[i] = individual.IntoAnimal(&s.cfg, s.topology, rng)
	}
	for i := range s.world.Foods {
		s.world.Foods[i] = randomFood(rng)
	}

	return stats
}

// individuals captures the flock for breeding. In reverse mode the best
// feeders score lowest.
func (s *Simulation) individuals() []*AnimalIndividual {
	population := make([]*AnimalIndividual, len(s.world.Animals))
	maxSatiation := 0
	for i := range s.world.Animals {
		population[i] = FromAnimal(&s.world.Animals[i])
		if sat := s.world.Animals[i].Satiation; sat > maxSatiation {
			maxSatiation = sat
		}
	}

	if s.cfg.GA.Reverse {
		for i, individual := range population {
			individual.fitness = float32(maxSatiation - s.world.Animals[i].Satiation)
		}
	}
	return population
}
