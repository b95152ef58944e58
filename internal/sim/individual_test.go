package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"birdsim/internal/ga"
	"birdsim/internal/nn"
	"birdsim/internal/rnd"
)

func TestFromAnimal(t *testing.T) {
	cfg := testConfig()
	topology := nn.Topology(cfg.Topology())
	animal := randomAnimal(&cfg, topology, rnd.New(1))
	animal.Satiation = 5

	individual := FromAnimal(&animal)
	assert.Equal(t, float32(5), individual.Fitness())
	assert.Equal(t, ga.Chromosome(animal.Brain.Weights()), individual.Chromosome())
}

func TestIntoAnimal(t *testing.T) {
	cfg := testConfig()
	topology := nn.Topology(cfg.Topology())
	chromosome := make(ga.Chromosome, topology.GenomeSize())
	for i := range chromosome {
		chromosome[i] = float32(i) / 100
	}

	animal := NewAnimalIndividual(chromosome).IntoAnimal(&cfg, topology, rnd.New(1))
	assert.Equal(t, []float32(chromosome), animal.Brain.Weights())
	assert.Zero(t, animal.Satiation)
	assert.Equal(t, (cfg.Sim.SpeedMin+cfg.Sim.SpeedMax)/2, animal.Speed)
	assert.True(t, animal.Position.X >= 0 && animal.Position.X < 1)
	assert.True(t, animal.Position.Y >= 0 && animal.Position.Y < 1)
	assert.Equal(t, cfg.Eye.Cells, animal.Eye.Cells())
}

func TestAnimalIndividualRoundTrip(t *testing.T) {
	cfg := testConfig()
	topology := nn.Topology(cfg.Topology())
	rng := rnd.New(8)
	animal := randomAnimal(&cfg, topology, rng)

	reborn := FromAnimal(&animal).IntoAnimal(&cfg, topology, rng)
	assert.Equal(t, animal.Brain.Weights(), reborn.Brain.Weights())
}

func TestIntoAnimalTopologyMismatch(t *testing.T) {
	cfg := testConfig()
	topology := nn.Topology(cfg.Topology())
	assert.Panics(t, func() {
		NewAnimalIndividual(ga.Chromosome{1, 2}).IntoAnimal(&cfg, topology, rnd.New(1))
	})
}

func TestNewAnimalIndividualHasNoFitness(t *testing.T) {
	assert.Zero(t, NewAnimalIndividual(ga.Chromosome{1}).Fitness())
}
