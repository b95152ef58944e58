package sim

import (
	"birdsim/internal/config"
	"birdsim/internal/ga"
	"birdsim/internal/nn"
	"birdsim/internal/rnd"
)

// AnimalIndividual is the genetic algorithm's view of an animal: how well it
// fed and what its brain looks like.
type AnimalIndividual struct {
	fitness    float32
	chromosome ga.Chromosome
}

// NewAnimalIndividual wraps a freshly bred chromosome. It has no fitness yet.
func NewAnimalIndividual(chromosome ga.Chromosome) *AnimalIndividual {
	return &AnimalIndividual{chromosome: chromosome}
}

// FromAnimal captures an animal's satiation and flattened brain.
func FromAnimal(animal *Animal) *AnimalIndividual {
	return &AnimalIndividual{
		fitness:    float32(animal.Satiation),
		chromosome: ga.Chromosome(animal.Brain.Weights()),
	}
}

func (a *AnimalIndividual) Fitness() float32          { return a.fitness }
func (a *AnimalIndividual) Chromosome() ga.Chromosome { return a.chromosome }

// IntoAnimal rebuilds a brain from the chromosome and gives it a new body.
// It panics if the chromosome does not match the topology.
func (a *AnimalIndividual) IntoAnimal(cfg *config.Config, topology nn.Topology, rng rnd.Source) Animal {
	brain := nn.FromWeights(topology, a.chromosome)
	return newAnimal(cfg, brain, rng)
}
