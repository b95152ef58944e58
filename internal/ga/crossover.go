package ga

import (
	"fmt"

	"birdsim/internal/rnd"
)

// CrossoverMethod combines two parent chromosomes into a new child.
type CrossoverMethod interface {
	Crossover(rng rnd.Source, parentA, parentB Chromosome) Chromosome
}

// UniformCrossover takes each gene from parent A or parent B on an
// independent coin flip.
type UniformCrossover struct{}

func (UniformCrossover) Crossover(rng rnd.Source, parentA, parentB Chromosome) Chromosome {
	if len(parentA) != len(parentB) {
		panic(fmt.Sprintf("ga: parents differ in length: %d vs %d", len(parentA), len(parentB)))
	}

	child := make(Chromosome, len(parentA))
	for i := range child {
		if rng.Bool(0.5) {
			child[i] = parentA[i]
		} else {
			child[i] = parentB[i]
		}
	}
	return child
}
