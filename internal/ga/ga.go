// Package ga implements a generic genetic algorithm over flat real-valued
// chromosomes.
package ga

import (
	"birdsim/internal/rnd"
)

// Individual is anything the algorithm can breed.
type Individual interface {
	Fitness() float32
	Chromosome() Chromosome
}

// GeneticAlgorithm produces a new generation through selection, crossover
// and mutation. I is the concrete individual type; create materialises one
// from a freshly bred chromosome.
type GeneticAlgorithm[I Individual] struct {
	selection SelectionMethod
	crossover CrossoverMethod
	mutation  MutationMethod
	create    func(Chromosome) I
}

// New creates a genetic algorithm from its three strategies.
func New[I Individual](
	selection SelectionMethod,
	crossover CrossoverMethod,
	mutation MutationMethod,
	create func(Chromosome) I,
) *GeneticAlgorithm[I] {
	return &GeneticAlgorithm[I]{
		selection: selection,
		crossover: crossover,
		mutation:  mutation,
		create:    create,
	}
}

// Evolve returns a new population of the same size. For every slot it picks
// two parents (possibly the same one), crosses them over, mutates the child
// and materialises it. It panics on an empty population.
func (g *GeneticAlgorithm[I]) Evolve(rng rnd.Source, population []I) []I {
	if len(population) == 0 {
		panic("ga: cannot evolve an empty population")
	}

	fitness := make([]float32, len(population))
	for i, ind := range population {
		fitness[i] = ind.Fitness()
	}

	next := make([]I, len(population))
	for i := range next {
		parentA := population[g.selection.Select(rng, fitness)].Chromosome()
		parentB := population[g.selection.Select(rng, fitness)].Chromosome()

		child := g.crossover.Crossover(rng, parentA, parentB)
		g.mutation.Mutate(rng, child)

		next[i] = g.create(child)
	}
	return next
}
