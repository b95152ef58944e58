package ga

import (
	"errors"
	"fmt"

	"birdsim/internal/rnd"
)

// SelectionMethod picks one parent from a population, given every member's
// fitness in population order.
type SelectionMethod interface {
	Select(rng rnd.Source, fitness []float32) int
}

// RouletteWheelSelection picks individual i with probability
// fitness[i] / sum(fitness). When every fitness is zero it falls back to a
// uniform pick.
type RouletteWheelSelection struct{}

func (RouletteWheelSelection) Select(rng rnd.Source, fitness []float32) int {
	if len(fitness) == 0 {
		panic("ga: cannot select from an empty population")
	}

	weights := make([]float64, len(fitness))
	for i, f := range fitness {
		weights[i] = float64(f)
	}

	idx, err := rng.WeightedIndex(weights)
	switch {
	case err == nil:
		return idx
	case errors.Is(err, rnd.ErrNoWeight):
		return rng.Intn(len(fitness))
	default:
		panic(fmt.Sprintf("ga: roulette selection: %v", err))
	}
}
