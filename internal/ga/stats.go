package ga

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Statistics summarises the fitness of one population.
type Statistics struct {
	MinFitness    float32 `json:"min_fitness"`
	MaxFitness    float32 `json:"max_fitness"`
	AvgFitness    float32 `json:"avg_fitness"`
	MedianFitness float32 `json:"median_fitness"`
}

// NewStatistics computes fitness statistics. It panics on an empty population.
func NewStatistics[I Individual](population []I) Statistics {
	if len(population) == 0 {
		panic("ga: cannot compute statistics of an empty population")
	}

	values := make([]float64, len(population))
	for i, ind := range population {
		values[i] = float64(ind.Fitness())
	}
	sort.Float64s(values)

	return Statistics{
		MinFitness:    float32(floats.Min(values)),
		MaxFitness:    float32(floats.Max(values)),
		AvgFitness:    float32(stat.Mean(values, nil)),
		MedianFitness: float32(median(values)),
	}
}

// median expects sorted input. Even-sized populations average the two
// middle values: the empirical quantile at 0.5 is the lower one, and half a
// sample further on lands on the upper one.
func median(sorted []float64) float64 {
	m := stat.Quantile(0.5, stat.Empirical, sorted, nil)
	if n := len(sorted); n%2 == 0 {
		upper := stat.Quantile(0.5+0.5/float64(n), stat.Empirical, sorted, nil)
		m = (m + upper) / 2
	}
	return m
}

func (s Statistics) String() string {
	return fmt.Sprintf("min=%.2f, max=%.2f, avg=%.2f, median=%.2f",
		s.MinFitness, s.MaxFitness, s.AvgFitness, s.MedianFitness)
}
