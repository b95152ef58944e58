package ga

import (
	"fmt"

	"birdsim/internal/rnd"
)

// MutationMethod perturbs a chromosome in place.
type MutationMethod interface {
	Mutate(rng rnd.Source, child Chromosome)
}

// GaussianMutation nudges genes up or down by at most Coefficient.
type GaussianMutation struct {
	// Probability of touching a gene: 0 leaves every gene alone, 1 touches all.
	chance float32
	// Largest change a touched gene can receive.
	coefficient float32
}

// NewGaussianMutation panics unless chance is in [0, 1] and coefficient in [0, 3].
func NewGaussianMutation(chance, coefficient float32) GaussianMutation {
	if !(chance >= 0 && chance <= 1) {
		panic(fmt.Sprintf("ga: mutation chance %v outside [0, 1]", chance))
	}
	if !(coefficient >= 0 && coefficient <= 3) {
		panic(fmt.Sprintf("ga: mutation coefficient %v outside [0, 3]", coefficient))
	}
	return GaussianMutation{chance: chance, coefficient: coefficient}
}

func (m GaussianMutation) Chance() float32      { return m.chance }
func (m GaussianMutation) Coefficient() float32 { return m.coefficient }

// Mutate draws a sign for every gene, then decides whether to touch it.
func (m GaussianMutation) Mutate(rng rnd.Source, child Chromosome) {
	for i := range child {
		sign := float32(1)
		if rng.Bool(0.5) {
			sign = -1
		}
		if rng.Bool(float64(m.chance)) {
			child[i] += sign * m.coefficient * rng.Float32()
		}
	}
}
