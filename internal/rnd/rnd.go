// Package rnd defines the random source consumed by the simulation core.
//
// Every operation that needs randomness takes a Source explicitly. The order
// in which draws are made is part of the observable behaviour: the same seed
// must reproduce the same trajectory.
package rnd

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
)

// ErrNoWeight is returned by WeightedIndex when the weights do not sum to a
// strictly positive value.
var ErrNoWeight = errors.New("rnd: total weight must be positive")

// Source is the random contract the core depends on.
type Source interface {
	// Bool returns true with probability p.
	Bool(p float64) bool
	// Float32 returns a value in [0, 1).
	Float32() float32
	// Float32In returns a value in [lo, hi).
	Float32In(lo, hi float32) float32
	// Float64In returns a value in [lo, hi).
	Float64In(lo, hi float64) float64
	// Point returns a point in the unit square [0,1)x[0,1).
	Point() r2.Vec
	// Intn returns a value in [0, n).
	Intn(n int) int
	// WeightedIndex picks an index with probability proportional to its weight.
	WeightedIndex(weights []float64) (int, error)
}

// Rand is a Source backed by math/rand.
type Rand struct {
	rng *rand.Rand
}

// New creates a seeded Source.
func New(seed int64) *Rand {
	return &Rand{rng: rand.New(rand.NewSource(seed))}
}

// Wrap adapts an existing generator.
func Wrap(rng *rand.Rand) *Rand {
	return &Rand{rng: rng}
}

func (r *Rand) Bool(p float64) bool {
	return r.rng.Float64() < p
}

func (r *Rand) Float32() float32 {
	return r.rng.Float32()
}

func (r *Rand) Float32In(lo, hi float32) float32 {
	return lo + (hi-lo)*r.rng.Float32()
}

func (r *Rand) Float64In(lo, hi float64) float64 {
	return lo + (hi-lo)*r.rng.Float64()
}

// Point draws X first, then Y.
func (r *Rand) Point() r2.Vec {
	x := r.rng.Float64()
	y := r.rng.Float64()
	return r2.Vec{X: x, Y: y}
}

func (r *Rand) Intn(n int) int {
	return r.rng.Intn(n)
}

// WeightedIndex consumes exactly one draw when it succeeds and none when it
// fails. Negative or NaN weights are rejected.
func (r *Rand) WeightedIndex(weights []float64) (int, error) {
	var total float64
	for i, w := range weights {
		if w < 0 || math.IsNaN(w) {
			return 0, fmt.Errorf("rnd: invalid weight %v at index %d", w, i)
		}
		total += w
	}
	if !(total > 0) || math.IsInf(total, 0) {
		return 0, ErrNoWeight
	}

	target := r.rng.Float64() * total
	last := 0
	for i, w := range weights {
		if w == 0 {
			continue
		}
		last = i
		if target < w {
			return i, nil
		}
		target -= w
	}
	// Rounding can leave a sliver past the final non-zero weight.
	return last, nil
}
