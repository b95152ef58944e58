package ga

import "math"

// Chromosome is a flat genome of real-valued genes.
type Chromosome []float32

// Len returns the number of genes.
func (c Chromosome) Len() int {
	return len(c)
}

// Clone makes a copy of a chromosome
func (c Chromosome) Clone() Chromosome {
	dst := make(Chromosome, len(c))
	copy(dst, c)
	return dst
}

// ApproxEqual reports whether both chromosomes have the same length and every
// pair of genes differs by at most tol.
func (c Chromosome) ApproxEqual(other Chromosome, tol float64) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if math.Abs(float64(c[i])-float64(other[i])) > tol {
			return false
		}
	}
	return true
}
