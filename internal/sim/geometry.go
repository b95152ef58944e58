package sim

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// wrapUnit maps x into [0, 1).
func wrapUnit(x float64) float64 {
	x -= math.Floor(x)
	if x >= 1 {
		// tiny negatives round up to exactly 1
		return 0
	}
	return x
}

// wrapAngle maps a into (-pi, pi].
func wrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// torusDelta returns the shortest vector from p to q on the unit torus.
func torusDelta(p, q r2.Vec) r2.Vec {
	d := r2.Sub(q, p)
	d.X -= math.Round(d.X)
	d.Y -= math.Round(d.Y)
	return d
}

// heading is the unit direction for rotation a; a = 0 points along +Y.
func heading(a float64) r2.Vec {
	return r2.Rotate(r2.Vec{Y: 1}, a, r2.Vec{})
}

// bearing is the angle that rotates +Y onto d.
func bearing(d r2.Vec) float64 {
	return math.Atan2(-d.X, d.Y)
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
