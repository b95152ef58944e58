package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestWrapUnit(t *testing.T) {
	assert.Equal(t, 0.0, wrapUnit(1.0))
	assert.InDelta(t, 0.9999, wrapUnit(-0.0001), 1e-12)
	assert.Equal(t, 0.5, wrapUnit(0.5))
	assert.Equal(t, 0.0, wrapUnit(-1e-20))
	assert.InDelta(t, 0.25, wrapUnit(2.25), 1e-12)
	assert.Equal(t, 0.0, wrapUnit(0))
}

func TestWrapAngle(t *testing.T) {
	assert.InDelta(t, math.Pi, wrapAngle(math.Pi), 1e-12)
	assert.InDelta(t, math.Pi, wrapAngle(-math.Pi), 1e-12)
	assert.InDelta(t, -math.Pi/2, wrapAngle(3*math.Pi/2), 1e-12)
	assert.InDelta(t, 0.25, wrapAngle(0.25+4*math.Pi), 1e-12)
	assert.Equal(t, 0.0, wrapAngle(0))
}

func TestTorusDelta(t *testing.T) {
	d := torusDelta(r2.Vec{X: 0.95, Y: 0.5}, r2.Vec{X: 0.05, Y: 0.5})
	assert.InDelta(t, 0.1, d.X, 1e-12)
	assert.InDelta(t, 0, d.Y, 1e-12)

	d = torusDelta(r2.Vec{X: 0.5, Y: 0.02}, r2.Vec{X: 0.4, Y: 0.98})
	assert.InDelta(t, -0.1, d.X, 1e-12)
	assert.InDelta(t, -0.04, d.Y, 1e-12)
}

func TestHeadingAndBearing(t *testing.T) {
	h := heading(0)
	assert.InDelta(t, 0, h.X, 1e-12)
	assert.InDelta(t, 1, h.Y, 1e-12)

	h = heading(math.Pi / 2)
	assert.InDelta(t, -1, h.X, 1e-12)
	assert.InDelta(t, 0, h.Y, 1e-12)

	for _, a := range []float64{-2.5, -1, 0, 0.3, 1.7, 3} {
		assert.InDelta(t, a, bearing(heading(a)), 1e-9)
	}
}
