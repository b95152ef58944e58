package sim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Eye splits its field of view into equal angular cells and reports, per
// cell, how much food it sees. Closer food contributes more.
type Eye struct {
	fovRange float64
	fovAngle float64
	cells    int
}

// NewEye panics on a non-positive range, an angle outside (0, 2pi] or no cells.
func NewEye(fovRange, fovAngle float64, cells int) *Eye {
	if !(fovRange > 0) {
		panic(fmt.Sprintf("sim: eye range must be positive, got %v", fovRange))
	}
	if !(fovAngle > 0 && fovAngle <= 2*math.Pi) {
		panic(fmt.Sprintf("sim: eye angle must be in (0, 2pi], got %v", fovAngle))
	}
	if cells < 1 {
		panic(fmt.Sprintf("sim: eye needs at least one cell, got %d", cells))
	}
	return &Eye{fovRange: fovRange, fovAngle: fovAngle, cells: cells}
}

func (e *Eye) Cells() int        { return e.cells }
func (e *Eye) FOVRange() float64 { return e.fovRange }
func (e *Eye) FOVAngle() float64 { return e.fovAngle }

// ProcessVision returns one energy value per cell. Cell 0 covers the
// clockwise edge of the field of view.
func (e *Eye) ProcessVision(position r2.Vec, rotation float64, foods []Food) []float32 {
	cells := make([]float32, e.cells)

	for _, food := range foods {
		vec := torusDelta(position, food.Position)
		dist := r2.Norm(vec)
		if dist > e.fovRange {
			continue
		}

		angle := wrapAngle(bearing(vec) - rotation)
		if angle < -e.fovAngle/2 || angle > e.fovAngle/2 {
			continue
		}

		// shift into [0, fov] so the angle maps onto a cell index
		angle += e.fovAngle / 2
		cell := int(angle / e.fovAngle * float64(e.cells))
		if cell >= e.cells {
			cell = e.cells - 1
		}

		cells[cell] += float32((e.fovRange - dist) / e.fovRange)
	}

	return cells
}
