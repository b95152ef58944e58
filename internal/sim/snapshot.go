package sim

// Snapshot is a plain copy of the world for renderers and replays.
type Snapshot struct {
	Generation int              `json:"generation"`
	Age        int              `json:"age"`
	Animals    []AnimalSnapshot `json:"animals"`
	Foods      []FoodSnapshot   `json:"foods"`
}

// AnimalSnapshot holds what a renderer needs to draw a bird.
type AnimalSnapshot struct {
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Rotation  float64   `json:"rotation"`
	Satiation int       `json:"satiation"`
	Vision    []float32 `json:"vision,omitempty"`
}

// FoodSnapshot holds a food position.
type FoodSnapshot struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Snapshot copies the current world.
func (s *Simulation) Snapshot() Snapshot {
	snap := Snapshot{
		Generation: s.generation,
		Age:        s.age,
		Animals:    make([]AnimalSnapshot, len(s.world.Animals)),
		Foods:      make([]FoodSnapshot, len(s.world.Foods)),
	}
	for i, a := range s.world.Animals {
		var vision []float32
		if a.vision != nil {
			vision = append([]float32(nil), a.vision...)
		}
		snap.Animals[i] = AnimalSnapshot{
			X:         a.Position.X,
			Y:         a.Position.Y,
			Rotation:  a.Rotation,
			Satiation: a.Satiation,
			Vision:    vision,
		}
	}
	for i, f := range s.world.Foods {
		snap.Foods[i] = FoodSnapshot{X: f.Position.X, Y: f.Position.Y}
	}
	return snap
}
