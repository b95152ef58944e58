package sim

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"birdsim/internal/config"
	"birdsim/internal/ga"
	"birdsim/internal/nn"
	"birdsim/internal/rnd"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Seed = 42
	cfg.World.Animals = 4
	cfg.World.Foods = 10
	cfg.Sim.GenerationLength = 20
	return cfg
}

func brains(s *Simulation) [][]float32 {
	out := make([][]float32, len(s.world.Animals))
	for i := range s.world.Animals {
		out[i] = s.world.Animals[i].Brain.Weights()
	}
	return out
}

func TestRandom(t *testing.T) {
	s := Random(rnd.New(1))
	assert.Len(t, s.World().Animals, 40)
	assert.Len(t, s.World().Foods, 60)
	assert.Zero(t, s.Age())
	assert.Zero(t, s.Generation())

	for _, a := range s.World().Animals {
		assert.Equal(t, s.Topology(), a.Brain.Topology())
		assert.Zero(t, a.Satiation)
		assert.True(t, a.Position.X >= 0 && a.Position.X < 1)
		assert.True(t, a.Position.Y >= 0 && a.Position.Y < 1)
	}
}

func TestWorldIsACopy(t *testing.T) {
	rng := rnd.New(2)
	s := New(testConfig(), rng)
	s.Step(rng)

	w := s.World()
	before := s.Snapshot()
	w.Animals[0].Position = r2.Vec{X: 0.123, Y: 0.456}
	w.Animals[0].Satiation = 99
	w.Animals[0].Vision()[0] = 42
	w.Foods[0].Position = r2.Vec{X: 0.789, Y: 0.012}
	w.Animals = w.Animals[:1]

	assert.Equal(t, before, s.Snapshot())
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.GA.MutationCoeff = 5
	assert.Panics(t, func() { New(cfg, rnd.New(1)) })
}

func TestCollisions(t *testing.T) {
	cfg := testConfig()
	cfg.World.Animals = 2
	cfg.World.Foods = 3
	s := New(cfg, rnd.New(1))

	s.world.Animals[0].Position = r2.Vec{X: 0.2, Y: 0.2}
	s.world.Animals[1].Position = r2.Vec{X: 0.2, Y: 0.2}
	s.world.Foods[0] = food(0.2, 0.205)
	s.world.Foods[1] = food(0.2, 0.195)
	s.world.Foods[2] = food(0.8, 0.8)

	s.processCollisions(rnd.New(2))

	// the first animal eats both nearby foods, leaving nothing for the second
	assert.Equal(t, 2, s.world.Animals[0].Satiation)
	assert.Equal(t, 0, s.world.Animals[1].Satiation)
	assert.NotEqual(t, r2.Vec{X: 0.2, Y: 0.205}, s.world.Foods[0].Position)
	assert.NotEqual(t, r2.Vec{X: 0.2, Y: 0.195}, s.world.Foods[1].Position)
	assert.Equal(t, r2.Vec{X: 0.8, Y: 0.8}, s.world.Foods[2].Position)
}

func TestCollisionsAcrossTorusEdge(t *testing.T) {
	cfg := testConfig()
	cfg.World.Animals = 1
	cfg.World.Foods = 1
	s := New(cfg, rnd.New(1))

	s.world.Animals[0].Position = r2.Vec{X: 0.999, Y: 0.5}
	s.world.Foods[0] = food(0.001, 0.5)

	s.processCollisions(rnd.New(2))
	assert.Equal(t, 1, s.world.Animals[0].Satiation)
}

func TestMovementWrapsAroundTorus(t *testing.T) {
	cfg := testConfig()
	cfg.World.Animals = 1
	s := New(cfg, rnd.New(1))

	a := &s.world.Animals[0]
	a.Position = r2.Vec{X: 0.9999, Y: 0.5}
	a.Rotation = -math.Pi / 2 // facing +X
	a.Speed = 0.0005

	s.processMovements()
	assert.InDelta(t, 0.0004, a.Position.X, 1e-9)
	assert.InDelta(t, 0.5, a.Position.Y, 1e-9)
}

func TestStepKeepsAnimalsInBounds(t *testing.T) {
	cfg := testConfig()
	cfg.Sim.GenerationLength = 1000
	rng := rnd.New(5)
	s := New(cfg, rng)

	for tick := 0; tick < 300; tick++ {
		require.Nil(t, s.Step(rng))
		for _, a := range s.World().Animals {
			assert.True(t, a.Position.X >= 0 && a.Position.X < 1, "x=%v", a.Position.X)
			assert.True(t, a.Position.Y >= 0 && a.Position.Y < 1, "y=%v", a.Position.Y)
			assert.True(t, a.Speed >= cfg.Sim.SpeedMin && a.Speed <= cfg.Sim.SpeedMax, "speed=%v", a.Speed)
			assert.True(t, a.Rotation > -math.Pi && a.Rotation <= math.Pi, "rotation=%v", a.Rotation)
			assert.Len(t, a.Vision(), cfg.Eye.Cells)
		}
	}
	assert.Equal(t, 300, s.Age())
}

func TestStepEvolvesAfterGenerationLength(t *testing.T) {
	cfg := testConfig()
	rng := rnd.New(7)
	s := New(cfg, rng)

	for tick := 1; tick <= cfg.Sim.GenerationLength; tick++ {
		require.Nil(t, s.Step(rng), "tick %d", tick)
		assert.Equal(t, tick, s.Age())
	}

	for i := range s.world.Animals {
		s.world.Animals[i].Satiation = i + 3
	}

	stats := s.Step(rng)
	require.NotNil(t, stats)
	assert.GreaterOrEqual(t, stats.MaxFitness, float32(6))
	assert.GreaterOrEqual(t, stats.MinFitness, float32(3))

	assert.Zero(t, s.Age())
	assert.Equal(t, 1, s.Generation())
	require.Len(t, s.World().Animals, cfg.World.Animals)
	require.Len(t, s.World().Foods, cfg.World.Foods)
	for _, a := range s.World().Animals {
		assert.Zero(t, a.Satiation)
		assert.Equal(t, (cfg.Sim.SpeedMin+cfg.Sim.SpeedMax)/2, a.Speed)
	}
}

func TestTrain(t *testing.T) {
	rng := rnd.New(3)
	s := New(testConfig(), rng)
	for i, sat := range []int{3, 1, 0, 2} {
		s.world.Animals[i].Satiation = sat
	}
	s.age = 7

	stats := s.Train(rng)
	assert.Equal(t, ga.Statistics{MinFitness: 0, MaxFitness: 3, AvgFitness: 1.5, MedianFitness: 1.5}, stats)
	assert.Zero(t, s.Age())
	assert.Equal(t, 1, s.Generation())
	for _, a := range s.World().Animals {
		assert.Zero(t, a.Satiation)
	}
}

func TestTrainOffspringComeFromParents(t *testing.T) {
	cfg := testConfig()
	rng := rnd.New(9)
	s := New(cfg, rng)
	parents := brains(s)
	for i := range s.world.Animals {
		s.world.Animals[i].Satiation = i + 1
	}

	s.Train(rng)

	for _, child := range brains(s) {
		require.Len(t, child, len(parents[0]))
		for g, gene := range child {
			near := false
			for _, parent := range parents {
				if math.Abs(float64(gene)-float64(parent[g])) <= cfg.GA.MutationCoeff+1e-6 {
					near = true
					break
				}
			}
			assert.True(t, near, "gene %d = %v is not within mutation reach of any parent", g, gene)
		}
	}
}

func TestReverseFitness(t *testing.T) {
	cfg := testConfig()
	cfg.GA.Reverse = true
	s := New(cfg, rnd.New(3))
	for i, sat := range []int{4, 1, 0, 0} {
		s.world.Animals[i].Satiation = sat
	}

	var fitness []float32
	for _, ind := range s.individuals() {
		fitness = append(fitness, ind.Fitness())
	}
	assert.Equal(t, []float32{0, 3, 4, 4}, fitness)
}

func TestDeterminism(t *testing.T) {
	cfg := testConfig()
	rngA, rngB := rnd.New(cfg.Seed), rnd.New(cfg.Seed)
	a, b := New(cfg, rngA), New(cfg, rngB)

	// covers two evolution cycles
	for tick := 0; tick < 2*cfg.Sim.GenerationLength+5; tick++ {
		statsA, statsB := a.Step(rngA), b.Step(rngB)
		require.Equal(t, statsA, statsB, "tick %d", tick)
		require.Equal(t, a.Snapshot(), b.Snapshot(), "tick %d", tick)
		require.Equal(t, brains(a), brains(b), "tick %d", tick)
	}
	assert.Equal(t, 2, a.Generation())
}

func TestOneGenerationEndToEnd(t *testing.T) {
	cfg := testConfig()
	cfg.Eye.Cells = 3
	cfg.Brain.Neurons = 2

	run := func() (*Simulation, int) {
		rng := rnd.New(cfg.Seed)
		s := New(cfg, rng)
		evolutions := 0
		for tick := 0; tick < cfg.Sim.GenerationLength+1; tick++ {
			if s.Step(rng) != nil {
				evolutions++
			}
		}
		return s, evolutions
	}

	first, evolutions := run()
	assert.Equal(t, 1, evolutions)
	assert.Equal(t, 1, first.Generation())
	assert.Zero(t, first.Age())
	require.Equal(t, nn.Topology{3, 2, 2}, first.Topology())

	// Flattened brains of the bred flock for seed 42. Any change to how
	// much randomness a tick or a breeding cycle consumes shows up here.
	expected := [][]float32{
		{-0.6468039, 0.94696, 0.8734801, 0.06564081, -0.6968391, 0.25448823, -0.46310878, 0.5119178, -0.48212332, -0.88630676, 0.36979496, 0.14369905, 0.4492551, -0.87871104},
		{0.43181217, 0.8833424, 0.9415612, 0.71176887, -0.31966615, 0.25448823, 0.48641717, 0.5119178, -0.9160442, 0.8535769, 0.40895092, 0.14369905, 0.6692208, 0.08716595},
		{-0.25394326, -0.867999, 0.2081877, -0.5823626, -0.91236305, -0.23361337, 0.62575424, -0.23110831, -0.23391068, 0.29275274, 0.47125864, -0.56411684, -0.27663445, -0.7575238},
		{-0.8594265, -0.867999, 0.2081877, 0.71176887, -0.91236305, -0.23361337, 0.62575424, -0.23110831, -0.48956645, -0.88630676, 0.47125864, -0.56411684, -0.27663445, -0.7575238},
	}
	assert.Equal(t, expected, brains(first))

	second, _ := run()
	assert.Equal(t, brains(first), brains(second))
}

func TestReplay(t *testing.T) {
	cfg := testConfig()
	rng := rnd.New(cfg.Seed)
	s := New(cfg, rng)
	replay := NewReplay(cfg)

	for tick := 0; tick < cfg.Sim.GenerationLength+10; tick++ {
		s.Step(rng)
		replay.Record()
	}
	replay.SetFinal(s.Snapshot())

	path := filepath.Join(t.TempDir(), "replay.json")
	require.NoError(t, replay.Save(path))

	loaded, err := LoadReplay(path)
	require.NoError(t, err)
	assert.Equal(t, replay.Ticks, loaded.Ticks)
	assert.NoError(t, loaded.Verify())

	loaded.Ticks++
	assert.Error(t, loaded.Verify())
}

func TestLoadReplayMissing(t *testing.T) {
	_, err := LoadReplay(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
