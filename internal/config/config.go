package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure
type Config struct {
	Seed    int64       `yaml:"seed" json:"seed"`
	World   WorldConfig `yaml:"world" json:"world"`
	Brain   BrainConfig `yaml:"brain" json:"brain"`
	Eye     EyeConfig   `yaml:"eye" json:"eye"`
	Sim     SimConfig   `yaml:"sim" json:"sim"`
	GA      GAConfig    `yaml:"ga" json:"ga"`
	Logging LogConfig   `yaml:"logging" json:"logging"`
}

// WorldConfig defines the population and food supply
type WorldConfig struct {
	Animals  int     `yaml:"animals" json:"animals" ini:"animals"`
	Foods    int     `yaml:"foods" json:"foods" ini:"foods"`
	FoodSize float64 `yaml:"food_size" json:"food_size" ini:"food_size"` // also the eating radius
}

// BrainConfig defines the hidden layer of every brain
type BrainConfig struct {
	Neurons int `yaml:"neurons" json:"neurons" ini:"neurons"`
}

// EyeConfig defines the sensor
type EyeConfig struct {
	FOVRange float64 `yaml:"fov_range" json:"fov_range" ini:"fov_range"`
	FOVAngle float64 `yaml:"fov_angle" json:"fov_angle" ini:"fov_angle"` // radians
	Cells    int     `yaml:"cells" json:"cells" ini:"cells"`
}

// SimConfig defines motion bounds and the generation length
type SimConfig struct {
	SpeedMin         float64 `yaml:"speed_min" json:"speed_min" ini:"speed_min"`
	SpeedMax         float64 `yaml:"speed_max" json:"speed_max" ini:"speed_max"`
	SpeedAccel       float64 `yaml:"speed_accel" json:"speed_accel" ini:"speed_accel"`
	RotationAccel    float64 `yaml:"rotation_accel" json:"rotation_accel" ini:"rotation_accel"`
	GenerationLength int     `yaml:"generation_length" json:"generation_length" ini:"generation_length"`
}

// GAConfig defines genetic algorithm parameters
type GAConfig struct {
	MutationChance float64 `yaml:"mutation_chance" json:"mutation_chance" ini:"mutation_chance"`
	MutationCoeff  float64 `yaml:"mutation_coeff" json:"mutation_coeff" ini:"mutation_coeff"`
	Reverse        bool    `yaml:"reverse" json:"reverse" ini:"reverse"` // reward avoiding food
}

// LogConfig defines logging parameters
type LogConfig struct {
	EveryGenSummary bool   `yaml:"every_gen_summary" json:"every_gen_summary" ini:"every_gen_summary"`
	CSVPath         string `yaml:"csv_path" json:"csv_path" ini:"csv_path"`
	JSONPath        string `yaml:"json_path" json:"json_path" ini:"json_path"`
	History         string `yaml:"history" json:"history" ini:"history"` // memory|sqlite
	HistoryPath     string `yaml:"history_path" json:"history_path" ini:"history_path"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Seed: 1337,
		World: WorldConfig{
			Animals:  40,
			Foods:    60,
			FoodSize: 0.01,
		},
		Brain: BrainConfig{
			Neurons: 9,
		},
		Eye: EyeConfig{
			FOVRange: 0.25,
			FOVAngle: math.Pi + math.Pi/4,
			Cells:    9,
		},
		Sim: SimConfig{
			SpeedMin:         0.0001,
			SpeedMax:         0.0005,
			SpeedAccel:       0.2,
			RotationAccel:    math.Pi / 2,
			GenerationLength: 2500,
		},
		GA: GAConfig{
			MutationChance: 0.01,
			MutationCoeff:  0.3,
		},
		Logging: LogConfig{
			CSVPath:     "runs/run.csv",
			JSONPath:    "runs/run.jsonl",
			History:     "memory",
			HistoryPath: "runs/history.db",
		},
	}
}

// Load reads a YAML or INI config file and returns a validated Config.
// Keys missing from the file keep their Default value; keys that are present
// are taken as written, zero included.
func Load(path string) (*Config, error) {
	cfg := Default()

	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ini":
		err = loadINI(path, &cfg)
	default:
		err = loadYAML(path, &cfg)
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file '%s': %w", path, err)
	}
	return nil
}

// loadINI maps one section per group; the seed lives in the default section.
func loadINI(path string, cfg *Config) error {
	file, err := ini.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load config file '%s': %w", path, err)
	}

	root := struct {
		Seed int64 `ini:"seed"`
	}{Seed: cfg.Seed}
	sections := []struct {
		name string
		dst  interface{}
	}{
		{ini.DefaultSection, &root},
		{"world", &cfg.World},
		{"brain", &cfg.Brain},
		{"eye", &cfg.Eye},
		{"sim", &cfg.Sim},
		{"ga", &cfg.GA},
		{"logging", &cfg.Logging},
	}
	for _, s := range sections {
		if err := file.Section(s.name).MapTo(s.dst); err != nil {
			return fmt.Errorf("failed to map [%s] section: %w", s.name, err)
		}
	}
	cfg.Seed = root.Seed
	return nil
}

// Validate reports values the simulation would refuse to run with.
func (c *Config) Validate() error {
	var errs []error
	if c.World.Animals < 1 {
		errs = append(errs, fmt.Errorf("world.animals must be positive, got %d", c.World.Animals))
	}
	if c.World.Foods < 0 {
		errs = append(errs, fmt.Errorf("world.foods must not be negative, got %d", c.World.Foods))
	}
	if c.World.FoodSize < 0 {
		errs = append(errs, fmt.Errorf("world.food_size must not be negative, got %v", c.World.FoodSize))
	}
	if c.Brain.Neurons < 1 {
		errs = append(errs, fmt.Errorf("brain.neurons must be positive, got %d", c.Brain.Neurons))
	}
	if c.Eye.Cells < 1 {
		errs = append(errs, fmt.Errorf("eye.cells must be positive, got %d", c.Eye.Cells))
	}
	if c.Eye.FOVRange <= 0 {
		errs = append(errs, fmt.Errorf("eye.fov_range must be positive, got %v", c.Eye.FOVRange))
	}
	if c.Eye.FOVAngle <= 0 || c.Eye.FOVAngle > 2*math.Pi {
		errs = append(errs, fmt.Errorf("eye.fov_angle must be in (0, 2pi], got %v", c.Eye.FOVAngle))
	}
	if c.Sim.SpeedMin < 0 || c.Sim.SpeedMin > c.Sim.SpeedMax {
		errs = append(errs, fmt.Errorf("sim speed bounds [%v, %v] are invalid", c.Sim.SpeedMin, c.Sim.SpeedMax))
	}
	if c.Sim.SpeedAccel < 0 {
		errs = append(errs, fmt.Errorf("sim.speed_accel must not be negative, got %v", c.Sim.SpeedAccel))
	}
	if c.Sim.RotationAccel < 0 {
		errs = append(errs, fmt.Errorf("sim.rotation_accel must not be negative, got %v", c.Sim.RotationAccel))
	}
	if c.Sim.GenerationLength < 1 {
		errs = append(errs, fmt.Errorf("sim.generation_length must be positive, got %d", c.Sim.GenerationLength))
	}
	if c.GA.MutationChance < 0 || c.GA.MutationChance > 1 {
		errs = append(errs, fmt.Errorf("ga.mutation_chance must be in [0, 1], got %v", c.GA.MutationChance))
	}
	if c.GA.MutationCoeff < 0 || c.GA.MutationCoeff > 3 {
		errs = append(errs, fmt.Errorf("ga.mutation_coeff must be in [0, 3], got %v", c.GA.MutationCoeff))
	}
	switch c.Logging.History {
	case "memory", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("logging.history must be memory or sqlite, got %q", c.Logging.History))
	}
	return errors.Join(errs...)
}

// Topology returns the brain shape: one input per eye cell, one hidden
// layer, and two outputs (acceleration, rotation).
func (c *Config) Topology() []int {
	return []int{c.Eye.Cells, c.Brain.Neurons, 2}
}
