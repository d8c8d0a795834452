package config

import (
	"fmt"
	"log"
	"os"

	"github.com/san-kum/bubblechamber/internal/dynamo"
	"github.com/san-kum/bubblechamber/internal/generator"
	"github.com/san-kum/bubblechamber/internal/integrators"
	"github.com/san-kum/bubblechamber/internal/physics"
	"github.com/san-kum/bubblechamber/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 1.0 / 60
	DefaultDuration = 30.0
	DefaultCount    = 5
	DefaultFriction = 0.2
	DefaultFieldZ   = 1.5
)

type Config struct {
	Chamber       ChamberConfig   `yaml:"chamber"`
	Generator     GeneratorConfig `yaml:"generator"`
	Governor      GovernorConfig  `yaml:"governor"`
	Integrator    string          `yaml:"integrator"`
	Dt            float64         `yaml:"dt"`
	Duration      float64         `yaml:"duration"`
	Seed          int64           `yaml:"seed"`
	ValidateState bool            `yaml:"validate_state"`
}

type ChamberConfig struct {
	Field    [3]float64 `yaml:"field"`
	Friction float64    `yaml:"friction"`
}

type GeneratorConfig struct {
	Count         int        `yaml:"count"`
	MaxDepth      int        `yaml:"max_depth"`
	SpeedScale    float64    `yaml:"speed_scale"`
	SpawnRate     float64    `yaml:"spawn_rate"`
	Pattern       string     `yaml:"pattern"`
	Spread        float64    `yaml:"spread"`
	MaxCharge     int        `yaml:"max_charge"`
	RootDecay     [2]float64 `yaml:"root_decay,flow"`
	DaughterDecay [2]float64 `yaml:"daughter_decay,flow"`
	SplitKick     float64    `yaml:"split_kick"`
	MaxPopulation int        `yaml:"max_population"`
}

// GovernorConfig drives the spawn rate toward a target population with a
// PID loop. A zero Target leaves the spawn rate fixed.
type GovernorConfig struct {
	Target  float64 `yaml:"target"`
	Kp      float64 `yaml:"kp"`
	Ki      float64 `yaml:"ki"`
	Kd      float64 `yaml:"kd"`
	MaxRate float64 `yaml:"max_rate"`
}

func (g GovernorConfig) Enabled() bool { return g.Target > 0 }

// DefaultConfig is the reference scene: five roots in a 1.5 T field along
// z with friction 0.2.
func DefaultConfig() *Config {
	g := generator.DefaultConfig()
	return &Config{
		Chamber: ChamberConfig{
			Field:    [3]float64{0, 0, DefaultFieldZ},
			Friction: DefaultFriction,
		},
		Generator: GeneratorConfig{
			Count:         DefaultCount,
			MaxDepth:      g.MaxDepth,
			SpeedScale:    g.SpeedScale,
			SpawnRate:     g.SpawnRate,
			Pattern:       string(g.Pattern),
			Spread:        g.Spread,
			MaxCharge:     g.MaxCharge,
			RootDecay:     g.RootDecay,
			DaughterDecay: g.DaughterDecay,
			SplitKick:     g.SplitKick,
			MaxPopulation: g.MaxPopulation,
		},
		Governor: GovernorConfig{
			Kp:      0.2,
			Ki:      0.05,
			MaxRate: 20,
		},
		Integrator:    "euler",
		Dt:            DefaultDt,
		Duration:      DefaultDuration,
		ValidateState: true,
	}
}

// Load overlays a YAML file on DefaultConfig.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy; Config holds only value fields.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

func (c *Config) ChamberModel() *physics.Chamber {
	return physics.NewChamber(dynamo.V3(c.Chamber.Field), c.Chamber.Friction)
}

func (c *Config) GeneratorConfig() (generator.Config, error) {
	pattern, err := generator.ParsePattern(c.Generator.Pattern)
	if err != nil {
		return generator.Config{}, err
	}
	return generator.Config{
		MaxDepth:      c.Generator.MaxDepth,
		SpeedScale:    c.Generator.SpeedScale,
		SpawnRate:     c.Generator.SpawnRate,
		Pattern:       pattern,
		Spread:        c.Generator.Spread,
		MaxCharge:     c.Generator.MaxCharge,
		RootDecay:     c.Generator.RootDecay,
		DaughterDecay: c.Generator.DaughterDecay,
		SplitKick:     c.Generator.SplitKick,
		MaxPopulation: c.Generator.MaxPopulation,
	}, nil
}

func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Dt:            c.Dt,
		Duration:      c.Duration,
		Seed:          c.Seed,
		ValidateState: c.ValidateState,
	}
}

// Validate checks every section. A friction·dt above 1 is legal but makes
// the damping factor negative, so it is only logged.
func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return &dynamo.BoundsError{Param: "dt", Value: c.Dt, Want: "> 0"}
	}
	if c.Duration <= 0 {
		return &dynamo.BoundsError{Param: "duration", Value: c.Duration, Want: "> 0"}
	}
	if c.Generator.Count < 0 {
		return &dynamo.BoundsError{Param: "generator.count", Value: float64(c.Generator.Count), Want: ">= 0"}
	}
	if err := c.ChamberModel().Validate(); err != nil {
		return fmt.Errorf("chamber: %w", err)
	}
	gc, err := c.GeneratorConfig()
	if err != nil {
		return fmt.Errorf("generator: %w", err)
	}
	if err := gc.Validate(); err != nil {
		return fmt.Errorf("generator: %w", err)
	}
	if c.Governor.Target < 0 {
		return &dynamo.BoundsError{Param: "governor.target", Value: c.Governor.Target, Want: ">= 0"}
	}
	if c.Governor.MaxRate < 0 {
		return &dynamo.BoundsError{Param: "governor.max_rate", Value: c.Governor.MaxRate, Want: ">= 0"}
	}
	if _, err := integrators.Get(c.Integrator); err != nil {
		return err
	}
	if c.Chamber.Friction*c.Dt > 1 {
		log.Printf("friction %g with dt %g overshoots: damping factor %g is negative",
			c.Chamber.Friction, c.Dt, 1-c.Chamber.Friction*c.Dt)
	}
	return nil
}
