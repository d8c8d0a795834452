package generator

import (
	"fmt"

	"github.com/san-kum/bubblechamber/internal/dynamo"
)

// Pattern selects where root particles start and which way they head.
type Pattern string

const (
	// PatternUniform scatters roots in a cube of half-extent Spread.
	PatternUniform Pattern = "uniform"
	// PatternVertex starts every root at the origin, like tracks leaving a
	// collision vertex.
	PatternVertex Pattern = "vertex"
	// PatternPerlin samples positions and headings from a Perlin noise field,
	// so consecutive spawns cluster into coherent sprays.
	PatternPerlin Pattern = "perlin"
)

func Patterns() []Pattern {
	return []Pattern{PatternUniform, PatternVertex, PatternPerlin}
}

func ParsePattern(s string) (Pattern, error) {
	for _, p := range Patterns() {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("pattern %q: %w", s, dynamo.ErrUnknownName)
}

type Config struct {
	// MaxDepth is the root mass and the deepest generation allowed to split.
	MaxDepth int
	// SpeedScale is the top initial speed of a root particle.
	SpeedScale float64
	// SpawnRate is the expected number of background roots per second.
	SpawnRate float64
	Pattern   Pattern
	Spread    float64
	MaxCharge int
	// RootDecay and DaughterDecay are [min, max] decay-time ranges in seconds.
	RootDecay     [2]float64
	DaughterDecay [2]float64
	// SplitKick scales the transverse momentum handed to daughters,
	// relative to the parent's momentum.
	SplitKick float64
	// MaxPopulation stops background spawning at this size; 0 disables it.
	MaxPopulation int
}

const (
	DefaultMaxDepth   = 6
	DefaultSpeedScale = 350.0
	DefaultSpawnRate  = 0.8
	DefaultSpread     = 120.0
	DefaultMaxCharge  = 8
	DefaultSplitKick  = 0.35
)

func DefaultConfig() Config {
	return Config{
		MaxDepth:      DefaultMaxDepth,
		SpeedScale:    DefaultSpeedScale,
		SpawnRate:     DefaultSpawnRate,
		Pattern:       PatternUniform,
		Spread:        DefaultSpread,
		MaxCharge:     DefaultMaxCharge,
		RootDecay:     [2]float64{1.5, 4.0},
		DaughterDecay: [2]float64{0.6, 2.2},
		SplitKick:     DefaultSplitKick,
	}
}

func (c Config) Validate() error {
	if c.MaxDepth < 1 {
		return &dynamo.BoundsError{Param: "max_depth", Value: float64(c.MaxDepth), Want: ">= 1"}
	}
	if c.SpeedScale < 0 {
		return &dynamo.BoundsError{Param: "speed_scale", Value: c.SpeedScale, Want: ">= 0"}
	}
	if c.SpawnRate < 0 {
		return &dynamo.BoundsError{Param: "spawn_rate", Value: c.SpawnRate, Want: ">= 0"}
	}
	if c.Spread < 0 {
		return &dynamo.BoundsError{Param: "spread", Value: c.Spread, Want: ">= 0"}
	}
	if c.MaxCharge < 1 {
		return &dynamo.BoundsError{Param: "max_charge", Value: float64(c.MaxCharge), Want: ">= 1"}
	}
	if err := validateRange("root_decay", c.RootDecay); err != nil {
		return err
	}
	if err := validateRange("daughter_decay", c.DaughterDecay); err != nil {
		return err
	}
	if c.SplitKick < 0 {
		return &dynamo.BoundsError{Param: "split_kick", Value: c.SplitKick, Want: ">= 0"}
	}
	if c.MaxPopulation < 0 {
		return &dynamo.BoundsError{Param: "max_population", Value: float64(c.MaxPopulation), Want: ">= 0"}
	}
	if _, err := ParsePattern(string(c.Pattern)); err != nil {
		return err
	}
	return nil
}

func validateRange(name string, r [2]float64) error {
	if r[0] <= 0 {
		return &dynamo.BoundsError{Param: name + "[0]", Value: r[0], Want: "> 0"}
	}
	if r[1] < r[0] {
		return &dynamo.BoundsError{Param: name + "[1]", Value: r[1], Want: fmt.Sprintf(">= %g", r[0])}
	}
	return nil
}

// MeanRootLifetime is the expected time a root spends alive.
func (c Config) MeanRootLifetime() float64 {
	return (c.RootDecay[0] + c.RootDecay[1]) / 2
}
