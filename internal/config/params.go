package config

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/bubblechamber/internal/dynamo"
)

type param struct {
	get func(c *Config) float64
	set func(c *Config, v float64)
}

func floatParam(p func(c *Config) *float64) param {
	return param{
		get: func(c *Config) float64 { return *p(c) },
		set: func(c *Config, v float64) { *p(c) = v },
	}
}

func intParam(p func(c *Config) *int) param {
	return param{
		get: func(c *Config) float64 { return float64(*p(c)) },
		set: func(c *Config, v float64) { *p(c) = int(math.Round(v)) },
	}
}

// params maps the numeric knobs that sweeps, grid searches and scenario
// overrides may address by name.
var params = map[string]param{
	"friction":        floatParam(func(c *Config) *float64 { return &c.Chamber.Friction }),
	"field_x":         floatParam(func(c *Config) *float64 { return &c.Chamber.Field[0] }),
	"field_y":         floatParam(func(c *Config) *float64 { return &c.Chamber.Field[1] }),
	"field_z":         floatParam(func(c *Config) *float64 { return &c.Chamber.Field[2] }),
	"count":           intParam(func(c *Config) *int { return &c.Generator.Count }),
	"max_depth":       intParam(func(c *Config) *int { return &c.Generator.MaxDepth }),
	"speed_scale":     floatParam(func(c *Config) *float64 { return &c.Generator.SpeedScale }),
	"spawn_rate":      floatParam(func(c *Config) *float64 { return &c.Generator.SpawnRate }),
	"spread":          floatParam(func(c *Config) *float64 { return &c.Generator.Spread }),
	"max_charge":      intParam(func(c *Config) *int { return &c.Generator.MaxCharge }),
	"split_kick":      floatParam(func(c *Config) *float64 { return &c.Generator.SplitKick }),
	"max_population":  intParam(func(c *Config) *int { return &c.Generator.MaxPopulation }),
	"governor_target": floatParam(func(c *Config) *float64 { return &c.Governor.Target }),
	"governor_kp":     floatParam(func(c *Config) *float64 { return &c.Governor.Kp }),
	"governor_ki":     floatParam(func(c *Config) *float64 { return &c.Governor.Ki }),
	"dt":              floatParam(func(c *Config) *float64 { return &c.Dt }),
	"duration":        floatParam(func(c *Config) *float64 { return &c.Duration }),
}

// Set assigns a named numeric parameter. Integer parameters are rounded.
func (c *Config) Set(name string, value float64) error {
	p, ok := params[name]
	if !ok {
		return fmt.Errorf("%w: parameter %q", dynamo.ErrUnknownName, name)
	}
	p.set(c, value)
	return nil
}

func (c *Config) Get(name string) (float64, error) {
	p, ok := params[name]
	if !ok {
		return 0, fmt.Errorf("%w: parameter %q", dynamo.ErrUnknownName, name)
	}
	return p.get(c), nil
}

// Apply sets every parameter in values, stopping at the first unknown name.
func (c *Config) Apply(values map[string]float64) error {
	names := make([]string, 0, len(values))
	for k := range values {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		if err := c.Set(k, values[k]); err != nil {
			return err
		}
	}
	return nil
}

func ParamNames() []string {
	names := make([]string, 0, len(params))
	for k := range params {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
