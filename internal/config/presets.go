package config

import "sort"

var Presets = map[string]*Config{
	"classic": DefaultConfig(),
	"dense": with(func(c *Config) {
		c.Generator.Count = 20
		c.Generator.SpawnRate = 3
		c.Generator.MaxPopulation = 300
	}),
	"vertex": with(func(c *Config) {
		c.Generator.Pattern = "vertex"
		c.Generator.Count = 8
		c.Generator.SpawnRate = 1.5
	}),
	"aurora": with(func(c *Config) {
		c.Chamber.Field = [3]float64{0, 0, 0.8}
		c.Chamber.Friction = 0.1
		c.Generator.Pattern = "perlin"
		c.Generator.Count = 6
		c.Generator.SpawnRate = 1.2
	}),
	"calm": with(func(c *Config) {
		c.Chamber.Field = [3]float64{0, 0, 0.6}
		c.Chamber.Friction = 0.35
		c.Generator.Count = 3
		c.Generator.MaxDepth = 4
		c.Generator.SpeedScale = 200
		c.Generator.SpawnRate = 0.3
	}),
	"steady": with(func(c *Config) {
		c.Generator.Count = 10
		c.Generator.SpawnRate = 2
		c.Governor.Target = 30
	}),
}

func with(fn func(*Config)) *Config {
	c := DefaultConfig()
	fn(c)
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
