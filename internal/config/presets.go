package config

import (
	"sort"

	"github.com/san-kum/fluidsim/internal/sim"
)

func preset(name string, modify func(c *Config)) *Config {
	c := DefaultConfig()
	c.Preset = name
	modify(c)
	return c
}

var Presets = map[string]*Config{
	"reference": preset("reference", func(c *Config) {
		c.Emitters = []sim.Emitter{{X: 50, Y: 50, Radius: 1, Density: 1000, EndFrame: 1}}
	}),
	"puff": preset("puff", func(c *Config) {
		c.Frames = 300
		c.Emitters = []sim.Emitter{
			{X: 50, Y: 50, Radius: 4, Density: 500, U: 200, EndFrame: 30},
		}
	}),
	"jet": preset("jet", func(c *Config) {
		c.Fluid.Viscosity = 0.0001
		c.Emitters = []sim.Emitter{
			{X: 10, Y: 50, Radius: 3, Density: 300, U: 400},
		}
	}),
	"cross": preset("cross", func(c *Config) {
		c.Grid.N = 80
		c.Frames = 400
		c.Emitters = []sim.Emitter{
			{X: 10, Y: 40, Radius: 2, Density: 400, U: 300, EndFrame: 200},
			{X: 40, Y: 10, Radius: 2, Density: 400, V: 300, EndFrame: 200},
		}
	}),
	"smoke": preset("smoke", func(c *Config) {
		c.Fluid.Diffusion = 0.0001
		c.Emitters = []sim.Emitter{
			{X: 50, Y: 95, Radius: 3, Shape: sim.ShapeDisc, Density: 200, V: -150},
		}
	}),
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
