package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/fluidsim/internal/sim"
)

const (
	DefaultPreset = "reference"
	DefaultDt     = 1.0 / 60
	DefaultFrames = 600
	DefaultScale  = 6
)

type Config struct {
	Preset    string          `yaml:"preset"`
	Grid      GridConfig      `yaml:"grid"`
	Fluid     FluidConfig     `yaml:"fluid"`
	Injection InjectionConfig `yaml:"injection"`
	Dt        float64         `yaml:"dt"`
	MaxDt     float64         `yaml:"max_dt"`
	Frames    int             `yaml:"frames"`
	Scale     int             `yaml:"scale"`
	Emitters  []sim.Emitter   `yaml:"emitters"`
}

type GridConfig struct {
	N          int `yaml:"n"`
	Iterations int `yaml:"iterations"`
}

type FluidConfig struct {
	Viscosity float64 `yaml:"viscosity"`
	Diffusion float64 `yaml:"diffusion"`
}

// InjectionConfig sets what a pointer press adds to the source buffers.
type InjectionConfig struct {
	Density  float64 `yaml:"density"`
	Velocity float64 `yaml:"velocity"`
	Radius   int     `yaml:"radius"`
}

func DefaultConfig() *Config {
	p := sim.DefaultParams()
	return &Config{
		Preset: DefaultPreset,
		Grid: GridConfig{
			N:          p.N,
			Iterations: p.Iterations,
		},
		Fluid: FluidConfig{
			Viscosity: p.Viscosity,
			Diffusion: p.Diffusion,
		},
		Injection: InjectionConfig{
			Density:  p.DensityAmount,
			Velocity: p.VelocityAmount,
			Radius:   p.Radius,
		},
		Dt:     DefaultDt,
		MaxDt:  p.MaxDt,
		Frames: DefaultFrames,
		Scale:  DefaultScale,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
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

func (c *Config) Params() sim.Params {
	return sim.Params{
		N:              c.Grid.N,
		Iterations:     c.Grid.Iterations,
		Viscosity:      c.Fluid.Viscosity,
		Diffusion:      c.Fluid.Diffusion,
		DensityAmount:  c.Injection.Density,
		VelocityAmount: c.Injection.Velocity,
		Radius:         c.Injection.Radius,
		MaxDt:          c.MaxDt,
	}
}

func (c *Config) RunConfig() sim.Config {
	return sim.Config{Dt: c.Dt, Frames: c.Frames, ValidateState: true}
}

func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	if c.MaxDt > 0 && c.Dt > c.MaxDt {
		return fmt.Errorf("dt %f exceeds max_dt %f", c.Dt, c.MaxDt)
	}
	if c.Frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", c.Frames)
	}
	if c.Scale < 1 {
		return fmt.Errorf("scale must be at least 1, got %d", c.Scale)
	}
	for i, e := range c.Emitters {
		if err := e.Validate(c.Grid.N, c.Injection.Radius); err != nil {
			return fmt.Errorf("emitter %d: %w", i, err)
		}
	}
	return nil
}

func (c *Config) Clone() *Config {
	cp := *c
	cp.Emitters = append([]sim.Emitter(nil), c.Emitters...)
	return &cp
}
