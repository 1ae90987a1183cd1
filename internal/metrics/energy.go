package metrics

import (
	"math"

	"github.com/san-kum/fluidsim/internal/fluid"
	"github.com/san-kum/fluidsim/internal/sim"
)

// KineticEnergy averages 0.5·Σ(u²+v²) over the observed frames.
type KineticEnergy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(s *sim.State, t float64) {
	e.totalEnergy += s.KineticEnergy()
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *KineticEnergy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// Divergence tracks the largest |∇·u| seen on any frame. A projected field
// should keep this small.
type Divergence struct {
	name    string
	scratch *fluid.Field
	maxDiv  float64
}

func NewDivergence() *Divergence {
	return &Divergence{name: "max_divergence"}
}

func (d *Divergence) Name() string { return d.name }

func (d *Divergence) Observe(s *sim.State, t float64) {
	if d.scratch == nil || d.scratch.N() != s.N() {
		d.scratch = fluid.NewField(s.N())
	}
	fluid.Divergence(d.scratch, s.U, s.V)
	d.maxDiv = math.Max(d.maxDiv, math.Max(math.Abs(d.scratch.Max()), math.Abs(d.scratch.Min())))
}

func (d *Divergence) Value() float64 { return d.maxDiv }

func (d *Divergence) Reset() { d.maxDiv = 0 }
