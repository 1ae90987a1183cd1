package metrics

import (
	"math"

	"github.com/san-kum/fluidsim/internal/sim"
)

// Mass reports the total interior density after the last observed frame.
type Mass struct {
	name  string
	total float64
}

func NewMass() *Mass {
	return &Mass{name: "mass"}
}

func (m *Mass) Name() string { return m.name }

func (m *Mass) Observe(s *sim.State, t float64) {
	m.total = s.Density.Sum()
}

func (m *Mass) Value() float64 { return m.total }

func (m *Mass) Reset() { m.total = 0 }

type PeakDensity struct {
	name string
	peak float64
	seen bool
}

func NewPeakDensity() *PeakDensity {
	return &PeakDensity{name: "peak_density"}
}

func (p *PeakDensity) Name() string { return p.name }

func (p *PeakDensity) Observe(s *sim.State, t float64) {
	v := s.Density.Max()
	if !p.seen {
		p.peak, p.seen = v, true
		return
	}
	p.peak = math.Max(p.peak, v)
}

func (p *PeakDensity) Value() float64 { return p.peak }

func (p *PeakDensity) Reset() {
	p.peak = 0
	p.seen = false
}
