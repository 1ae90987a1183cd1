package metrics

import (
	"math"

	"github.com/san-kum/fluidsim/internal/fluid"
	"github.com/san-kum/fluidsim/internal/sim"
)

// Stability is the fraction of frames whose fields stayed finite and whose
// velocity magnitude stayed within threshold on both axes.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(st *sim.State, t float64) {
	s.samples++
	if !st.IsValid() || peakMagnitude(st.U) > s.threshold || peakMagnitude(st.V) > s.threshold {
		s.violations++
	}
}

func peakMagnitude(f *fluid.Field) float64 {
	return math.Max(math.Abs(f.Max()), math.Abs(f.Min()))
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
