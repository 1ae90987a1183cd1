package metrics

import "github.com/san-kum/fluidsim/internal/sim"

// DefaultStabilityThreshold is the velocity magnitude above which a frame
// counts as unstable.
const DefaultStabilityThreshold = 1e3

func DefaultMetrics() []sim.Metric {
	return []sim.Metric{
		NewMass(),
		NewPeakDensity(),
		NewKineticEnergy(),
		NewDivergence(),
		NewStability(DefaultStabilityThreshold),
	}
}
