package analysis

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/fluidsim/internal/sim"
)

var ErrShortSeries = errors.New("analysis: series too short")

var seriesColumns = map[string]func(sim.FrameStats) float64{
	"time":           func(f sim.FrameStats) float64 { return f.Time },
	"mass":           func(f sim.FrameStats) float64 { return f.Mass },
	"peak":           func(f sim.FrameStats) float64 { return f.Peak },
	"kinetic_energy": func(f sim.FrameStats) float64 { return f.KineticEnergy },
	"max_divergence": func(f sim.FrameStats) float64 { return f.MaxDivergence },
}

// SeriesNames lists the columns accepted by Series.
func SeriesNames() []string {
	return []string{"time", "mass", "peak", "kinetic_energy", "max_divergence"}
}

func Series(frames []sim.FrameStats, name string) ([]float64, error) {
	col, ok := seriesColumns[name]
	if !ok {
		return nil, fmt.Errorf("unknown series: %s", name)
	}
	out := make([]float64, len(frames))
	for i, f := range frames {
		out[i] = col(f)
	}
	return out, nil
}

type Summary struct {
	Min, Max    float64
	Mean, Std   float64
	First, Last float64
}

func Summarize(values []float64) (Summary, error) {
	if len(values) == 0 {
		return Summary{}, ErrShortSeries
	}
	s := Summary{
		Min:   floats.Min(values),
		Max:   floats.Max(values),
		Mean:  stat.Mean(values, nil),
		First: values[0],
		Last:  values[len(values)-1],
	}
	if len(values) > 1 {
		s.Std = stat.StdDev(values, nil)
	}
	return s, nil
}

// DecayRate fits y = A·exp(-k·t) to the positive samples of values taken
// every dt seconds and returns k.
func DecayRate(values []float64, dt float64) (float64, error) {
	ts := make([]float64, 0, len(values))
	logs := make([]float64, 0, len(values))
	for i, v := range values {
		if v > 0 && !math.IsInf(v, 0) {
			ts = append(ts, float64(i)*dt)
			logs = append(logs, math.Log(v))
		}
	}
	if len(ts) < 2 {
		return 0, fmt.Errorf("%w: need two positive samples, got %d", ErrShortSeries, len(ts))
	}
	_, slope := stat.LinearRegression(ts, logs, nil, false)
	return -slope, nil
}
