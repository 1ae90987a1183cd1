package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/fluidsim/internal/fluid"
)

// Simulator advances one State frame by frame. It is not safe for
// concurrent use; frontends drive it from a single loop.
type Simulator struct {
	params    Params
	solver    *fluid.Solver
	state     *State
	div       *fluid.Field
	frame     int
	time      float64
	metrics   []Metric
	observers []Observer
}

func New(p Params) (*Simulator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	solver, err := fluid.NewSolver(p.N, p.Iterations)
	if err != nil {
		return nil, err
	}
	return &Simulator{
		params:    p,
		solver:    solver,
		state:     NewState(p.N),
		div:       fluid.NewField(p.N),
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}, nil
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Params() Params { return s.params }
func (s *Simulator) State() *State  { return s.state }
func (s *Simulator) Frame() int     { return s.frame }
func (s *Simulator) Time() float64  { return s.time }

func (s *Simulator) Reset() {
	s.state.Reset()
	s.frame = 0
	s.time = 0
}

// Apply injects the configured density and horizontal velocity at the
// pointer cell. The pointer is pulled inward so the injection square never
// leaves the grid.
func (s *Simulator) Apply(ev PointerEvent) {
	r := s.params.Radius
	x, y := fluid.ClipCenter(s.params.N, ev.X, ev.Y, r)
	if ev.Density {
		fluid.Inject(s.state.Density0, x, y, r, s.params.DensityAmount)
	}
	if ev.Velocity {
		fluid.Inject(s.state.U0, x, y, r, s.params.VelocityAmount)
	}
}

// Emit adds one frame of an emitter's sources.
// Radii wider than half the grid are capped so the footprint always fits.
func (s *Simulator) Emit(e Emitter) {
	n := s.params.N
	r := e.Radius
	if r < 1 {
		r = s.params.Radius
	}
	r = min(max(r, 1), (n+2)/2)

	inject := func(f *fluid.Field, amount float64) {
		if amount == 0 {
			return
		}
		if e.Shape == ShapeDisc {
			fluid.InjectDisc(f, float64(e.X), float64(e.Y), float64(r), amount)
			return
		}
		x, y := fluid.ClipCenter(n, e.X, e.Y, r)
		fluid.Inject(f, x, y, r, amount)
	}
	inject(s.state.Density0, e.Density)
	inject(s.state.U0, e.U)
	inject(s.state.V0, e.V)
}

// Step advances the fluid by dt seconds and clears the source buffers.
func (s *Simulator) Step(dt float64) error {
	if s.params.MaxDt > 0 && dt > s.params.MaxDt {
		return fmt.Errorf("%w: dt %v exceeds max %v", fluid.ErrInvalidTimestep, dt, s.params.MaxDt)
	}
	st := s.state
	if err := s.solver.VelocityStep(st.U, st.V, st.U0, st.V0, s.params.Viscosity, dt); err != nil {
		return err
	}
	if err := s.solver.DensityStep(st.Density, st.Density0, st.U, st.V, s.params.Diffusion, dt); err != nil {
		return err
	}
	st.ClearSources()

	s.frame++
	s.time += dt

	for _, m := range s.metrics {
		m.Observe(st, s.time)
	}
	if len(s.observers) > 0 {
		stats := s.Stats()
		for _, obs := range s.observers {
			obs.OnFrame(st, stats)
		}
	}
	return nil
}

// Stats measures the current fields.
func (s *Simulator) Stats() FrameStats {
	st := s.state
	fluid.Divergence(s.div, st.U, st.V)
	return FrameStats{
		Frame:         s.frame,
		Time:          s.time,
		Mass:          st.Density.Sum(),
		Peak:          st.Density.Max(),
		KineticEnergy: st.KineticEnergy(),
		MaxDivergence: math.Max(math.Abs(s.div.Max()), math.Abs(s.div.Min())),
	}
}

// Run advances the current state cfg.Frames times at a fixed dt, firing the
// active emitters before each frame. Cancellation is checked between frames.
func (s *Simulator) Run(ctx context.Context, cfg Config, emitters []Emitter) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}
	for i, e := range emitters {
		if err := e.Validate(s.params.N, s.params.Radius); err != nil {
			return nil, fmt.Errorf("emitter %d: %w", i, err)
		}
	}

	result := &Result{
		Frames:  make([]FrameStats, 0, cfg.Frames),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	for i := 0; i < cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		for _, e := range emitters {
			if e.Active(s.frame) {
				s.Emit(e)
			}
		}

		if err := s.Step(cfg.Dt); err != nil {
			return result, err
		}
		result.FramesTaken++

		if cfg.ValidateState && !s.state.IsValid() {
			result.Errors = append(result.Errors, SimError{Frame: s.frame, Time: s.time, Message: "invalid state (NaN/Inf)"})
			break
		}
		result.Frames = append(result.Frames, s.Stats())
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if math.IsNaN(cfg.Dt) || math.IsInf(cfg.Dt, 0) || cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", fluid.ErrInvalidTimestep, cfg.Dt)
	}
	if s.params.MaxDt > 0 && cfg.Dt > s.params.MaxDt {
		return fmt.Errorf("%w: dt %f exceeds max %f", fluid.ErrInvalidTimestep, cfg.Dt, s.params.MaxDt)
	}
	if cfg.Frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", cfg.Frames)
	}
	return nil
}

// ClampDt limits a measured frame time to limit so a stalled frontend does
// not feed the solver one huge step. Non-positive or NaN frame times clamp
// to zero, which callers skip.
func ClampDt(dt, limit float64) float64 {
	if math.IsNaN(dt) || dt <= 0 {
		return 0
	}
	if limit > 0 && dt > limit {
		return limit
	}
	return dt
}
