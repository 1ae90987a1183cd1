package fluid

import (
	"fmt"
	"math"
)

// DefaultIterations is the Gauss-Seidel sweep count for diffusion and the
// pressure solve.
const DefaultIterations = 20

// Solver advances fields on one fixed grid size. It owns the pressure and
// divergence scratch fields of the projection step.
//
// A Solver is not safe for concurrent use.
type Solver struct {
	n          int
	iterations int
	pressure   *Field
	divergence *Field
}

func NewSolver(n, iterations int) (*Solver, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: grid size must be positive, got %d", ErrInvalidParameter, n)
	}
	if iterations < 1 {
		return nil, fmt.Errorf("%w: iterations must be positive, got %d", ErrInvalidParameter, iterations)
	}
	return &Solver{
		n:          n,
		iterations: iterations,
		pressure:   NewField(n),
		divergence: NewField(n),
	}, nil
}

func (s *Solver) N() int          { return s.n }
func (s *Solver) Iterations() int { return s.iterations }

// AddSource adds dt·src to every cell of dst, ghost cells included.
func AddSource(dst, src *Field, dt float64) {
	for i, v := range src.cells {
		dst.cells[i] += dt * v
	}
}

// VelocityStep advances (u, v) by one frame. u0 and v0 hold this frame's
// injected forces on entry and are left as scratch on return.
//
// The sequence is: add forces, diffuse, project, self-advect, project. The
// second projection restores incompressibility lost during advection.
func (s *Solver) VelocityStep(u, v, u0, v0 *Field, visc, dt float64) error {
	if err := s.validate(visc, dt, u, v, u0, v0); err != nil {
		return err
	}

	AddSource(u, u0, dt)
	AddSource(v, v0, dt)

	u0.Swap(u)
	s.Diffuse(HorizontalVelocity, u, u0, visc, dt)
	v0.Swap(v)
	s.Diffuse(VerticalVelocity, v, v0, visc, dt)
	s.Project(u, v, s.pressure, s.divergence)

	u0.Swap(u)
	v0.Swap(v)
	s.Advect(HorizontalVelocity, u, u0, u0, v0, dt)
	s.Advect(VerticalVelocity, v, v0, u0, v0, dt)
	s.Project(u, v, s.pressure, s.divergence)
	return nil
}

// DensityStep advances the scalar x by one frame through the velocity field
// (u, v). x0 holds this frame's injected density on entry and is left as
// scratch on return.
func (s *Solver) DensityStep(x, x0, u, v *Field, diff, dt float64) error {
	if err := s.validate(diff, dt, x, x0, u, v); err != nil {
		return err
	}

	AddSource(x, x0, dt)
	x0.Swap(x)
	s.Diffuse(Scalar, x, x0, diff, dt)
	x0.Swap(x)
	s.Advect(Scalar, x, x0, u, v, dt)
	return nil
}

func (s *Solver) validate(rate, dt float64, fields ...*Field) error {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt <= 0 {
		return fmt.Errorf("%w: dt must be finite and positive, got %v", ErrInvalidTimestep, dt)
	}
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
		return fmt.Errorf("%w: rate must be finite and non-negative, got %v", ErrInvalidParameter, rate)
	}
	for _, f := range fields {
		if f.n != s.n {
			return fmt.Errorf("%w: solver is %d, field is %d", ErrDimensionMismatch, s.n, f.n)
		}
	}
	return nil
}
