package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/fluidsim/internal/fluid"
)

const (
	DefaultN              = 100
	DefaultViscosity      = 0.0
	DefaultDiffusion      = 0.001
	DefaultDensityAmount  = 1000.0
	DefaultVelocityAmount = 1000.0
	DefaultRadius         = 1
	DefaultMaxDt          = 0.1
)

// Params fixes the grid and physical constants of a Simulator.
type Params struct {
	N              int     `json:"n"`
	Iterations     int     `json:"iterations"`
	Viscosity      float64 `json:"viscosity"`
	Diffusion      float64 `json:"diffusion"`
	DensityAmount  float64 `json:"density_amount"`
	VelocityAmount float64 `json:"velocity_amount"`
	Radius         int     `json:"radius"`
	// MaxDt bounds a single frame. Zero disables the check.
	MaxDt float64 `json:"max_dt"`
}

func DefaultParams() Params {
	return Params{
		N:              DefaultN,
		Iterations:     fluid.DefaultIterations,
		Viscosity:      DefaultViscosity,
		Diffusion:      DefaultDiffusion,
		DensityAmount:  DefaultDensityAmount,
		VelocityAmount: DefaultVelocityAmount,
		Radius:         DefaultRadius,
		MaxDt:          DefaultMaxDt,
	}
}

func (p Params) Validate() error {
	if p.N < 1 {
		return fmt.Errorf("%w: grid size must be positive, got %d", fluid.ErrInvalidParameter, p.N)
	}
	if p.Iterations < 1 {
		return fmt.Errorf("%w: iterations must be positive, got %d", fluid.ErrInvalidParameter, p.Iterations)
	}
	if !finiteNonNegative(p.Viscosity) {
		return fmt.Errorf("%w: viscosity %v", fluid.ErrInvalidParameter, p.Viscosity)
	}
	if !finiteNonNegative(p.Diffusion) {
		return fmt.Errorf("%w: diffusion %v", fluid.ErrInvalidParameter, p.Diffusion)
	}
	if p.Radius < 1 || 2*p.Radius > p.N+2 {
		return fmt.Errorf("%w: radius %d does not fit a grid of %d", fluid.ErrInvalidParameter, p.Radius, p.N)
	}
	if math.IsNaN(p.MaxDt) || p.MaxDt < 0 {
		return fmt.Errorf("%w: max dt %v", fluid.ErrInvalidParameter, p.MaxDt)
	}
	return nil
}

func finiteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// State is the full set of fields advanced each frame. U0, V0 and Density0
// collect injected sources and are cleared after every step.
type State struct {
	U, V     *fluid.Field
	U0, V0   *fluid.Field
	Density  *fluid.Field
	Density0 *fluid.Field
}

func NewState(n int) *State {
	return &State{
		U:        fluid.NewField(n),
		V:        fluid.NewField(n),
		U0:       fluid.NewField(n),
		V0:       fluid.NewField(n),
		Density:  fluid.NewField(n),
		Density0: fluid.NewField(n),
	}
}

func (s *State) N() int { return s.Density.N() }

func (s *State) fields() []*fluid.Field {
	return []*fluid.Field{s.U, s.V, s.U0, s.V0, s.Density, s.Density0}
}

func (s *State) Reset() {
	for _, f := range s.fields() {
		f.Fill(0)
	}
}

// ClearSources zeroes the source buffers for the next frame.
func (s *State) ClearSources() {
	s.U0.Fill(0)
	s.V0.Fill(0)
	s.Density0.Fill(0)
}

// IsValid reports whether every cell of the velocity and density fields is
// finite.
func (s *State) IsValid() bool {
	for _, f := range []*fluid.Field{s.U, s.V, s.Density} {
		for _, c := range f.Cells() {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return false
			}
		}
	}
	return true
}

// KineticEnergy is 0.5·Σ(u²+v²) over interior cells.
func (s *State) KineticEnergy() float64 {
	return 0.5 * (s.U.Dot(s.U) + s.V.Dot(s.V))
}

// PointerEvent is a pointer sample in grid coordinates.
type PointerEvent struct {
	X, Y     int
	Density  bool
	Velocity bool
}

// Shape is an emitter footprint.
type Shape string

const (
	// ShapeSquare covers [x-r, x+r) × [y-r, y+r), clipped into the grid.
	ShapeSquare Shape = "square"
	// ShapeDisc covers interior cells closer than r to (x, y).
	ShapeDisc Shape = "disc"
)

// Emitter is a scripted source that fires on every frame in
// [StartFrame, EndFrame). EndFrame <= 0 keeps it active for the whole run.
// An empty Shape is a square.
type Emitter struct {
	X          int     `yaml:"x" json:"x"`
	Y          int     `yaml:"y" json:"y"`
	Radius     int     `yaml:"radius" json:"radius"`
	Shape      Shape   `yaml:"shape,omitempty" json:"shape,omitempty"`
	Density    float64 `yaml:"density" json:"density"`
	U          float64 `yaml:"u" json:"u"`
	V          float64 `yaml:"v" json:"v"`
	StartFrame int     `yaml:"start_frame" json:"start_frame"`
	EndFrame   int     `yaml:"end_frame" json:"end_frame"`
}

func (e Emitter) Active(frame int) bool {
	return frame >= e.StartFrame && (e.EndFrame <= 0 || frame < e.EndFrame)
}

// Validate checks that the emitter fits an n grid. A radius below 1 means
// defaultRadius.
func (e Emitter) Validate(n, defaultRadius int) error {
	switch e.Shape {
	case "", ShapeSquare, ShapeDisc:
	default:
		return fmt.Errorf("%w: unknown emitter shape %q", fluid.ErrInvalidParameter, e.Shape)
	}
	r := e.Radius
	if r < 1 {
		r = defaultRadius
	}
	if r < 1 || 2*r > n+2 {
		return fmt.Errorf("%w: emitter radius %d does not fit grid of size %d", fluid.ErrInvalidParameter, r, n)
	}
	return nil
}

// FrameStats summarises the fields after one frame.
type FrameStats struct {
	Frame         int     `json:"frame"`
	Time          float64 `json:"time"`
	Mass          float64 `json:"mass"`
	Peak          float64 `json:"peak"`
	KineticEnergy float64 `json:"kinetic_energy"`
	MaxDivergence float64 `json:"max_divergence"`
}

type Metric interface {
	Name() string
	Observe(s *State, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(s *State, stats FrameStats)
}

// Config drives a headless Run.
type Config struct {
	Dt            float64 `json:"dt"`
	Frames        int     `json:"frames"`
	ValidateState bool    `json:"validate_state"`
}

func DefaultConfig() Config {
	return Config{Dt: 1.0 / 60, Frames: 600, ValidateState: true}
}

type Result struct {
	Frames      []FrameStats
	FramesTaken int
	Metrics     map[string]float64
	Errors      []error
}

// SimError reports a frame whose fields stopped being finite.
type SimError struct {
	Frame   int
	Time    float64
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4f): %s", e.Frame, e.Time, e.Message)
}
