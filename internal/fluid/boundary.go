package fluid

import "fmt"

// Kind selects how ghost cells are derived from the interior.
type Kind int

const (
	// Scalar fields (density, pressure, divergence) have zero normal gradient.
	Scalar Kind = iota
	// HorizontalVelocity is reflected at the left and right walls.
	HorizontalVelocity
	// VerticalVelocity is reflected at the top and bottom walls.
	VerticalVelocity
)

func (k Kind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case HorizontalVelocity:
		return "horizontal-velocity"
	case VerticalVelocity:
		return "vertical-velocity"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// SetBoundary overwrites every ghost cell of f from its interior neighbour,
// negating the wall-normal velocity component so nothing crosses a wall.
// Corners take the mean of their two edge-adjacent ghost cells.
func SetBoundary(kind Kind, f *Field) {
	sx, sy := 1.0, 1.0
	switch kind {
	case Scalar:
	case HorizontalVelocity:
		sx = -1
	case VerticalVelocity:
		sy = -1
	default:
		panic(fmt.Sprintf("fluid: unknown boundary kind %d", int(kind)))
	}

	n := f.n
	for i := 1; i <= n; i++ {
		f.Set(0, i, sx*f.At(1, i))
		f.Set(n+1, i, sx*f.At(n, i))
		f.Set(i, 0, sy*f.At(i, 1))
		f.Set(i, n+1, sy*f.At(i, n))
	}

	f.Set(0, 0, 0.5*(f.At(1, 0)+f.At(0, 1)))
	f.Set(0, n+1, 0.5*(f.At(1, n+1)+f.At(0, n)))
	f.Set(n+1, 0, 0.5*(f.At(n, 0)+f.At(n+1, 1)))
	f.Set(n+1, n+1, 0.5*(f.At(n, n+1)+f.At(n+1, n)))
}
