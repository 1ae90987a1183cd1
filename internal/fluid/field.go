package fluid

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Field is a scalar quantity sampled on an N×N grid with a one-cell ghost
// ring. Cell (x, y) lives at offset x + (N+2)*y, so each row of interior
// cells is contiguous.
type Field struct {
	n     int
	cells []float64
}

// NewField allocates a zeroed field with n interior cells per axis. It
// panics if n < 1.
func NewField(n int) *Field {
	if n < 1 {
		panic(fmt.Sprintf("fluid: grid size must be positive, got %d", n))
	}
	return &Field{n: n, cells: make([]float64, (n+2)*(n+2))}
}

// N returns the number of interior cells per axis.
func (f *Field) N() int { return f.n }

// Stride is the row length including both ghost cells.
func (f *Field) Stride() int { return f.n + 2 }

// Index is the offset of (x, y) in [Field.Cells].
func (f *Field) Index(x, y int) int { return x + (f.n+2)*y }

// At reads cell (x, y). Ghost cells use x or y of 0 and N+1.
func (f *Field) At(x, y int) float64 { return f.cells[x+(f.n+2)*y] }

// Set overwrites cell (x, y).
func (f *Field) Set(x, y int, v float64) { f.cells[x+(f.n+2)*y] = v }

// Add accumulates v into cell (x, y).
func (f *Field) Add(x, y int, v float64) { f.cells[x+(f.n+2)*y] += v }

// Cells exposes the backing slice, ghost cells included.
func (f *Field) Cells() []float64 { return f.cells }

func (f *Field) Fill(v float64) {
	for i := range f.cells {
		f.cells[i] = v
	}
}

// Swap exchanges the storage of f and other without copying cell values.
func (f *Field) Swap(other *Field) {
	if f.n != other.n {
		panic(fmt.Sprintf("fluid: cannot swap fields of size %d and %d", f.n, other.n))
	}
	f.cells, other.cells = other.cells, f.cells
}

// Row returns interior cells 1..N of row y, aliasing the field storage.
func (f *Field) Row(y int) []float64 {
	start := f.Index(1, y)
	return f.cells[start : start+f.n]
}

// Sum totals the interior cells.
func (f *Field) Sum() float64 {
	total := 0.0
	for y := 1; y <= f.n; y++ {
		total += floats.Sum(f.Row(y))
	}
	return total
}

// Max returns the largest interior value.
func (f *Field) Max() float64 {
	m := floats.Max(f.Row(1))
	for y := 2; y <= f.n; y++ {
		m = max(m, floats.Max(f.Row(y)))
	}
	return m
}

// Min returns the smallest interior value.
func (f *Field) Min() float64 {
	m := floats.Min(f.Row(1))
	for y := 2; y <= f.n; y++ {
		m = min(m, floats.Min(f.Row(y)))
	}
	return m
}

// ArgMax returns the interior cell holding the largest value; ties resolve
// to the first cell in row-major order.
func (f *Field) ArgMax() (x, y int) {
	best := f.At(1, 1)
	x, y = 1, 1
	for j := 1; j <= f.n; j++ {
		row := f.Row(j)
		if i := floats.MaxIdx(row); row[i] > best {
			best, x, y = row[i], i+1, j
		}
	}
	return x, y
}

// Dot returns the interior inner product of f and g.
func (f *Field) Dot(g *Field) float64 {
	total := 0.0
	for y := 1; y <= f.n; y++ {
		total += floats.Dot(f.Row(y), g.Row(y))
	}
	return total
}

// IsGhost reports whether (x, y) lies on the boundary ring of an N grid.
func IsGhost(n, x, y int) bool {
	return x == 0 || y == 0 || x == n+1 || y == n+1
}
