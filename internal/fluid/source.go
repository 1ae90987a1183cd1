package fluid

import "fmt"

// Inject adds amount to every cell of the half-open square
// [cx−radius, cx+radius) × [cy−radius, cy+radius). Despite its name the
// radius is a square half-width.
//
// The square must lie within [0, N+1] on both axes. Callers clip pointer
// positions before injecting; an out-of-range square is a programming error
// and panics.
func Inject(f *Field, cx, cy, radius int, amount float64) {
	x0, x1 := cx-radius, cx+radius
	y0, y1 := cy-radius, cy+radius
	if x0 < 0 || y0 < 0 || x1 > f.n+2 || y1 > f.n+2 {
		panic(fmt.Sprintf("fluid: injection square [%d,%d)x[%d,%d) outside grid of size %d",
			x0, x1, y0, y1, f.n))
	}
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			f.Add(x, y, amount)
		}
	}
}

// InjectDisc adds amount to every interior cell whose centre lies strictly
// within radius of (cx, cy). Cells outside the grid are skipped.
func InjectDisc(f *Field, cx, cy, radius, amount float64) {
	r2 := radius * radius
	for y := 1; y <= f.n; y++ {
		dy := float64(y) - cy
		for x := 1; x <= f.n; x++ {
			dx := float64(x) - cx
			if dx*dx+dy*dy < r2 {
				f.Add(x, y, amount)
			}
		}
	}
}

// ClipCenter moves (cx, cy) the minimum distance needed for an [Inject]
// square of the given radius to fit an N grid. The radius must not exceed
// (N+2)/2.
func ClipCenter(n, cx, cy, radius int) (int, int) {
	lo, hi := radius, n+2-radius
	return clampInt(cx, lo, hi), clampInt(cy, lo, hi)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
