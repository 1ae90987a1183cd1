package render

import (
	"math"

	"github.com/san-kum/fluidsim/internal/fluid"
)

var shadeRamp = []rune(" .:-=+*#%@")

// Shade picks a character whose ink coverage follows Intensity(v).
func Shade(v float64) rune {
	i := int(Intensity(v)) * len(shadeRamp) / 256
	return shadeRamp[i]
}

// Downsample averages the interior of f into a rows×cols grid. When the
// target is larger than the field, cells are repeated.
func Downsample(f *fluid.Field, cols, rows int) [][]float64 {
	n := f.N()
	out := make([][]float64, rows)
	for r := 0; r < rows; r++ {
		out[r] = make([]float64, cols)
		y0, y1 := span(r, rows, n)
		for c := 0; c < cols; c++ {
			x0, x1 := span(c, cols, n)
			sum := 0.0
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					sum += f.At(x, y)
				}
			}
			out[r][c] = sum / float64((y1-y0)*(x1-x0))
		}
	}
	return out
}

// span returns the half-open range of interior cells covered by block i of
// count blocks over n cells. It is never empty.
func span(i, count, n int) (int, int) {
	lo := 1 + i*n/count
	hi := 1 + (i+1)*n/count
	if hi <= lo {
		hi = lo + 1
	}
	return lo, hi
}

// MaxAbs is the larger of |max| and |min| over the interior.
func MaxAbs(f *fluid.Field) float64 {
	return math.Max(math.Abs(f.Max()), math.Abs(f.Min()))
}
