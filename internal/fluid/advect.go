package fluid

// Advect transports src along (u, v) into dest by tracing each interior cell
// centre backwards over dt and sampling src bilinearly at the foot point.
// The foot point is clamped to [0.5, N+0.5] so all four samples stay inside
// the ghost ring.
func (s *Solver) Advect(kind Kind, dest, src, u, v *Field, dt float64) {
	n := s.n
	dt0 := dt * float64(n)
	lo, hi := 0.5, float64(n)+0.5

	for j := 1; j <= n; j++ {
		for i := 1; i <= n; i++ {
			x := float64(i) - dt0*u.At(i, j)
			y := float64(j) - dt0*v.At(i, j)

			x = clamp(x, lo, hi)
			y = clamp(y, lo, hi)

			i0, j0 := int(x), int(y)
			i1, j1 := i0+1, j0+1

			s1, t1 := x-float64(i0), y-float64(j0)
			s0, t0 := 1-s1, 1-t1

			dest.Set(i, j,
				s0*(t0*src.At(i0, j0)+t1*src.At(i0, j1))+
					s1*(t0*src.At(i1, j0)+t1*src.At(i1, j1)))
		}
	}
	SetBoundary(kind, dest)
}

// clamp also maps NaN to lo so a corrupted velocity cannot index outside
// the buffer.
func clamp(x, lo, hi float64) float64 {
	if !(x >= lo) {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
