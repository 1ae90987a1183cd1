package fluid

// Project removes the divergent part of (u, v) using p and div as scratch.
//
// The divergence is computed by central differences, the Poisson equation
// ∇²p = div is relaxed with the solver's fixed iteration count, and the
// pressure gradient is subtracted from the velocity.
func (s *Solver) Project(u, v, p, div *Field) {
	n := s.n
	h := 1.0 / float64(n)

	Divergence(div, u, v)
	p.Fill(0)
	SetBoundary(Scalar, p)

	s.relax(Scalar, p, div, 1, 4)

	for j := 1; j <= n; j++ {
		for i := 1; i <= n; i++ {
			u.Add(i, j, -0.5*(p.At(i+1, j)-p.At(i-1, j))/h)
			v.Add(i, j, -0.5*(p.At(i, j+1)-p.At(i, j-1))/h)
		}
	}
	SetBoundary(HorizontalVelocity, u)
	SetBoundary(VerticalVelocity, v)
}

// Divergence writes −0.5·h·(∂u/∂x + ∂v/∂y) by central differences into the
// interior of dst and refreshes its ghost cells. The sign and scale match
// the right-hand side used by [Solver.Project].
func Divergence(dst, u, v *Field) {
	n := dst.n
	h := 1.0 / float64(n)
	for j := 1; j <= n; j++ {
		for i := 1; i <= n; i++ {
			dst.Set(i, j, -0.5*h*(u.At(i+1, j)-u.At(i-1, j)+v.At(i, j+1)-v.At(i, j-1)))
		}
	}
	SetBoundary(Scalar, dst)
}
