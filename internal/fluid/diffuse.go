package fluid

// Diffuse advances dest by one implicit diffusion step from src.
//
// The linear system (1+4a)·x − a·Σneighbours(x) = src, a = dt·rate·N², is
// relaxed with a fixed number of in-place Gauss-Seidel sweeps starting from
// the current contents of dest. A large a leaves the result under-converged;
// that is accepted in exchange for a bounded cost per frame.
func (s *Solver) Diffuse(kind Kind, dest, src *Field, rate, dt float64) {
	n := s.n
	a := dt * rate * float64(n*n)
	s.relax(kind, dest, src, a, 1+4*a)
}

// relax runs the shared Gauss-Seidel kernel
// x[i,j] = (b[i,j] + a·Σneighbours(x)) / c, enforcing the boundary after
// every sweep.
func (s *Solver) relax(kind Kind, x, b *Field, a, c float64) {
	n, stride := s.n, x.Stride()
	xc, bc := x.cells, b.cells
	for k := 0; k < s.iterations; k++ {
		for j := 1; j <= n; j++ {
			for i := 1; i <= n; i++ {
				idx := i + stride*j
				xc[idx] = (bc[idx] + a*(xc[idx-1]+xc[idx+1]+xc[idx-stride]+xc[idx+stride])) / c
			}
		}
		SetBoundary(kind, x)
	}
}
