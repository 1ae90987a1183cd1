// Package fluid implements a two-dimensional stable-fluids solver.
//
// The solver follows the semi-implicit scheme of Jos Stam on a fixed square
// grid of N×N interior cells surrounded by a one-cell ghost ring:
//
//   - [Field]: flat (N+2)² buffer with O(1) [Field.Swap]
//   - [SetBoundary]: derives ghost cells from interior cells per [Kind]
//   - [Solver.Diffuse]: implicit diffusion by Gauss-Seidel relaxation
//   - [Solver.Advect]: semi-Lagrangian back-tracing with bilinear sampling
//   - [Solver.Project]: pressure projection towards a divergence-free field
//   - [Solver.VelocityStep], [Solver.DensityStep]: one frame of each field
//
// # Example
//
//	s, _ := fluid.NewSolver(100, fluid.DefaultIterations)
//	u, v := fluid.NewField(100), fluid.NewField(100)
//	u0, v0 := fluid.NewField(100), fluid.NewField(100)
//	d, d0 := fluid.NewField(100), fluid.NewField(100)
//	fluid.Inject(d0, 50, 50, 1, 1000)
//	_ = s.VelocityStep(u, v, u0, v0, 0, dt)
//	_ = s.DensityStep(d, d0, u, v, 0.001, dt)
//
// # Determinism
//
// Relaxation sweeps update cells in place in lexicographic order, so every
// sweep reads neighbours already updated within the same sweep. Results are
// bit-for-bit reproducible on one platform; the sweeps must not be split
// across goroutines without switching to a different ordering.
package fluid
