package fluid_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fluidsim/internal/fluid"
)

var _ = Describe("Diffuse", func() {
	const n = 32
	var s *fluid.Solver

	BeforeEach(func() {
		var err error
		s, err = fluid.NewSolver(n, fluid.DefaultIterations)
		Expect(err).NotTo(HaveOccurred())
	})

	It("is the identity at zero rate", func() {
		src := patterned(n)
		dest := fluid.NewField(n)

		s.Diffuse(fluid.Scalar, dest, src, 0, 0.1)

		for y := 1; y <= n; y++ {
			Expect(dest.Row(y)).To(Equal(src.Row(y)))
		}
		Expect(dest.Sum()).To(Equal(src.Sum()))
	})

	It("spreads an impulse while lowering its peak", func() {
		src, dest := fluid.NewField(n), fluid.NewField(n)
		src.Set(16, 16, 100)
		mass := src.Sum()

		peak := src.Max()
		for step := 0; step < 5; step++ {
			s.Diffuse(fluid.Scalar, dest, src, 0.001, 0.1)

			Expect(dest.Max()).To(BeNumerically("<", peak), "step %d", step)
			Expect(dest.Sum()).To(BeNumerically("~", mass, 1e-9*mass), "step %d", step)
			Expect(dest.At(17, 16)).To(BeNumerically(">", 0))
			Expect(dest.At(16, 15)).To(BeNumerically(">", 0))

			peak = dest.Max()
			src.Swap(dest)
		}
	})

	It("keeps the peak at the impulse", func() {
		src, dest := fluid.NewField(n), fluid.NewField(n)
		src.Set(10, 20, 1)

		s.Diffuse(fluid.Scalar, dest, src, 0.002, 0.1)

		x, y := dest.ArgMax()
		Expect([]int{x, y}).To(Equal([]int{10, 20}))
	})

	It("refreshes ghost cells for velocity kinds", func() {
		src, dest := fluid.NewField(n), fluid.NewField(n)
		src.Set(1, 5, 2)

		s.Diffuse(fluid.HorizontalVelocity, dest, src, 0.001, 0.1)

		Expect(dest.At(1, 5)).To(BeNumerically(">", 0))
		Expect(dest.At(0, 5)).To(Equal(-dest.At(1, 5)))
	})
})
