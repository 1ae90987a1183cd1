package fluid_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fluidsim/internal/fluid"
)

var _ = Describe("Advect", func() {
	const n = 24
	var s *fluid.Solver

	BeforeEach(func() {
		var err error
		s, err = fluid.NewSolver(n, fluid.DefaultIterations)
		Expect(err).NotTo(HaveOccurred())
	})

	DescribeTable("leaves a field unchanged under zero velocity",
		func(dt float64) {
			src := patterned(n)
			fluid.SetBoundary(fluid.Scalar, src)
			dest := fluid.NewField(n)
			u, v := fluid.NewField(n), fluid.NewField(n)

			s.Advect(fluid.Scalar, dest, src, u, v, dt)

			for y := 1; y <= n; y++ {
				Expect(dest.Row(y)).To(Equal(src.Row(y)), "row %d", y)
			}
		},
		Entry("one frame", 1.0/60),
		Entry("one second", 1.0),
		Entry("long step", 50.0),
	)

	It("shifts by whole cells under a uniform velocity", func() {
		src := patterned(n)
		dest := fluid.NewField(n)
		u, v := fluid.NewField(n), fluid.NewField(n)
		u.Fill(1)

		s.Advect(fluid.Scalar, dest, src, u, v, 1.0/n)

		for y := 1; y <= n; y++ {
			for x := 2; x <= n; x++ {
				Expect(dest.At(x, y)).To(BeNumerically("~", src.At(x-1, y), 1e-12))
			}
		}
	})

	It("interpolates half-cell shifts bilinearly", func() {
		src, dest := fluid.NewField(n), fluid.NewField(n)
		src.Set(10, 10, 8)
		u, v := fluid.NewField(n), fluid.NewField(n)
		u.Fill(0.5)
		v.Fill(0.5)

		s.Advect(fluid.Scalar, dest, src, u, v, 1.0/n)

		Expect(dest.At(10, 10)).To(BeNumerically("~", 2, 1e-12))
		Expect(dest.At(11, 10)).To(BeNumerically("~", 2, 1e-12))
		Expect(dest.At(10, 11)).To(BeNumerically("~", 2, 1e-12))
		Expect(dest.At(11, 11)).To(BeNumerically("~", 2, 1e-12))
		Expect(dest.Sum()).To(BeNumerically("~", 8, 1e-12))
	})

	It("clamps back-traces that leave the grid", func() {
		src := patterned(n)
		fluid.SetBoundary(fluid.Scalar, src)
		dest := fluid.NewField(n)
		u, v := fluid.NewField(n), fluid.NewField(n)
		u.Fill(1e6)

		s.Advect(fluid.Scalar, dest, src, u, v, 1.0/60)

		for y := 1; y <= n; y++ {
			want := 0.5*src.At(0, y) + 0.5*src.At(1, y)
			for x := 1; x <= n; x++ {
				Expect(dest.At(x, y)).To(BeNumerically("~", want, 1e-9))
			}
		}
	})

	It("applies the boundary of the requested kind", func() {
		src := patterned(n)
		dest := fluid.NewField(n)
		u, v := fluid.NewField(n), fluid.NewField(n)

		s.Advect(fluid.VerticalVelocity, dest, src, u, v, 0.1)

		Expect(dest.At(3, 0)).To(Equal(-dest.At(3, 1)))
		Expect(dest.At(0, 3)).To(Equal(dest.At(1, 3)))
	})
})
