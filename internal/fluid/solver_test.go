package fluid_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fluidsim/internal/fluid"
)

func allZero(fields ...*fluid.Field) {
	GinkgoHelper()
	for _, f := range fields {
		for i, c := range f.Cells() {
			Expect(c).To(BeZero(), "cell %d", i)
		}
	}
}

var _ = Describe("Solver", func() {
	It("rejects invalid construction parameters", func() {
		_, err := fluid.NewSolver(0, 20)
		Expect(err).To(MatchError(fluid.ErrInvalidParameter))

		_, err = fluid.NewSolver(10, 0)
		Expect(err).To(MatchError(fluid.ErrInvalidParameter))

		s, err := fluid.NewSolver(10, 7)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.N()).To(Equal(10))
		Expect(s.Iterations()).To(Equal(7))
	})

	It("adds scaled sources to every cell", func() {
		dst, src := fluid.NewField(3), fluid.NewField(3)
		dst.Fill(1)
		src.Fill(6)
		fluid.AddSource(dst, src, 0.5)
		for _, c := range dst.Cells() {
			Expect(c).To(Equal(4.0))
		}
	})

	DescribeTable("keeps an empty fluid exactly at rest",
		func(dt float64) {
			const n = 16
			s, err := fluid.NewSolver(n, fluid.DefaultIterations)
			Expect(err).NotTo(HaveOccurred())

			u, v := fluid.NewField(n), fluid.NewField(n)
			u0, v0 := fluid.NewField(n), fluid.NewField(n)
			d, d0 := fluid.NewField(n), fluid.NewField(n)

			for frame := 0; frame < 3; frame++ {
				Expect(s.VelocityStep(u, v, u0, v0, 0.0001, dt)).To(Succeed())
				Expect(s.DensityStep(d, d0, u, v, 0.001, dt)).To(Succeed())
			}
			allZero(u, v, u0, v0, d, d0)
		},
		Entry("60 Hz", 1.0/60),
		Entry("slow frame", 0.5),
		Entry("very long frame", 10.0),
	)

	Describe("input validation", func() {
		const n = 8
		var (
			s      *fluid.Solver
			u, v   *fluid.Field
			u0, v0 *fluid.Field
			d, d0  *fluid.Field
		)

		BeforeEach(func() {
			var err error
			s, err = fluid.NewSolver(n, fluid.DefaultIterations)
			Expect(err).NotTo(HaveOccurred())
			u, v, u0, v0 = fluid.NewField(n), fluid.NewField(n), fluid.NewField(n), fluid.NewField(n)
			d, d0 = fluid.NewField(n), fluid.NewField(n)
			fluid.Inject(d0, 4, 4, 1, 10)
		})

		DescribeTable("rejects bad timesteps before touching any field",
			func(dt float64) {
				Expect(s.DensityStep(d, d0, u, v, 0.001, dt)).To(MatchError(fluid.ErrInvalidTimestep))
				Expect(s.VelocityStep(u, v, u0, v0, 0, dt)).To(MatchError(fluid.ErrInvalidTimestep))
				Expect(d0.At(4, 4)).To(Equal(10.0))
				Expect(d.Sum()).To(BeZero())
			},
			Entry("zero", 0.0),
			Entry("negative", -0.01),
			Entry("NaN", math.NaN()),
			Entry("infinite", math.Inf(1)),
		)

		DescribeTable("rejects bad rates",
			func(rate float64) {
				Expect(s.DensityStep(d, d0, u, v, rate, 0.01)).To(MatchError(fluid.ErrInvalidParameter))
				Expect(s.VelocityStep(u, v, u0, v0, rate, 0.01)).To(MatchError(fluid.ErrInvalidParameter))
			},
			Entry("negative", -0.001),
			Entry("NaN", math.NaN()),
			Entry("infinite", math.Inf(1)),
		)

		It("rejects fields from another grid", func() {
			other := fluid.NewField(n + 1)
			Expect(s.DensityStep(other, d0, u, v, 0.001, 0.01)).To(MatchError(fluid.ErrDimensionMismatch))
			Expect(s.VelocityStep(u, v, other, v0, 0, 0.01)).To(MatchError(fluid.ErrDimensionMismatch))
		})
	})

	Describe("density step", func() {
		It("carries density along a prescribed velocity", func() {
			const n = 40
			s, err := fluid.NewSolver(n, fluid.DefaultIterations)
			Expect(err).NotTo(HaveOccurred())

			d, d0 := fluid.NewField(n), fluid.NewField(n)
			u, v := fluid.NewField(n), fluid.NewField(n)
			fluid.Inject(d0, 20, 20, 2, 60)
			u.Fill(0.5)

			centroid := func(f *fluid.Field) float64 {
				sum, weighted := 0.0, 0.0
				for y := 1; y <= n; y++ {
					for x := 1; x <= n; x++ {
						sum += f.At(x, y)
						weighted += float64(x) * f.At(x, y)
					}
				}
				return weighted / sum
			}

			dt := 1.0 / n
			Expect(s.DensityStep(d, d0, u, v, 0, dt)).To(Succeed())

			Expect(centroid(d)).To(BeNumerically("~", 19.5+0.5, 1e-9))
			Expect(d.Sum()).To(BeNumerically("~", 16*60*dt, 1e-9))
		})

		It("diffuses an injected puff in place without velocity", func() {
			const n = 100
			s, err := fluid.NewSolver(n, fluid.DefaultIterations)
			Expect(err).NotTo(HaveOccurred())

			d, d0 := fluid.NewField(n), fluid.NewField(n)
			u, v := fluid.NewField(n), fluid.NewField(n)
			fluid.Inject(d0, 50, 50, 1, 1000)

			dt := 1.0 / 60
			Expect(s.DensityStep(d, d0, u, v, 0.001, dt)).To(Succeed())

			peak := d.At(50, 50)
			Expect(peak).To(BeNumerically(">=", d.Max()*(1-1e-9)))
			Expect(peak).To(BeNumerically("<", 1000*dt))
			px, py := d.ArgMax()
			Expect(px).To(BeElementOf(49, 50))
			Expect(py).To(BeElementOf(49, 50))

			for dy := -2; dy <= 2; dy++ {
				for dx := -2; dx <= 2; dx++ {
					x, y := 50+dx, 50+dy
					if (x == 49 || x == 50) && (y == 49 || y == 50) {
						continue
					}
					Expect(d.At(x, y)).To(BeNumerically(">", 0), "cell (%d,%d)", x, y)
					Expect(d.At(x, y)).To(BeNumerically("<", peak), "cell (%d,%d)", x, y)
				}
			}

			for _, c := range [][2]int{{1, 1}, {5, 5}, {10, 90}, {90, 10}, {20, 50}, {50, 20}} {
				Expect(d.At(c[0], c[1])).To(BeZero(), "cell (%d,%d)", c[0], c[1])
			}

			Expect(d.Sum()).To(BeNumerically("~", 4*1000*dt, 1e-9))
		})
	})

	Describe("velocity step", func() {
		It("turns an injected force into a finite flow", func() {
			const n = 100
			s, err := fluid.NewSolver(n, fluid.DefaultIterations)
			Expect(err).NotTo(HaveOccurred())

			u, v := fluid.NewField(n), fluid.NewField(n)
			u0, v0 := fluid.NewField(n), fluid.NewField(n)
			fluid.Inject(u0, 50, 50, 1, 3.6)

			Expect(s.VelocityStep(u, v, u0, v0, 0, 1.0/60)).To(Succeed())

			Expect(u.At(50, 50)).To(BeNumerically(">", 0))
			Expect(u.At(49, 49)).To(BeNumerically(">", 0))
			for _, f := range []*fluid.Field{u, v} {
				for _, c := range f.Cells() {
					Expect(math.IsNaN(c) || math.IsInf(c, 0)).To(BeFalse())
				}
			}
		})
	})
})
