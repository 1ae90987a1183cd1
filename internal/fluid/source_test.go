package fluid_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fluidsim/internal/fluid"
)

var _ = Describe("Inject", func() {
	It("adds the amount to the half-open square only", func() {
		f := fluid.NewField(100)
		fluid.Inject(f, 50, 50, 1, 1000)

		for y := 0; y <= 101; y++ {
			for x := 0; x <= 101; x++ {
				want := 0.0
				if (x == 49 || x == 50) && (y == 49 || y == 50) {
					want = 1000
				}
				Expect(f.At(x, y)).To(Equal(want), "cell (%d,%d)", x, y)
			}
		}
	})

	It("accumulates repeated injections", func() {
		f := fluid.NewField(10)
		fluid.Inject(f, 5, 5, 2, 1)
		fluid.Inject(f, 5, 5, 2, 1)
		Expect(f.At(3, 3)).To(Equal(2.0))
		Expect(f.At(6, 6)).To(Equal(2.0))
		Expect(f.At(7, 6)).To(BeZero())
		Expect(f.Sum()).To(Equal(32.0))
	})

	It("reaches the ghost ring at the grid limits", func() {
		f := fluid.NewField(10)
		Expect(func() { fluid.Inject(f, 1, 1, 1, 1) }).NotTo(Panic())
		Expect(func() { fluid.Inject(f, 11, 11, 1, 1) }).NotTo(Panic())
		Expect(f.At(0, 0)).To(Equal(1.0))
		Expect(f.At(11, 11)).To(Equal(1.0))
	})

	DescribeTable("panics when the square leaves the grid",
		func(cx, cy, r int) {
			f := fluid.NewField(10)
			Expect(func() { fluid.Inject(f, cx, cy, r, 1) }).To(Panic())
		},
		Entry("left", 0, 5, 1),
		Entry("bottom", 5, 0, 1),
		Entry("right", 12, 5, 1),
		Entry("top", 5, 12, 1),
		Entry("too wide", 5, 5, 7),
	)

	It("clips centres so the square fits", func() {
		x, y := fluid.ClipCenter(100, -4, 200, 2)
		Expect(x).To(Equal(2))
		Expect(y).To(Equal(100))

		x, y = fluid.ClipCenter(100, 50, 60, 2)
		Expect([]int{x, y}).To(Equal([]int{50, 60}))

		f := fluid.NewField(100)
		x, y = fluid.ClipCenter(100, 500, -500, 3)
		Expect(func() { fluid.Inject(f, x, y, 3, 1) }).NotTo(Panic())
	})
})

var _ = Describe("InjectDisc", func() {
	It("fills cells strictly inside the radius", func() {
		f := fluid.NewField(20)
		fluid.InjectDisc(f, 10, 10, 2, 1)

		Expect(f.Sum()).To(Equal(9.0))
		Expect(f.At(9, 9)).To(Equal(1.0))
		Expect(f.At(8, 10)).To(BeZero())
	})

	It("skips cells outside the grid", func() {
		f := fluid.NewField(20)
		fluid.InjectDisc(f, 1, 1, 3, 1)
		Expect(f.At(0, 0)).To(BeZero())
		Expect(f.At(1, 1)).To(Equal(1.0))
	})
})
