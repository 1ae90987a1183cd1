package fluid_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fluidsim/internal/fluid"
)

func patterned(n int) *fluid.Field {
	f := fluid.NewField(n)
	for y := 1; y <= n; y++ {
		for x := 1; x <= n; x++ {
			f.Set(x, y, float64(x)*10+float64(y)*0.25+1)
		}
	}
	return f
}

var _ = Describe("SetBoundary", func() {
	const n = 6

	DescribeTable("derives edge ghosts from interior neighbours",
		func(kind fluid.Kind, sx, sy float64) {
			f := patterned(n)
			fluid.SetBoundary(kind, f)

			for i := 1; i <= n; i++ {
				Expect(f.At(0, i)).To(Equal(sx*f.At(1, i)), "left ghost at row %d", i)
				Expect(f.At(n+1, i)).To(Equal(sx*f.At(n, i)), "right ghost at row %d", i)
				Expect(f.At(i, 0)).To(Equal(sy*f.At(i, 1)), "bottom ghost at column %d", i)
				Expect(f.At(i, n+1)).To(Equal(sy*f.At(i, n)), "top ghost at column %d", i)
			}
		},
		Entry("scalar", fluid.Scalar, 1.0, 1.0),
		Entry("horizontal velocity", fluid.HorizontalVelocity, -1.0, 1.0),
		Entry("vertical velocity", fluid.VerticalVelocity, 1.0, -1.0),
	)

	DescribeTable("averages edge ghosts into the corners",
		func(kind fluid.Kind) {
			f := patterned(n)
			fluid.SetBoundary(kind, f)

			Expect(f.At(0, 0)).To(Equal(0.5 * (f.At(1, 0) + f.At(0, 1))))
			Expect(f.At(0, n+1)).To(Equal(0.5 * (f.At(1, n+1) + f.At(0, n))))
			Expect(f.At(n+1, 0)).To(Equal(0.5 * (f.At(n, 0) + f.At(n+1, 1))))
			Expect(f.At(n+1, n+1)).To(Equal(0.5 * (f.At(n, n+1) + f.At(n+1, n))))
		},
		Entry("scalar", fluid.Scalar),
		Entry("horizontal velocity", fluid.HorizontalVelocity),
		Entry("vertical velocity", fluid.VerticalVelocity),
	)

	It("overwrites stale ghost values", func() {
		f := patterned(n)
		f.Set(0, 3, 1e9)
		f.Set(n+1, n+1, -1e9)
		fluid.SetBoundary(fluid.Scalar, f)
		Expect(f.At(0, 3)).To(Equal(f.At(1, 3)))
		Expect(f.At(n+1, n+1)).To(Equal(f.At(n, n)))
	})

	It("leaves interior cells untouched", func() {
		f := patterned(n)
		before := fluid.NewField(n)
		copy(before.Cells(), f.Cells())
		fluid.SetBoundary(fluid.HorizontalVelocity, f)
		for y := 1; y <= n; y++ {
			Expect(f.Row(y)).To(Equal(before.Row(y)))
		}
	})

	It("panics on an unknown kind", func() {
		Expect(func() { fluid.SetBoundary(fluid.Kind(7), fluid.NewField(3)) }).To(Panic())
	})

	It("names each kind", func() {
		Expect(fluid.Scalar.String()).To(Equal("scalar"))
		Expect(fluid.HorizontalVelocity.String()).To(Equal("horizontal-velocity"))
		Expect(fluid.VerticalVelocity.String()).To(Equal("vertical-velocity"))
		Expect(fluid.Kind(9).String()).To(Equal("Kind(9)"))
	})
})
