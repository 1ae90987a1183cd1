package fluid_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fluidsim/internal/fluid"
)

var _ = Describe("Field", func() {
	It("allocates a zeroed buffer with a ghost ring", func() {
		f := fluid.NewField(8)
		Expect(f.N()).To(Equal(8))
		Expect(f.Cells()).To(HaveLen(100))
		for _, v := range f.Cells() {
			Expect(v).To(BeZero())
		}
	})

	It("panics on a non-positive size", func() {
		Expect(func() { fluid.NewField(0) }).To(Panic())
	})

	It("maps coordinates row by row", func() {
		f := fluid.NewField(4)
		Expect(f.Index(0, 0)).To(Equal(0))
		Expect(f.Index(3, 0)).To(Equal(3))
		Expect(f.Index(0, 1)).To(Equal(6))
		Expect(f.Index(2, 5)).To(Equal(32))

		f.Set(2, 3, 7.5)
		Expect(f.Cells()[f.Index(2, 3)]).To(Equal(7.5))
		f.Add(2, 3, 0.5)
		Expect(f.At(2, 3)).To(Equal(8.0))
	})

	It("fills every cell", func() {
		f := fluid.NewField(3)
		f.Fill(2)
		for _, v := range f.Cells() {
			Expect(v).To(Equal(2.0))
		}
	})

	It("swaps storage without copying", func() {
		a, b := fluid.NewField(5), fluid.NewField(5)
		a.Set(1, 1, 1)
		b.Set(1, 1, 2)
		pa, pb := &a.Cells()[0], &b.Cells()[0]

		a.Swap(b)

		Expect(&a.Cells()[0]).To(BeIdenticalTo(pb))
		Expect(&b.Cells()[0]).To(BeIdenticalTo(pa))
		Expect(a.At(1, 1)).To(Equal(2.0))
		Expect(b.At(1, 1)).To(Equal(1.0))
	})

	It("refuses to swap fields of different sizes", func() {
		a, b := fluid.NewField(4), fluid.NewField(5)
		Expect(func() { a.Swap(b) }).To(Panic())
	})

	Describe("interior reductions", func() {
		var f *fluid.Field

		BeforeEach(func() {
			f = fluid.NewField(4)
			for i := 0; i <= 5; i++ {
				f.Set(i, 0, 100)
				f.Set(i, 5, 100)
				f.Set(0, i, -100)
				f.Set(5, i, -100)
			}
			f.Set(1, 1, 1)
			f.Set(3, 2, 5)
			f.Set(4, 4, -2)
		})

		It("ignores ghost cells", func() {
			Expect(f.Sum()).To(Equal(4.0))
			Expect(f.Max()).To(Equal(5.0))
			Expect(f.Min()).To(Equal(-2.0))
		})

		It("locates the interior maximum", func() {
			x, y := f.ArgMax()
			Expect(x).To(Equal(3))
			Expect(y).To(Equal(2))
		})

		It("exposes rows that alias the storage", func() {
			row := f.Row(2)
			Expect(row).To(Equal([]float64{0, 0, 5, 0}))
			row[0] = 4
			Expect(f.At(1, 2)).To(Equal(4.0))
		})

		It("computes an interior dot product", func() {
			Expect(f.Dot(f)).To(Equal(1.0 + 25 + 4))
		})
	})

	It("classifies ghost cells", func() {
		Expect(fluid.IsGhost(4, 0, 2)).To(BeTrue())
		Expect(fluid.IsGhost(4, 5, 2)).To(BeTrue())
		Expect(fluid.IsGhost(4, 2, 5)).To(BeTrue())
		Expect(fluid.IsGhost(4, 1, 4)).To(BeFalse())
	})
})
