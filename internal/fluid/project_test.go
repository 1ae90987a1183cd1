package fluid_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fluidsim/internal/fluid"
)

// blob returns a Gaussian horizontal jet centred on the grid.
func blob(n int) (u, v *fluid.Field) {
	u, v = fluid.NewField(n), fluid.NewField(n)
	c := float64(n) / 2
	for y := 1; y <= n; y++ {
		for x := 1; x <= n; x++ {
			dx, dy := float64(x)-c, float64(y)-c
			u.Set(x, y, math.Exp(-(dx*dx+dy*dy)/9))
		}
	}
	fluid.SetBoundary(fluid.HorizontalVelocity, u)
	fluid.SetBoundary(fluid.VerticalVelocity, v)
	return u, v
}

func divergenceNorms(u, v *fluid.Field) (sumSq, maxAbs float64) {
	div := fluid.NewField(u.N())
	fluid.Divergence(div, u, v)
	for y := 1; y <= div.N(); y++ {
		for _, d := range div.Row(y) {
			sumSq += d * d
			maxAbs = math.Max(maxAbs, math.Abs(d))
		}
	}
	return sumSq, maxAbs
}

// wallJet returns a jet pushing into the left wall with a shear
// component along the bottom wall.
func wallJet(n int) (u, v *fluid.Field) {
	u, v = fluid.NewField(n), fluid.NewField(n)
	for y := 1; y <= n; y++ {
		for x := 1; x <= n; x++ {
			dx, dy := float64(x-2), float64(y-3)
			g := math.Exp(-(dx*dx + dy*dy) / 4)
			u.Set(x, y, -g)
			v.Set(x, y, -0.5*g)
		}
	}
	fluid.SetBoundary(fluid.HorizontalVelocity, u)
	fluid.SetBoundary(fluid.VerticalVelocity, v)
	return u, v
}

var _ = Describe("Project", func() {
	const n = 32

	project := func(iterations int, u, v *fluid.Field) {
		s, err := fluid.NewSolver(n, iterations)
		Expect(err).NotTo(HaveOccurred())
		s.Project(u, v, fluid.NewField(n), fluid.NewField(n))
	}

	It("reduces the divergence of the velocity field", func() {
		u, v := blob(n)
		beforeSq, beforeMax := divergenceNorms(u, v)
		Expect(beforeMax).To(BeNumerically(">", 0))

		project(fluid.DefaultIterations, u, v)

		afterSq, afterMax := divergenceNorms(u, v)
		Expect(afterSq).To(BeNumerically("<", beforeSq))
		Expect(afterMax).To(BeNumerically("<", beforeMax))
	})

	It("removes more divergence with more sweeps", func() {
		u1, v1 := blob(n)
		u2, v2 := blob(n)

		project(2, u1, v1)
		project(60, u2, v2)

		coarse, _ := divergenceNorms(u1, v1)
		fine, _ := divergenceNorms(u2, v2)
		Expect(fine).To(BeNumerically("<", coarse))
	})

	It("keeps a zero field at zero", func() {
		u, v := fluid.NewField(n), fluid.NewField(n)
		p, div := fluid.NewField(n), fluid.NewField(n)
		p.Fill(3)

		s, err := fluid.NewSolver(n, fluid.DefaultIterations)
		Expect(err).NotTo(HaveOccurred())
		s.Project(u, v, p, div)

		for _, f := range []*fluid.Field{u, v, p, div} {
			for _, c := range f.Cells() {
				Expect(c).To(BeZero())
			}
		}
	})

	It("leaves reflective walls on the corrected velocity", func() {
		u, v := blob(n)
		project(fluid.DefaultIterations, u, v)

		for i := 1; i <= n; i++ {
			Expect(u.At(0, i)).To(Equal(-u.At(1, i)))
			Expect(u.At(n+1, i)).To(Equal(-u.At(n, i)))
			Expect(v.At(i, 0)).To(Equal(-v.At(i, 1)))
			Expect(v.At(i, n+1)).To(Equal(-v.At(i, n)))
		}
	})
})

var _ = Describe("Project near a wall", func() {
	const n = 24

	It("keeps the ghost cells reflective and flattens the divergence at the wall", func() {
		u, v := wallJet(n)
		_, beforeMax := divergenceNorms(u, v)
		Expect(beforeMax).To(BeNumerically(">", 0))

		s, err := fluid.NewSolver(n, fluid.DefaultIterations)
		Expect(err).NotTo(HaveOccurred())
		s.Project(u, v, fluid.NewField(n), fluid.NewField(n))

		for i := 1; i <= n; i++ {
			Expect(u.At(0, i)).To(Equal(-u.At(1, i)))
			Expect(u.At(i, 0)).To(Equal(u.At(i, 1)))
			Expect(v.At(i, 0)).To(Equal(-v.At(i, 1)))
			Expect(v.At(0, i)).To(Equal(v.At(1, i)))
		}
		Expect(u.At(0, 0)).To(Equal(0.5 * (u.At(1, 0) + u.At(0, 1))))
		Expect(v.At(0, 0)).To(Equal(0.5 * (v.At(1, 0) + v.At(0, 1))))

		_, afterMax := divergenceNorms(u, v)
		Expect(afterMax).To(BeNumerically("<", beforeMax))
	})
})

var _ = Describe("Divergence", func() {
	It("uses scaled central differences", func() {
		const n = 10
		u, v := fluid.NewField(n), fluid.NewField(n)
		u.Set(5, 5, 1)
		div := fluid.NewField(n)

		fluid.Divergence(div, u, v)

		h := 1.0 / n
		Expect(div.At(6, 5)).To(BeNumerically("~", 0.5*h, 1e-15))
		Expect(div.At(4, 5)).To(BeNumerically("~", -0.5*h, 1e-15))
		Expect(div.At(5, 5)).To(BeZero())
	})
})
