// Package render maps fluid fields to colours and characters for the
// display frontends.
package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/mazznoer/colorgrad"

	"github.com/san-kum/fluidsim/internal/fluid"
)

// Palette colours a density field. Interior cells blend from Background to
// Fluid by intensity; ghost cells are always Ghost so the boundary ring
// stays visible.
type Palette struct {
	Name       string
	Fluid      color.RGBA
	Background color.RGBA
	Ghost      color.RGBA

	// ramp, when set, replaces the linear blend with 256 sampled colours.
	ramp []color.RGBA
}

// gradientPalette samples g at every intensity level.
func gradientPalette(name string, g colorgrad.Gradient) Palette {
	cols := g.Colors(256)
	ramp := make([]color.RGBA, len(cols))
	for i, c := range cols {
		rgba := color.RGBAModel.Convert(c).(color.RGBA)
		rgba.A = 255
		ramp[i] = rgba
	}
	return Palette{
		Name:       name,
		Fluid:      ramp[len(ramp)-1],
		Background: ramp[0],
		Ghost:      color.RGBA{0, 228, 48, 255},
		ramp:       ramp,
	}
}

var (
	Classic = Palette{
		Name:       "classic",
		Fluid:      color.RGBA{0, 0, 255, 255},
		Background: color.RGBA{0, 0, 0, 255},
		Ghost:      color.RGBA{0, 228, 48, 255},
	}
	Ink = Palette{
		Name:       "ink",
		Fluid:      color.RGBA{20, 20, 40, 255},
		Background: color.RGBA{245, 245, 245, 255},
		Ghost:      color.RGBA{0, 228, 48, 255},
	}
	Ember = Palette{
		Name:       "ember",
		Fluid:      color.RGBA{255, 140, 0, 255},
		Background: color.RGBA{16, 0, 0, 255},
		Ghost:      color.RGBA{0, 228, 48, 255},
	}

	Viridis = gradientPalette("viridis", colorgrad.Viridis())
	Magma   = gradientPalette("magma", colorgrad.Magma())

	Palettes = []Palette{Classic, Ink, Ember, Viridis, Magma}
)

func GetPalette(name string) (Palette, error) {
	for _, p := range Palettes {
		if p.Name == name {
			return p, nil
		}
	}
	return Palette{}, fmt.Errorf("unknown palette: %s", name)
}

// Intensity clamps v to [0, 1] and scales it to a byte. NaN maps to 0.
func Intensity(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v * 255)
}

func (p Palette) Color(v float64) color.RGBA {
	if len(p.ramp) == 256 {
		return p.ramp[Intensity(v)]
	}
	t := uint32(Intensity(v))
	mix := func(a, b uint8) uint8 {
		return uint8((uint32(a)*(255-t) + uint32(b)*t) / 255)
	}
	return color.RGBA{
		R: mix(p.Background.R, p.Fluid.R),
		G: mix(p.Background.G, p.Fluid.G),
		B: mix(p.Background.B, p.Fluid.B),
		A: 255,
	}
}

// FillRGBA writes one pixel per cell, ghost ring included, using the field's
// own linear layout. dst must hold (N+2)² pixels.
func FillRGBA(dst []color.RGBA, f *fluid.Field, p Palette) {
	n := f.N()
	if len(dst) != len(f.Cells()) {
		panic(fmt.Sprintf("render: buffer holds %d pixels, field needs %d", len(dst), len(f.Cells())))
	}
	for y := 0; y <= n+1; y++ {
		for x := 0; x <= n+1; x++ {
			i := f.Index(x, y)
			if fluid.IsGhost(n, x, y) {
				dst[i] = p.Ghost
				continue
			}
			dst[i] = p.Color(f.Cells()[i])
		}
	}
}

// Image renders the field at scale pixels per cell.
func Image(f *fluid.Field, scale int, p Palette) *image.RGBA {
	if scale < 1 {
		scale = 1
	}
	side := f.Stride()
	buf := make([]color.RGBA, side*side)
	FillRGBA(buf, f, p)

	img := image.NewRGBA(image.Rect(0, 0, side*scale, side*scale))
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			c := buf[x+side*y]
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					img.SetRGBA(x*scale+dx, y*scale+dy, c)
				}
			}
		}
	}
	return img
}
