package export

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/san-kum/fluidsim/internal/fluid"
	"github.com/san-kum/fluidsim/internal/render"
)

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// DensityToSVG draws one square per cell, ghost ring included. Cells at the
// background colour are left to the backdrop rect.
func DensityToSVG(f *fluid.Field, scale float64, p render.Palette) string {
	if f == nil {
		return ""
	}
	n := f.N()
	side := float64(f.Stride()) * scale

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, side, side, side, side, hex(p.Background)))

	for y := 0; y <= n+1; y++ {
		for x := 0; x <= n+1; x++ {
			c := p.Ghost
			if !fluid.IsGhost(n, x, y) {
				c = p.Color(f.At(x, y))
				if c == p.Background {
					continue
				}
			}
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>
`, float64(x)*scale, float64(y)*scale, scale, scale, hex(c)))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG draws values as a polyline over their index.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		minY, maxY = math.Min(minY, v), math.Max(maxY, v)
	}
	if minY > maxY {
		return ""
	}

	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2
	stepX := float64(width) / float64(len(values)-1)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	first := true
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		x := float64(i) * stepX
		y := float64(height) - (v-minY)/rangeY*float64(height)
		if first {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			first = false
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
