package viz

import (
	"math"
	"strings"
)

const brailleBase = 0x2800

// dotBits maps a sub-pixel (x%2, y%4) to its braille dot.
var dotBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a cols×rows block of braille cells, each holding a 2×4 grid of
// dots, so drawing happens at twice the horizontal and four times the
// vertical terminal resolution.
type Canvas struct {
	cols, rows int
	dots       []uint8
}

func NewCanvas(cols, rows int) *Canvas {
	return &Canvas{cols: cols, rows: rows, dots: make([]uint8, cols*rows)}
}

// Size returns the canvas extent in dots.
func (c *Canvas) Size() (w, h int) { return c.cols * 2, c.rows * 4 }

// Set lights the dot (x, y); dots outside the canvas are ignored.
func (c *Canvas) Set(x, y int) {
	w, h := c.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	c.dots[x/2+c.cols*(y/4)] |= dotBits[y%4][x%2]
}

// At returns the braille rune of cell (col, row).
func (c *Canvas) At(col, row int) rune {
	return rune(brailleBase + int(c.dots[col+c.cols*row]))
}

func (c *Canvas) Clear() {
	clear(c.dots)
}

// DrawLine steps from (x0, y0) to (x1, y1) one dot at a time along the
// longer axis.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, dy := x1-x0, y1-y0
	steps := max(absInt(dx), absInt(dy))
	if steps == 0 {
		c.Set(x0, y0)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		c.Set(x0+int(math.Round(t*float64(dx))), y0+int(math.Round(t*float64(dy))))
	}
}

// Cross marks (x, y) with a plus sign of the given arm length.
func (c *Canvas) Cross(x, y, arm int) {
	c.DrawLine(x-arm, y, x+arm, y)
	c.DrawLine(x, y-arm, x, y+arm)
}

func (c *Canvas) String() string {
	var b strings.Builder
	b.Grow(c.rows * (c.cols*3 + 1))
	for row := 0; row < c.rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := 0; col < c.cols; col++ {
			b.WriteRune(c.At(col, row))
		}
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
