package viz

import (
	"math"
	"strings"
)

// Braille cells hold 2x4 dots:
//
//	1 4
//	2 5
//	3 6
//	7 8
//
// starting at U+2800.
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a braille plotting surface mapped onto a rectangle of the plane.
// It has Width*2 by Height*4 dots.
type Canvas struct {
	Width, Height int
	Grid          [][]rune

	xmin, xmax, ymin, ymax float64
}

func NewCanvas(w, h int, xmin, xmax, ymin, ymax float64) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		xmin:   xmin,
		xmax:   xmax,
		ymin:   ymin,
		ymax:   ymax,
	}
	if c.xmax == c.xmin {
		c.xmax = c.xmin + 1
	}
	if c.ymax == c.ymin {
		c.ymax = c.ymin + 1
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
	return c
}

// Bounds is the rectangle of the plane the canvas covers.
func (c *Canvas) Bounds() (xmin, xmax, ymin, ymax float64) {
	return c.xmin, c.xmax, c.ymin, c.ymax
}

// dot maps a point of the plane to dot coordinates, y growing downwards.
func (c *Canvas) dot(x, y float64) (int, int) {
	dx := (x - c.xmin) / (c.xmax - c.xmin) * float64(c.Width*2-1)
	dy := (c.ymax - y) / (c.ymax - c.ymin) * float64(c.Height*4-1)
	return int(math.Round(dx)), int(math.Round(dy))
}

// set lights the dot at (x, y); out-of-range dots are ignored.
func (c *Canvas) set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= pixelMap[y%4][x%2]
}

// Point plots a single point of the plane. Non-finite points are skipped.
func (c *Canvas) Point(x, y float64) {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return
	}
	c.set(c.dot(x, y))
}

// Line draws a segment between two points of the plane with Bresenham's algorithm.
func (c *Canvas) Line(x0, y0, x1, y1 float64) {
	for _, v := range []float64{x0, y0, x1, y1} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return
		}
	}
	ax, ay := c.dot(x0, y0)
	bx, by := c.dot(x1, y1)

	dx := absInt(bx - ax)
	dy := absInt(by - ay)
	sx, sy := -1, -1
	if ax < bx {
		sx = 1
	}
	if ay < by {
		sy = 1
	}
	err := dx - dy

	for {
		c.set(ax, ay)
		if ax == bx && ay == by {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			ax += sx
		}
		if e2 < dx {
			err += dx
			ay += sy
		}
	}
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
