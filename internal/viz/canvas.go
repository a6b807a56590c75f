package viz

import (
	"math"
	"strings"
)

// Braille cells hold a 2x4 dot grid:
//
//	1 4
//	2 5
//	3 6
//	7 8
const brailleBlank = 0x2800

var dotBits = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille dot canvas of Width x Height cells, addressed in
// dots (Width*2 by Height*4).
type Canvas struct {
	Width, Height int
	cells         [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: max(w, 0), Height: max(h, 0)}
	c.cells = make([][]rune, c.Height)
	for i := range c.cells {
		c.cells[i] = make([]rune, c.Width)
	}
	c.Clear()
	return c
}

func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return
	}
	c.cells[y/4][x/2] |= dotBits[y%4][x%2]
}

func (c *Canvas) Clear() {
	for _, row := range c.cells {
		for j := range row {
			row[j] = brailleBlank
		}
	}
}

// Line draws from (x0,y0) to (x1,y1) with Bresenham's algorithm.
func (c *Canvas) Line(x0, y0, x1, y1 int) {
	dx, dy := abs(x1-x0), abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy
	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	rows := make([]string, len(c.cells))
	for i, row := range c.cells {
		rows[i] = string(row)
	}
	return strings.Join(rows, "\n")
}

// DrawBackdrop paints the landing scenery: a sparse star field and two
// ridge lines. offset shifts the whole scene down by that many dots, which
// is how scrolling parallax moves it.
func DrawBackdrop(c *Canvas, offset int) {
	c.Clear()
	w, h := c.Width*2, c.Height*4
	if w == 0 || h == 0 {
		return
	}
	for i := 0; i < w*h/180; i++ {
		// fixed pseudo-random star positions so frames are stable
		x := (i*7919 + 13) % w
		y := (i*104729 + 7) % (h / 2)
		c.Set(x, y+offset)
	}
	ridge := func(base, amp, freq, phase float64) {
		prev := -1
		for x := 0; x < w; x++ {
			y := int(base+amp*math.Sin(float64(x)*freq+phase)) + offset
			if prev >= 0 {
				c.Line(x-1, prev, x, y)
			}
			prev = y
		}
	}
	ridge(float64(h)*0.62, float64(h)*0.08, 0.045, 0.3)
	ridge(float64(h)*0.78, float64(h)*0.05, 0.09, 1.7)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
