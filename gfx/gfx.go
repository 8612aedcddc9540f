// Package gfx provides drawing primitives for displays built on windowed
// pixel writes.
//
// It consumes only single-pixel and rectangular-fill operations; horizontal
// and vertical spans are redirected to batched fills, which is the
// difference between millisecond and second-scale drawing on a serial bus.
package gfx

import (
	"image"

	"periph.io/x/devices/v3/ili9488/rgb666"
)

// Display is the drawing contract consumed by this package. *ili9488.Dev
// implements it.
type Display interface {
	DrawPixel(x, y int, c rgb666.Color) error
	FillArea(x0, y0, x1, y1 int, c rgb666.Color) error
	Bounds() image.Rectangle
}

// DrawHLine draws a horizontal line of width w starting at (x, y).
func DrawHLine(d Display, x, y, w int, c rgb666.Color) error {
	if w <= 0 {
		return nil
	}
	return d.FillArea(x, y, x+w-1, y, c)
}

// DrawVLine draws a vertical line of height h starting at (x, y).
func DrawVLine(d Display, x, y, h int, c rgb666.Color) error {
	if h <= 0 {
		return nil
	}
	return d.FillArea(x, y, x, y+h-1, c)
}

// DrawLine draws a line between two points using Bresenham's algorithm.
// Horizontal and vertical lines are detected and drawn as batched fills.
func DrawLine(d Display, x0, y0, x1, y1 int, c rgb666.Color) error {
	if y0 == y1 {
		if x0 > x1 {
			x0, x1 = x1, x0
		}
		return DrawHLine(d, x0, y0, x1-x0+1, c)
	}
	if x0 == x1 {
		if y0 > y1 {
			y0, y1 = y1, y0
		}
		return DrawVLine(d, x0, y0, y1-y0+1, c)
	}

	steep := abs(y1-y0) > abs(x1-x0)
	if steep {
		x0, y0 = y0, x0
		x1, y1 = y1, x1
	}
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}

	dx := x1 - x0
	dy := abs(y1 - y0)
	err := dx / 2
	ystep := -1
	if y0 < y1 {
		ystep = 1
	}

	for ; x0 <= x1; x0++ {
		var e error
		if steep {
			e = d.DrawPixel(y0, x0, c)
		} else {
			e = d.DrawPixel(x0, y0, c)
		}
		if e != nil {
			return e
		}
		err -= dy
		if err < 0 {
			y0 += ystep
			err += dx
		}
	}
	return nil
}

// DrawRect draws the outline of a w×h rectangle with its top-left corner at
// (x, y).
func DrawRect(d Display, x, y, w, h int, c rgb666.Color) error {
	if w <= 0 || h <= 0 {
		return nil
	}
	if err := DrawHLine(d, x, y, w, c); err != nil {
		return err
	}
	if err := DrawHLine(d, x, y+h-1, w, c); err != nil {
		return err
	}
	if err := DrawVLine(d, x, y, h, c); err != nil {
		return err
	}
	return DrawVLine(d, x+w-1, y, h, c)
}

// FillRect fills a w×h rectangle with its top-left corner at (x, y).
func FillRect(d Display, x, y, w, h int, c rgb666.Color) error {
	if w <= 0 || h <= 0 {
		return nil
	}
	return d.FillArea(x, y, x+w-1, y+h-1, c)
}

// DrawCircle draws the outline of a circle using the midpoint algorithm
// with 8-way symmetric point plotting.
func DrawCircle(d Display, x0, y0, r int, c rgb666.Color) error {
	if r < 0 {
		return nil
	}
	f := 1 - r
	ddfx := 1
	ddfy := -2 * r
	x := 0
	y := r

	pts := [][2]int{
		{x0, y0 + r}, {x0, y0 - r}, {x0 + r, y0}, {x0 - r, y0},
	}
	for _, p := range pts {
		if err := d.DrawPixel(p[0], p[1], c); err != nil {
			return err
		}
	}

	for x < y {
		if f >= 0 {
			y--
			ddfy += 2
			f += ddfy
		}
		x++
		ddfx += 2
		f += ddfx

		oct := [][2]int{
			{x0 + x, y0 + y}, {x0 - x, y0 + y},
			{x0 + x, y0 - y}, {x0 - x, y0 - y},
			{x0 + y, y0 + x}, {x0 - y, y0 + x},
			{x0 + y, y0 - x}, {x0 - y, y0 - x},
		}
		for _, p := range oct {
			if err := d.DrawPixel(p[0], p[1], c); err != nil {
				return err
			}
		}
	}
	return nil
}

// FillCircle fills a circle centered at (x0, y0).
func FillCircle(d Display, x0, y0, r int, c rgb666.Color) error {
	if r < 0 {
		return nil
	}
	if err := DrawVLine(d, x0, y0-r, 2*r+1, c); err != nil {
		return err
	}
	return fillCircleHelper(d, x0, y0, r, 3, 0, c)
}

// fillCircleHelper fills the left (corners&2) and/or right (corners&1)
// halves of a circle with one vertical span per column.
func fillCircleHelper(d Display, x0, y0, r, corners, delta int, c rgb666.Color) error {
	f := 1 - r
	ddfx := 1
	ddfy := -2 * r
	x := 0
	y := r
	px := x
	py := y

	delta++ // avoids a rounding artifact at the rim

	for x < y {
		if f >= 0 {
			y--
			ddfy += 2
			f += ddfy
		}
		x++
		ddfx += 2
		f += ddfx

		if x < y+1 {
			if corners&1 != 0 {
				if err := DrawVLine(d, x0+x, y0-y, 2*y+delta, c); err != nil {
					return err
				}
			}
			if corners&2 != 0 {
				if err := DrawVLine(d, x0-x, y0-y, 2*y+delta, c); err != nil {
					return err
				}
			}
		}
		if y != py {
			if corners&1 != 0 {
				if err := DrawVLine(d, x0+py, y0-px, 2*px+delta, c); err != nil {
					return err
				}
			}
			if corners&2 != 0 {
				if err := DrawVLine(d, x0-py, y0-px, 2*px+delta, c); err != nil {
					return err
				}
			}
			py = y
		}
		px = x
	}
	return nil
}

// DrawTriangle draws the outline of a triangle.
func DrawTriangle(d Display, x0, y0, x1, y1, x2, y2 int, c rgb666.Color) error {
	if err := DrawLine(d, x0, y0, x1, y1, c); err != nil {
		return err
	}
	if err := DrawLine(d, x1, y1, x2, y2, c); err != nil {
		return err
	}
	return DrawLine(d, x2, y2, x0, y0, c)
}

// FillTriangle fills a triangle with horizontal spans.
func FillTriangle(d Display, x0, y0, x1, y1, x2, y2 int, c rgb666.Color) error {
	// Sort vertices by y.
	if y0 > y1 {
		x0, y0, x1, y1 = x1, y1, x0, y0
	}
	if y1 > y2 {
		x1, y1, x2, y2 = x2, y2, x1, y1
	}
	if y0 > y1 {
		x0, y0, x1, y1 = x1, y1, x0, y0
	}

	if y0 == y2 {
		// Degenerate: all on one scanline.
		a, b := x0, x0
		if x1 < a {
			a = x1
		} else if x1 > b {
			b = x1
		}
		if x2 < a {
			a = x2
		} else if x2 > b {
			b = x2
		}
		return DrawHLine(d, a, y0, b-a+1, c)
	}

	dx01 := x1 - x0
	dy01 := y1 - y0
	dx02 := x2 - x0
	dy02 := y2 - y0
	dx12 := x2 - x1
	dy12 := y2 - y1
	sa := 0
	sb := 0

	// Upper half: spans between the 0-1 and 0-2 edges.
	last := y1 - 1
	if y1 == y2 {
		last = y1
	}

	y := y0
	for ; y <= last; y++ {
		a := x0 + sa/dy01
		b := x0 + sb/dy02
		sa += dx01
		sb += dx02
		if a > b {
			a, b = b, a
		}
		if err := DrawHLine(d, a, y, b-a+1, c); err != nil {
			return err
		}
	}

	// Lower half: spans between the 1-2 and 0-2 edges.
	sa = dx12 * (y - y1)
	sb = dx02 * (y - y0)
	for ; y <= y2; y++ {
		a := x1 + sa/dy12
		b := x0 + sb/dy02
		sa += dx12
		sb += dx02
		if a > b {
			a, b = b, a
		}
		if err := DrawHLine(d, a, y, b-a+1, c); err != nil {
			return err
		}
	}
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
