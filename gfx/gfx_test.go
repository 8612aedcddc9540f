package gfx

import (
	"image"
	"testing"

	"periph.io/x/devices/v3/ili9488/rgb666"
)

// canvas is an in-memory Display that tracks which pixels were painted and
// how they were painted, so tests can assert both coverage and batching.
type canvas struct {
	w, h   int
	px     map[[2]int]rgb666.Color
	pixels int // DrawPixel calls
	fills  int // FillArea calls
}

func newCanvas(w, h int) *canvas {
	return &canvas{w: w, h: h, px: map[[2]int]rgb666.Color{}}
}

func (c *canvas) DrawPixel(x, y int, col rgb666.Color) error {
	c.pixels++
	if x >= 0 && x < c.w && y >= 0 && y < c.h {
		c.px[[2]int{x, y}] = col
	}
	return nil
}

func (c *canvas) FillArea(x0, y0, x1, y1 int, col rgb666.Color) error {
	c.fills++
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if x >= 0 && x < c.w && y >= 0 && y < c.h {
				c.px[[2]int{x, y}] = col
			}
		}
	}
	return nil
}

func (c *canvas) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.w, c.h)
}

func (c *canvas) set(x, y int) bool {
	_, ok := c.px[[2]int{x, y}]
	return ok
}

func TestDrawHLineBatches(t *testing.T) {
	c := newCanvas(100, 100)
	if err := DrawHLine(c, 10, 20, 30, rgb666.White); err != nil {
		t.Fatal(err)
	}
	if c.fills != 1 || c.pixels != 0 {
		t.Errorf("fills = %d, pixels = %d; a horizontal line must be one batched fill", c.fills, c.pixels)
	}
	for x := 10; x < 40; x++ {
		if !c.set(x, 20) {
			t.Fatalf("pixel (%d, 20) not painted", x)
		}
	}
	if c.set(9, 20) || c.set(40, 20) {
		t.Error("line painted outside its extent")
	}
}

func TestDrawVLineBatches(t *testing.T) {
	c := newCanvas(100, 100)
	if err := DrawVLine(c, 5, 10, 15, rgb666.White); err != nil {
		t.Fatal(err)
	}
	if c.fills != 1 || c.pixels != 0 {
		t.Errorf("fills = %d, pixels = %d; a vertical line must be one batched fill", c.fills, c.pixels)
	}
	if len(c.px) != 15 {
		t.Errorf("painted %d pixels, want 15", len(c.px))
	}
}

func TestDrawLineAxisAligned(t *testing.T) {
	c := newCanvas(100, 100)
	// Axis-aligned lines take the batched path regardless of point order.
	if err := DrawLine(c, 50, 7, 10, 7, rgb666.White); err != nil {
		t.Fatal(err)
	}
	if err := DrawLine(c, 3, 60, 3, 20, rgb666.White); err != nil {
		t.Fatal(err)
	}
	if c.fills != 2 || c.pixels != 0 {
		t.Errorf("fills = %d, pixels = %d; axis-aligned lines must batch", c.fills, c.pixels)
	}
	if !c.set(10, 7) || !c.set(50, 7) || !c.set(3, 20) || !c.set(3, 60) {
		t.Error("endpoints not painted")
	}
}

func TestDrawLineDiagonal(t *testing.T) {
	c := newCanvas(100, 100)
	if err := DrawLine(c, 0, 0, 9, 9, rgb666.White); err != nil {
		t.Fatal(err)
	}
	if c.fills != 0 {
		t.Error("diagonal line must not use fills")
	}
	for i := 0; i < 10; i++ {
		if !c.set(i, i) {
			t.Fatalf("pixel (%d, %d) not painted", i, i)
		}
	}
	if len(c.px) != 10 {
		t.Errorf("painted %d pixels, want 10", len(c.px))
	}
}

func TestDrawLineSteep(t *testing.T) {
	c := newCanvas(100, 100)
	if err := DrawLine(c, 2, 0, 4, 20, rgb666.White); err != nil {
		t.Fatal(err)
	}
	if !c.set(2, 0) || !c.set(4, 20) {
		t.Error("endpoints of steep line not painted")
	}
	// One pixel per row for a steep line.
	for y := 0; y <= 20; y++ {
		n := 0
		for x := 0; x < 100; x++ {
			if c.set(x, y) {
				n++
			}
		}
		if n != 1 {
			t.Fatalf("row %d has %d pixels, want 1", y, n)
		}
	}
}

func TestDrawRect(t *testing.T) {
	c := newCanvas(100, 100)
	if err := DrawRect(c, 10, 10, 5, 4, rgb666.White); err != nil {
		t.Fatal(err)
	}
	// Perimeter of a 5x4 rectangle.
	if len(c.px) != 14 {
		t.Errorf("painted %d pixels, want 14", len(c.px))
	}
	if c.set(11, 11) || c.set(13, 12) {
		t.Error("rectangle interior must not be painted")
	}
	if !c.set(10, 10) || !c.set(14, 13) {
		t.Error("rectangle corners not painted")
	}
}

func TestFillRect(t *testing.T) {
	c := newCanvas(100, 100)
	if err := FillRect(c, 10, 10, 5, 4, rgb666.White); err != nil {
		t.Fatal(err)
	}
	if c.fills != 1 {
		t.Errorf("fills = %d, want 1", c.fills)
	}
	if len(c.px) != 20 {
		t.Errorf("painted %d pixels, want 20", len(c.px))
	}
}

func TestFillRectDegenerate(t *testing.T) {
	c := newCanvas(100, 100)
	if err := FillRect(c, 10, 10, 0, 4, rgb666.White); err != nil {
		t.Fatal(err)
	}
	if err := DrawRect(c, 10, 10, 5, -1, rgb666.White); err != nil {
		t.Fatal(err)
	}
	if c.fills != 0 || c.pixels != 0 {
		t.Error("degenerate rectangles must not touch the display")
	}
}

func TestDrawCircleSymmetry(t *testing.T) {
	c := newCanvas(100, 100)
	if err := DrawCircle(c, 50, 50, 10, rgb666.White); err != nil {
		t.Fatal(err)
	}
	// Cardinal points.
	for _, p := range [][2]int{{50, 60}, {50, 40}, {60, 50}, {40, 50}} {
		if !c.set(p[0], p[1]) {
			t.Errorf("cardinal point (%d, %d) not painted", p[0], p[1])
		}
	}
	// The outline must be 8-way symmetric around the center.
	for p := range c.px {
		dx, dy := p[0]-50, p[1]-50
		for _, q := range [][2]int{
			{-dx, dy}, {dx, -dy}, {-dx, -dy},
			{dy, dx}, {-dy, dx}, {dy, -dx}, {-dy, -dx},
		} {
			if !c.set(50+q[0], 50+q[1]) {
				t.Fatalf("outline not symmetric: (%d, %d) painted but (%d, %d) not",
					50+dx, 50+dy, 50+q[0], 50+q[1])
			}
		}
	}
}

func TestFillCircleCoverage(t *testing.T) {
	c := newCanvas(100, 100)
	r := 8
	if err := FillCircle(c, 50, 50, r, rgb666.White); err != nil {
		t.Fatal(err)
	}
	// Everything strictly inside the radius is covered.
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy < r*r && !c.set(50+dx, 50+dy) {
				t.Fatalf("interior point (%d, %d) not painted", 50+dx, 50+dy)
			}
		}
	}
	// Nothing well outside the radius is.
	if c.set(50+r+1, 50) || c.set(50, 50-r-1) || c.set(50+r, 50+r) {
		t.Error("fill leaked outside the circle")
	}
}

func TestDrawTriangle(t *testing.T) {
	c := newCanvas(100, 100)
	if err := DrawTriangle(c, 10, 10, 30, 10, 10, 30, rgb666.White); err != nil {
		t.Fatal(err)
	}
	if !c.set(10, 10) || !c.set(30, 10) || !c.set(10, 30) {
		t.Error("triangle vertices not painted")
	}
	if c.set(15, 15) {
		t.Error("triangle interior must not be painted")
	}
}

func TestFillTriangleCoverage(t *testing.T) {
	c := newCanvas(100, 100)
	if err := FillTriangle(c, 0, 0, 8, 0, 0, 8, rgb666.White); err != nil {
		t.Fatal(err)
	}
	for _, p := range [][2]int{{0, 0}, {8, 0}, {0, 8}, {2, 2}, {4, 0}, {0, 4}} {
		if !c.set(p[0], p[1]) {
			t.Errorf("point (%d, %d) not painted", p[0], p[1])
		}
	}
	if c.set(8, 8) {
		t.Error("point (8, 8) outside the triangle was painted")
	}
	if c.pixels != 0 {
		t.Error("filled triangle must be drawn with spans, not pixels")
	}
}

func TestFillTriangleVertexOrder(t *testing.T) {
	// Same triangle in two vertex orders must cover the same pixels.
	c1 := newCanvas(100, 100)
	c2 := newCanvas(100, 100)
	if err := FillTriangle(c1, 5, 30, 40, 3, 20, 45, rgb666.White); err != nil {
		t.Fatal(err)
	}
	if err := FillTriangle(c2, 20, 45, 5, 30, 40, 3, rgb666.White); err != nil {
		t.Fatal(err)
	}
	if len(c1.px) != len(c2.px) {
		t.Fatalf("coverage differs: %d vs %d pixels", len(c1.px), len(c2.px))
	}
	for p := range c1.px {
		if !c2.set(p[0], p[1]) {
			t.Fatalf("pixel (%d, %d) painted in one order only", p[0], p[1])
		}
	}
}

func TestFillTriangleDegenerate(t *testing.T) {
	c := newCanvas(100, 100)
	// All three vertices on one scanline collapse to a horizontal span.
	if err := FillTriangle(c, 10, 5, 30, 5, 20, 5, rgb666.White); err != nil {
		t.Fatal(err)
	}
	for x := 10; x <= 30; x++ {
		if !c.set(x, 5) {
			t.Fatalf("pixel (%d, 5) not painted", x)
		}
	}
	if len(c.px) != 21 {
		t.Errorf("painted %d pixels, want 21", len(c.px))
	}
}

func TestDrawString(t *testing.T) {
	c := newCanvas(200, 50)
	if err := DrawString(c, 10, 10, "A", rgb666.White); err != nil {
		t.Fatal(err)
	}
	if len(c.px) == 0 {
		t.Fatal("glyph painted no pixels")
	}
	w := StringWidth("A")
	h := StringHeight()
	for p := range c.px {
		if p[0] < 10 || p[0] >= 10+w || p[1] < 10 || p[1] >= 10+h {
			t.Fatalf("glyph pixel (%d, %d) outside its %dx%d box", p[0], p[1], w, h)
		}
	}
}

func TestDrawStringEmpty(t *testing.T) {
	c := newCanvas(200, 50)
	if err := DrawString(c, 10, 10, "", rgb666.White); err != nil {
		t.Fatal(err)
	}
	if c.pixels != 0 || c.fills != 0 {
		t.Error("empty string must not touch the display")
	}
}

func TestStringMetrics(t *testing.T) {
	if w := StringWidth("AB"); w != 2*StringWidth("A") {
		t.Errorf("StringWidth(\"AB\") = %d, want %d", w, 2*StringWidth("A"))
	}
	if h := StringHeight(); h <= 0 {
		t.Errorf("StringHeight() = %d", h)
	}
}
