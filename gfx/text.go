package gfx

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"periph.io/x/devices/v3/ili9488/rgb666"
)

// DrawString draws s with its top-left corner at (x, y) using the 7x13
// basicfont face. Glyph coverage is rendered to a mask first, then plotted
// pixel by pixel; out-of-bounds pixels are clipped by the display.
func DrawString(d Display, x, y int, s string, c rgb666.Color) error {
	return drawString(d, x, y, s, c, basicfont.Face7x13)
}

func drawString(d Display, x, y int, s string, c rgb666.Color, face *basicfont.Face) error {
	if s == "" {
		return nil
	}
	w := font.MeasureString(face, s).Ceil()
	h := face.Ascent + face.Descent
	if w <= 0 || h <= 0 {
		return nil
	}

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	dr := font.Drawer{
		Dst:  mask,
		Src:  image.NewUniform(color.Alpha{A: 0xFF}),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	dr.DrawString(s)

	for yy := 0; yy < h; yy++ {
		for xx := 0; xx < w; xx++ {
			if mask.AlphaAt(xx, yy).A >= 0x80 {
				if err := d.DrawPixel(x+xx, y+yy, c); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// StringWidth returns the advance width of s in pixels when drawn with
// DrawString.
func StringWidth(s string) int {
	return font.MeasureString(basicfont.Face7x13, s).Ceil()
}

// StringHeight returns the pixel height of a line drawn with DrawString.
func StringHeight() int {
	return basicfont.Face7x13.Ascent + basicfont.Face7x13.Descent
}
