// Package rgb666 provides the ILI9488's native 18-bit color format.
//
// The controller stores 6 bits per channel. On the SPI interface each pixel
// is 3 bytes, one per channel, with the component value in bits 0-5.
// This package provides the Color type, conversions from the common RGB565
// and RGB888 representations, and a color.Model for use with image/draw.
// All conversions are pure and deterministic.
package rgb666

import "image/color"

// Color is an 18-bit RGB color with 6 bits per channel.
// Only the lower 6 bits of each channel are significant.
type Color struct {
	R, G, B uint8
}

// Common colors.
var (
	Black   = Color{0x00, 0x00, 0x00}
	White   = Color{0x3F, 0x3F, 0x3F}
	Red     = Color{0x3F, 0x00, 0x00}
	Green   = Color{0x00, 0x3F, 0x00}
	Blue    = Color{0x00, 0x00, 0x3F}
	Yellow  = Color{0x3F, 0x3F, 0x00}
	Cyan    = Color{0x00, 0x3F, 0x3F}
	Magenta = Color{0x3F, 0x00, 0x3F}
)

// RGB565 converts a 16-bit 5-6-5 color to the native format.
//
// The 5-bit channels are widened by bit replication ((v<<1)|(v>>4)) so that
// black and white map exactly and intermediate values stay evenly spread; a
// plain left shift would drop the low bit and bias every color dark.
func RGB565(v uint16) Color {
	r := uint8(v>>11) & 0x1F
	g := uint8(v>>5) & 0x3F
	b := uint8(v) & 0x1F
	return Color{
		R: r<<1 | r>>4,
		G: g,
		B: b<<1 | b>>4,
	}
}

// RGB888 converts an 8-bit-per-channel color to the native format by
// truncating the two least significant bits of each channel. Truncation, not
// rounding; the conversion is not gamma aware.
func RGB888(r, g, b uint8) Color {
	return Color{R: r >> 2, G: g >> 2, B: b >> 2}
}

// RGB888 widens the color back to 8 bits per channel by bit replication, so
// 0x00 maps to 0x00 and 0x3F maps to 0xFF.
func (c Color) RGB888() (r, g, b uint8) {
	return widen(c.R), widen(c.G), widen(c.B)
}

func widen(v uint8) uint8 {
	v &= 0x3F
	return v<<2 | v>>4
}

// Bytes returns the 3-byte wire form of the pixel, each component in bits
// 0-5 of its byte, in R, G, B order.
func (c Color) Bytes() [3]byte {
	return [3]byte{c.R & 0x3F, c.G & 0x3F, c.B & 0x3F}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	r8, g8, b8 := c.RGB888()
	return uint32(r8) * 0x101, uint32(g8) * 0x101, uint32(b8) * 0x101, 0xFFFF
}

func toColor(c color.Color) color.Color {
	if c6, ok := c.(Color); ok {
		return c6
	}
	r, g, b, _ := c.RGBA()
	return Color{R: uint8(r >> 10), G: uint8(g >> 10), B: uint8(b >> 10)}
}

// Model converts any color.Color to a Color.
var Model = color.ModelFunc(toColor)
