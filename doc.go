// Package ili9488 controls an ILI9488 TFT display via SPI.
//
// The ILI9488 is an 18-bit-color controller for 320×480 TFT panels. This
// driver implements the display.Drawer interface from periph.io.
//
// # Display Characteristics
//
// - 18-bit color (RGB666, 6 bits per channel, 3 bytes per pixel over SPI)
// - 320×480 native resolution, four hardware rotations via MADCTL
// - Windowed addressing: rectangular writes auto-increment inside the window
// - Partial-refresh mode restricting updates to a row band
// - Optional backlight control with PWM brightness
// - Optional asynchronous bulk transfers, one outstanding transfer at a time
//
// # Hardware Connection
//
// Connect the display to your system via SPI:
//
//	Display Pin → System Pin
//	GND         → GND
//	VCC         → 3.3V
//	SCK         → SPI Clock (SCLK)
//	SDI/MOSI    → SPI Data (MOSI)
//	DC          → GPIO (any available pin)
//	CS          → SPI Chip Select (or a GPIO via Opts.CS)
//	RST         → Optional: GPIO for hardware reset
//	BL          → Optional: GPIO for backlight (PWM capable for dimming)
//
// # Basic Usage
//
//	package main
//
//	import (
//		"periph.io/x/conn/v3/gpio/gpioreg"
//		"periph.io/x/conn/v3/spi/spireg"
//		"periph.io/x/devices/v3/ili9488"
//		"periph.io/x/devices/v3/ili9488/rgb666"
//		"periph.io/x/host/v3"
//	)
//
//	func main() {
//		// Initialize periph.io
//		host.Init()
//
//		// Open SPI bus
//		spiBus, _ := spireg.Open("")
//
//		// Get Data/Command GPIO pin
//		dcPin := gpioreg.ByName("GPIO25")
//
//		// Create device
//		dev, _ := ili9488.NewSPI(spiBus, dcPin, &ili9488.Opts{
//			Rotation: ili9488.Rotation90,
//			RST:      gpioreg.ByName("GPIO27"),
//			BL:       gpioreg.ByName("GPIO18"),
//		})
//		defer dev.Halt()
//
//		dev.SetBacklight(true)
//		dev.FillScreen(rgb666.RGB565(0x07E0)) // green
//		dev.DrawPixel(10, 10, rgb666.White)
//	}
//
// # Colors
//
// The controller's native format is RGB666. The rgb666 subpackage converts
// from the common representations:
//
//	c := rgb666.RGB565(0xF800)    // from a 16-bit 5-6-5 value
//	c := rgb666.RGB888(255, 0, 0) // from 8-bit channels
//
// Bulk operations (FillArea, WritePixels) convert once and stream batched
// 3-byte pixels; WritePixels cycles a short color slice across the area.
//
// # Asynchronous Transfers
//
// For large pre-rendered buffers, WriteDMA starts the transfer and returns
// immediately. Only one transfer may be outstanding; a second request
// reports false and the caller falls back to the synchronous WriteData:
//
//	dev.SetWindow(0, 0, 479, 319)
//	if !dev.WriteDMA(frame) {
//		dev.WriteData(frame)
//	}
//	dev.WaitDMA() // before reusing frame
//
// # Drawing Primitives
//
// The gfx subpackage builds lines, rectangles, circles, triangles and text
// on top of DrawPixel/FillArea; horizontal and vertical lines are redirected
// to batched fills.
//
// # Datasheet
//
// https://www.hpinfotech.ro/ILI9488.pdf
package ili9488
