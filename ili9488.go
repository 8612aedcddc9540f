package ili9488

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"periph.io/x/devices/v3/ili9488/rgb666"
)

// Rotation is the display orientation, in 90° clockwise steps.
type Rotation uint8

const (
	Rotation0   Rotation = iota // portrait, 320x480
	Rotation90                  // landscape, 480x320
	Rotation180                 // portrait, flipped
	Rotation270                 // landscape, flipped
)

// madctlTable maps each rotation to its MADCTL value. This is the panel
// vendor's table; the bit assignments must be preserved exactly or the
// on-screen orientation will be wrong.
var madctlTable = [4]byte{
	Rotation0:   madctlMX | madctlBGR,
	Rotation90:  madctlMV | madctlBGR,
	Rotation180: madctlMY | madctlBGR,
	Rotation270: madctlMX | madctlMY | madctlMV | madctlBGR,
}

// fillBatchPixels is the size, in pixels, of the buffer used to batch bulk
// fills into few large transactions. Batching is what keeps solid fills in
// the millisecond range instead of one framed transfer per pixel. Larger
// values trade memory (3 bytes per pixel) for fewer transactions.
const fillBatchPixels = 256

// Opts is the configuration for the ILI9488 display.
type Opts struct {
	// W, H are the panel dimensions in its native portrait orientation.
	// Defaults to 320x480.
	W, H int

	// Rotation is the initial orientation.
	Rotation Rotation

	// Frequency is the SPI clock rate. Defaults to 40MHz.
	Frequency physic.Frequency

	// CS is an optional software chip-select pin; leave nil when the SPI
	// port drives chip-select in hardware.
	CS gpio.PinOut

	// RST is an optional hardware reset pin.
	RST gpio.PinIO

	// BL is an optional backlight pin (PWM brightness when supported).
	BL gpio.PinOut
}

// Dev is the device handle for an ILI9488 display.
//
// All state lives on the handle; multiple displays per process are fine.
// Dev is not safe for concurrent use: drawing operations issue multi-step
// command sequences that assume a single caller.
type Dev struct {
	t Transport

	// Panel dimensions in native portrait orientation.
	baseW, baseH int

	// Logical dimensions, swapped for the 90°/270° rotations.
	width, height int
	rotation      Rotation

	// Partial-refresh row band, active when partial is set. Always within
	// [0, height). bandSet records an explicit SetPartialArea call; until
	// then the band tracks the full height across rotations.
	partial  bool
	bandSet  bool
	py0, py1 int

	batch       []byte
	initialized bool
}

var _ display.Drawer = &Dev{}

// New creates a display driven through an existing Transport and runs the
// bring-up sequence.
func New(t Transport, opts *Opts) (*Dev, error) {
	if t == nil {
		return nil, errors.New("ili9488: transport is required")
	}
	if opts == nil {
		opts = &Opts{}
	}
	w, h := opts.W, opts.H
	if w == 0 {
		w = 320
	}
	if h == 0 {
		h = 480
	}
	if w < 0 || h < 0 {
		return nil, errors.New("ili9488: display dimensions must be positive")
	}

	d := &Dev{
		t:        t,
		baseW:    w,
		baseH:    h,
		rotation: opts.Rotation & 3,
		batch:    make([]byte, fillBatchPixels*3),
	}
	d.applySize()
	if err := d.init(); err != nil {
		return nil, err
	}
	return d, nil
}

// NewSPI creates a display connected via SPI and runs the bring-up
// sequence.
//
// The dc (data/command) pin is required. opts can be nil to use defaults
// (320x480, rotation 0, 40MHz).
func NewSPI(p spi.Port, dc gpio.PinOut, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &Opts{}
	}
	t, err := NewSPITransport(p, dc, &TransportOpts{
		Frequency: opts.Frequency,
		CS:        opts.CS,
		RST:       opts.RST,
		BL:        opts.BL,
	})
	if err != nil {
		return nil, err
	}
	return New(t, opts)
}

// init runs the bring-up sequence: hardware reset, software reset,
// sleep-out, memory access control, 18-bit pixel format, the panel's VCOM,
// power and gamma calibration tables, inversion and display-on. The delays
// are datasheet-mandated; the controller exposes no reliable ready bit over
// SPI, so fixed delays are the only option. A second call is a no-op.
func (d *Dev) init() error {
	if d.initialized {
		return nil
	}

	if err := d.t.Reset(); err != nil {
		return fmt.Errorf("ili9488: hardware reset: %w", err)
	}

	if err := d.t.WriteCommand(cmdSWReset); err != nil {
		return fmt.Errorf("ili9488: software reset: %w", err)
	}
	time.Sleep(200 * time.Millisecond)

	if err := d.t.WriteCommand(cmdSleepOut); err != nil {
		return fmt.Errorf("ili9488: sleep out: %w", err)
	}
	time.Sleep(200 * time.Millisecond)

	steps := []struct {
		cmd  byte
		data []byte
	}{
		{cmdMADCtl, []byte{madctlTable[d.rotation]}},
		{cmdPixelFormat, []byte{pixFmt18}},
		{cmdVCOMCtrl1, []byte{0x00, 0x36, 0x80}},
		{cmdPowerCtrl3, []byte{0xA7}},
		// Positive and negative gamma calibration, fixed constants mandated
		// by the panel vendor.
		{cmdGammaPos, []byte{0xF0, 0x01, 0x06, 0x0F, 0x12, 0x1D, 0x36, 0x54, 0x44, 0x0C, 0x18, 0x16, 0x13, 0x15}},
		{cmdGammaNeg, []byte{0xF0, 0x01, 0x05, 0x0A, 0x0B, 0x07, 0x32, 0x44, 0x44, 0x0C, 0x18, 0x17, 0x13, 0x16}},
		{cmdInvertOn, nil},
		{cmdDisplayOn, nil},
	}
	for _, s := range steps {
		if err := d.writeCmd(s.cmd, s.data...); err != nil {
			return fmt.Errorf("ili9488: init command %#02x: %w", s.cmd, err)
		}
	}
	time.Sleep(50 * time.Millisecond)

	d.initialized = true
	return nil
}

// writeCmd issues a command with optional data payload.
func (d *Dev) writeCmd(cmd byte, data ...byte) error {
	if err := d.t.WriteCommand(cmd); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return d.t.WriteDataBuffer(data)
}

// applySize derives the logical dimensions from the rotation and keeps the
// partial band within them. A band that was never set explicitly follows the
// full height instead of being clamped, so rotating back and forth does not
// shrink it.
func (d *Dev) applySize() {
	if d.rotation == Rotation90 || d.rotation == Rotation270 {
		d.width, d.height = d.baseH, d.baseW
	} else {
		d.width, d.height = d.baseW, d.baseH
	}
	if !d.bandSet {
		d.py0, d.py1 = 0, d.height-1
		return
	}
	if d.py1 >= d.height {
		d.py1 = d.height - 1
	}
	if d.py0 > d.py1 {
		d.py0 = d.py1
	}
}

// Size returns the current logical dimensions of the display.
func (d *Dev) Size() (w, h int) {
	return d.width, d.height
}

// Rotation returns the current orientation.
func (d *Dev) Rotation() Rotation {
	return d.rotation
}

// SetRotation sets the display orientation. The logical width and height
// are swapped for the 90° and 270° cases.
func (d *Dev) SetRotation(r Rotation) error {
	r &= 3
	if err := d.writeCmd(cmdMADCtl, madctlTable[r]); err != nil {
		return err
	}
	d.rotation = r
	d.applySize()
	return nil
}

// SetWindow establishes the rectangular address window and issues the
// memory-write command; pixel data streamed afterwards fills the window in
// raster order, the controller auto-incrementing its write pointer.
//
// Swapped coordinates are normalized. A window outside the logical bounds
// is dropped without touching the bus. While partial-refresh is active the
// row range is restricted to the partial band.
func (d *Dev) SetWindow(x0, y0, x1, y1 int) error {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	if x0 < 0 || y0 < 0 || x1 >= d.width || y1 >= d.height {
		return nil
	}
	if d.partial {
		if y0 < d.py0 {
			y0 = d.py0
		}
		if y1 > d.py1 {
			y1 = d.py1
		}
		if y0 > y1 {
			return nil
		}
	}
	if err := d.writeCmd(cmdColumnAddr, byte(x0>>8), byte(x0), byte(x1>>8), byte(x1)); err != nil {
		return err
	}
	if err := d.writeCmd(cmdPageAddr, byte(y0>>8), byte(y0), byte(y1>>8), byte(y1)); err != nil {
		return err
	}
	return d.t.WriteCommand(cmdMemoryWrite)
}

// SetPartialMode switches the controller between partial-refresh and normal
// display mode. The row band set by SetPartialArea applies while enabled.
func (d *Dev) SetPartialMode(enable bool) error {
	cmd := cmdNormalOn
	if enable {
		cmd = cmdPartialOn
	}
	if err := d.t.WriteCommand(cmd); err != nil {
		return err
	}
	// Give the mode switch time to take effect.
	time.Sleep(10 * time.Millisecond)
	d.partial = enable
	return nil
}

// SetPartialArea sets the partial-refresh row band. Reversed bounds are
// swapped and out-of-range bounds clamped rather than rejected.
func (d *Dev) SetPartialArea(y0, y1 int) error {
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	if y0 < 0 {
		y0 = 0
	}
	if y1 >= d.height {
		y1 = d.height - 1
	}
	if err := d.writeCmd(cmdPartialArea, byte(y0>>8), byte(y0), byte(y1>>8), byte(y1)); err != nil {
		return err
	}
	d.py0, d.py1 = y0, y1
	d.bandSet = true
	return nil
}

// DrawPixel draws a single pixel. Out-of-range coordinates are silently
// dropped: drawing code is expected to clip at a higher level if precision
// matters.
func (d *Dev) DrawPixel(x, y int, c rgb666.Color) error {
	if x < 0 || x >= d.width || y < 0 || y >= d.height {
		return nil
	}
	if err := d.SetWindow(x, y, x, y); err != nil {
		return err
	}
	px := c.Bytes()
	return d.t.WriteDataBuffer(px[:])
}

// clipRect normalizes and clips a rectangle to the logical bounds and, while
// partial-refresh is active, to the partial band. ok is false when nothing
// remains. Bulk writes size their pixel stream from the clipped rectangle,
// which must therefore match the window SetWindow ends up addressing; a
// stream longer than the window would wrap inside it.
func (d *Dev) clipRect(x0, y0, x1, y1 int) (cx0, cy0, cx1, cy1 int, ok bool) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 >= d.width {
		x1 = d.width - 1
	}
	if y1 >= d.height {
		y1 = d.height - 1
	}
	if d.partial {
		if y0 < d.py0 {
			y0 = d.py0
		}
		if y1 > d.py1 {
			y1 = d.py1
		}
	}
	if x0 > x1 || y0 > y1 {
		return 0, 0, 0, 0, false
	}
	return x0, y0, x1, y1, true
}

// FillArea fills a rectangle with a single color. The color is converted
// once and the repeated 3-byte pattern streamed in batches.
func (d *Dev) FillArea(x0, y0, x1, y1 int, c rgb666.Color) error {
	x0, y0, x1, y1, ok := d.clipRect(x0, y0, x1, y1)
	if !ok {
		return nil
	}
	if err := d.SetWindow(x0, y0, x1, y1); err != nil {
		return err
	}

	px := c.Bytes()
	total := (x1 - x0 + 1) * (y1 - y0 + 1)

	// Small areas skip priming the full batch buffer.
	if total <= fillBatchPixels {
		buf := d.batch[:total*3]
		for i := 0; i < total; i++ {
			copy(buf[i*3:], px[:])
		}
		return d.t.WriteDataBuffer(buf)
	}

	for i := 0; i < fillBatchPixels; i++ {
		copy(d.batch[i*3:], px[:])
	}
	for remaining := total; remaining > 0; {
		n := remaining
		if n > fillBatchPixels {
			n = fillBatchPixels
		}
		if err := d.t.WriteDataBuffer(d.batch[:n*3]); err != nil {
			return err
		}
		remaining -= n
	}
	return nil
}

// FillScreen fills the whole display with a single color.
func (d *Dev) FillScreen(c rgb666.Color) error {
	return d.FillArea(0, 0, d.width-1, d.height-1, c)
}

// WritePixels streams individual pixel colors into a rectangle in raster
// order. When colors is shorter than the area's pixel count the slice is
// cycled; supply exactly (x1-x0+1)*(y1-y0+1) entries for a one-to-one
// mapping.
func (d *Dev) WritePixels(x0, y0, x1, y1 int, colors []rgb666.Color) error {
	if len(colors) == 0 {
		return nil
	}
	return d.streamPixels(x0, y0, x1, y1, len(colors), func(i int) rgb666.Color {
		return colors[i]
	})
}

// WritePixels565 is WritePixels for RGB565 sources, converting on the fly.
// It avoids materializing a converted copy when streaming 16-bit
// framebuffers.
func (d *Dev) WritePixels565(x0, y0, x1, y1 int, colors []uint16) error {
	if len(colors) == 0 {
		return nil
	}
	return d.streamPixels(x0, y0, x1, y1, len(colors), func(i int) rgb666.Color {
		return rgb666.RGB565(colors[i])
	})
}

func (d *Dev) streamPixels(x0, y0, x1, y1, n int, at func(int) rgb666.Color) error {
	x0, y0, x1, y1, ok := d.clipRect(x0, y0, x1, y1)
	if !ok {
		return nil
	}
	if err := d.SetWindow(x0, y0, x1, y1); err != nil {
		return err
	}

	total := (x1 - x0 + 1) * (y1 - y0 + 1)
	idx := 0
	for remaining := total; remaining > 0; {
		batch := remaining
		if batch > fillBatchPixels {
			batch = fillBatchPixels
		}
		for i := 0; i < batch; i++ {
			px := at(idx).Bytes()
			copy(d.batch[i*3:], px[:])
			idx++
			if idx == n {
				idx = 0
			}
		}
		if err := d.t.WriteDataBuffer(d.batch[:batch*3]); err != nil {
			return err
		}
		remaining -= batch
	}
	return nil
}

// WriteData streams pre-rendered wire bytes (3 bytes per pixel) into the
// window established by a prior SetWindow call.
func (d *Dev) WriteData(data []byte) error {
	return d.t.WriteDataBuffer(data)
}

// WriteDMA starts an asynchronous transfer of pre-rendered wire bytes into
// the current window. It reports true once the transfer has started; on
// false the caller falls back to WriteData or retries after WaitDMA. See
// Transport.WriteDataDMA for the buffer ownership rules.
func (d *Dev) WriteDMA(data []byte) bool {
	return d.t.WriteDataDMA(data)
}

// DMABusy reports whether an asynchronous transfer is outstanding.
func (d *Dev) DMABusy() bool {
	return d.t.Busy()
}

// WaitDMA blocks until any outstanding asynchronous transfer completes.
func (d *Dev) WaitDMA() {
	d.t.Wait()
}

// SetBacklight switches the backlight fully on or off.
func (d *Dev) SetBacklight(on bool) error {
	return d.t.SetBacklight(on)
}

// SetBacklightBrightness sets the backlight duty cycle, 0 (off) to 255
// (full).
func (d *Dev) SetBacklightBrightness(level uint8) error {
	return d.t.SetBacklightBrightness(level)
}

// Invert inverts the display colors.
func (d *Dev) Invert(invert bool) error {
	cmd := cmdInvertOff
	if invert {
		cmd = cmdInvertOn
	}
	return d.t.WriteCommand(cmd)
}

// Sleep enters or leaves the controller's sleep mode. Leaving sleep takes
// 120ms before the panel accepts further commands.
func (d *Dev) Sleep(enter bool) error {
	if enter {
		if err := d.t.WriteCommand(cmdSleepIn); err != nil {
			return err
		}
		time.Sleep(5 * time.Millisecond)
		return nil
	}
	if err := d.t.WriteCommand(cmdSleepOut); err != nil {
		return err
	}
	time.Sleep(120 * time.Millisecond)
	return nil
}

// Reset pulses the hardware reset line and runs the bring-up sequence
// again. The controller comes back in normal display mode with the current
// rotation reapplied; partial-refresh mode must be re-enabled by the caller.
func (d *Dev) Reset() error {
	d.t.Wait()
	d.partial = false
	d.initialized = false
	return d.init()
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return rgb666.Model
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.width, d.height)
}

// Draw implements display.Drawer. The destination rectangle is clipped to
// the display bounds (and to the partial band while partial-refresh is
// active) and the source pixels streamed in raster order, converted through
// rgb666.Model.
func (d *Dev) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	bounds := d.Bounds()
	if d.partial {
		bounds = bounds.Intersect(image.Rect(0, d.py0, d.width, d.py1+1))
	}
	clipped := dst.Intersect(bounds)
	if clipped.Empty() {
		return nil
	}
	// Keep the source aligned with whatever the clip removed.
	sp = sp.Add(clipped.Min.Sub(dst.Min))
	dst = clipped
	if err := d.SetWindow(dst.Min.X, dst.Min.Y, dst.Max.X-1, dst.Max.Y-1); err != nil {
		return err
	}

	n := 0
	for y := 0; y < dst.Dy(); y++ {
		for x := 0; x < dst.Dx(); x++ {
			c := rgb666.Model.Convert(src.At(sp.X+x, sp.Y+y)).(rgb666.Color)
			px := c.Bytes()
			copy(d.batch[n*3:], px[:])
			n++
			if n == fillBatchPixels {
				if err := d.t.WriteDataBuffer(d.batch[:n*3]); err != nil {
					return err
				}
				n = 0
			}
		}
	}
	if n > 0 {
		return d.t.WriteDataBuffer(d.batch[:n*3])
	}
	return nil
}

// Halt turns the display and backlight off. The device must be recreated to
// be used again.
func (d *Dev) Halt() error {
	d.t.Wait()
	if err := d.t.WriteCommand(cmdDisplayOff); err != nil {
		return err
	}
	return d.t.SetBacklight(false)
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("ili9488.Dev{%dx%d}", d.width, d.height)
}
