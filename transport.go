package ili9488

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// Transport moves framed command and data bytes to the panel. It is the only
// layer that touches the bus and the control lines; everything above it
// composes these primitives.
//
// Implementations must frame every write under a single chip-select
// assertion with the data/command line set accordingly, and must keep at
// most one asynchronous transfer outstanding at a time.
type Transport interface {
	// WriteCommand clocks one byte with the data/command line in command
	// state.
	WriteCommand(cmd byte) error
	// WriteData clocks one byte with the data/command line in data state.
	WriteData(b byte) error
	// WriteDataBuffer sends data under a single chip-select assertion,
	// chunking internally so a buffer of any length is accepted.
	WriteDataBuffer(data []byte) error
	// WriteDataDMA starts an asynchronous data transfer. It reports true
	// once the transfer has been started, not completed, and false when a
	// transfer is already outstanding or the parameters are invalid. The
	// buffer must not be modified until the transfer completes.
	WriteDataDMA(data []byte) bool
	// Busy reports whether an asynchronous transfer is outstanding. Safe to
	// call concurrently with transfer completion.
	Busy() bool
	// Wait blocks until no asynchronous transfer is outstanding.
	Wait()
	// Reset pulses the reset line with the controller-mandated timings.
	Reset() error
	// SetBacklight switches the backlight fully on or off.
	SetBacklight(on bool) error
	// SetBacklightBrightness sets the backlight duty cycle, 0 (off) to 255
	// (full).
	SetBacklightBrightness(level uint8) error
	// Close waits for outstanding transfers and releases the transport.
	Close() error
}

// TransportOpts is the configuration for an SPI transport.
type TransportOpts struct {
	// Frequency is the SPI clock rate. Defaults to 40MHz, the panel's rated
	// write speed.
	Frequency physic.Frequency

	// CS is an optional software chip-select pin. Leave nil when the SPI
	// port drives chip-select in hardware.
	CS gpio.PinOut

	// RST is an optional reset pin. When nil, Reset is a no-op and callers
	// should rely on the software reset command.
	RST gpio.PinIO

	// BL is an optional backlight pin. Brightness control uses PWM when the
	// pin supports it and falls back to on/off otherwise.
	BL gpio.PinOut
}

// maxChunkBytes bounds a single bus transaction. Linux spidev ships with a
// 4096-byte transfer buffer by default, and the largest hardware targets
// share the same descriptor limit.
const maxChunkBytes = 4096

// backlightFreq is the backlight PWM carrier. Anything well above the
// display refresh rate works; brightness changes take effect on the next
// PWM period.
const backlightFreq = 25 * physic.KiloHertz

// SPITransport implements Transport over an SPI port and a data/command
// GPIO pin.
type SPITransport struct {
	c         conn.Conn
	dc        gpio.PinOut
	cs        gpio.PinOut
	rst       gpio.PinIO
	bl        gpio.PinOut
	maxTxSize int

	// state is the single piece of state shared between callers and the
	// transfer completion path. See dma.go.
	state atomic.Uint32
}

// NewSPITransport returns a transport connected through the given SPI port.
//
// The port is configured for Mode0, 8-bit transfers. The dc (data/command)
// pin is required; reset, backlight and software chip-select pins are
// optional.
func NewSPITransport(p spi.Port, dc gpio.PinOut, opts *TransportOpts) (*SPITransport, error) {
	if dc == nil {
		return nil, errors.New("ili9488: data/command pin is required")
	}
	if opts == nil {
		opts = &TransportOpts{}
	}
	f := opts.Frequency
	if f == 0 {
		f = 40 * physic.MegaHertz
	}

	c, err := p.Connect(f, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("ili9488: failed to connect SPI: %w", err)
	}

	t := &SPITransport{
		c:         c,
		dc:        dc,
		cs:        opts.CS,
		rst:       opts.RST,
		bl:        opts.BL,
		maxTxSize: maxChunkBytes,
	}
	if limits, ok := c.(conn.Limits); ok {
		if l := limits.MaxTxSize(); l > 0 && l < t.maxTxSize {
			t.maxTxSize = l
		}
	}

	// Idle line states: chip-select inactive, data/command in data state.
	if t.cs != nil {
		if err := t.cs.Out(gpio.High); err != nil {
			return nil, fmt.Errorf("ili9488: failed to configure CS: %w", err)
		}
	}
	if err := t.dc.Out(gpio.High); err != nil {
		return nil, fmt.Errorf("ili9488: failed to configure DC: %w", err)
	}
	if t.rst != nil {
		if err := t.rst.Out(gpio.High); err != nil {
			return nil, fmt.Errorf("ili9488: failed to configure RST: %w", err)
		}
	}
	return t, nil
}

func (t *SPITransport) startWrite() error {
	if t.cs == nil {
		return nil
	}
	return t.cs.Out(gpio.Low)
}

func (t *SPITransport) endWrite() error {
	if t.cs == nil {
		return nil
	}
	return t.cs.Out(gpio.High)
}

// WriteCommand sends a single command byte.
func (t *SPITransport) WriteCommand(cmd byte) error {
	if err := t.startWrite(); err != nil {
		return err
	}
	if err := t.dc.Out(gpio.Low); err != nil {
		return err
	}
	if err := t.c.Tx([]byte{cmd}, nil); err != nil {
		return fmt.Errorf("ili9488: command %#02x: %w", cmd, err)
	}
	return t.endWrite()
}

// WriteData sends a single data byte.
func (t *SPITransport) WriteData(b byte) error {
	return t.WriteDataBuffer([]byte{b})
}

// WriteDataBuffer sends data bytes under one chip-select assertion. The
// transfer is chunked to stay within the bus transaction limit; chunking is
// invisible to the caller.
func (t *SPITransport) WriteDataBuffer(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if err := t.startWrite(); err != nil {
		return err
	}
	if err := t.dc.Out(gpio.High); err != nil {
		return err
	}
	for len(data) > 0 {
		n := len(data)
		if n > t.maxTxSize {
			n = t.maxTxSize
		}
		if err := t.c.Tx(data[:n], nil); err != nil {
			t.endWrite()
			return fmt.Errorf("ili9488: data write: %w", err)
		}
		data = data[n:]
	}
	return t.endWrite()
}

// Reset drives the reset line through a low pulse. The delays are
// controller-mandated minimums and must not be shortened.
func (t *SPITransport) Reset() error {
	if t.rst == nil {
		return nil
	}
	if err := t.rst.Out(gpio.High); err != nil {
		return err
	}
	time.Sleep(10 * time.Millisecond)
	if err := t.rst.Out(gpio.Low); err != nil {
		return err
	}
	time.Sleep(20 * time.Millisecond)
	if err := t.rst.Out(gpio.High); err != nil {
		return err
	}
	time.Sleep(120 * time.Millisecond)
	return nil
}

// SetBacklight switches the backlight fully on or off.
func (t *SPITransport) SetBacklight(on bool) error {
	if on {
		return t.SetBacklightBrightness(255)
	}
	return t.SetBacklightBrightness(0)
}

// SetBacklightBrightness sets the backlight duty cycle. 255 is full duty,
// 0 fully off. No-op when no backlight pin is configured.
func (t *SPITransport) SetBacklightBrightness(level uint8) error {
	if t.bl == nil {
		return nil
	}
	duty := gpio.Duty(uint64(level) * uint64(gpio.DutyMax) / 255)
	if err := t.bl.PWM(duty, backlightFreq); err == nil {
		return nil
	}
	// Pin without PWM support: threshold to on/off.
	return t.bl.Out(level > 0)
}

// Close waits for any outstanding transfer and turns the backlight off. The
// SPI port itself stays open; it belongs to the caller.
func (t *SPITransport) Close() error {
	t.Wait()
	return t.SetBacklight(false)
}
