package ili9488

import (
	"runtime"

	"periph.io/x/conn/v3/gpio"
)

// Asynchronous transfer states. At most one transfer may be outstanding per
// transport; a second request while one is in flight fails fast instead of
// corrupting the stream.
const (
	dmaIdle uint32 = iota
	dmaArmed
	dmaInFlight
)

// WriteDataDMA starts an asynchronous data transfer.
//
// It reports true once the transfer has been started, not completed. It
// reports false, without touching the bus, when a transfer is already in
// flight or data is empty; callers then fall back to WriteDataBuffer or
// retry after Wait.
//
// The transfer runs on a background goroutine standing in for the transfer
// completion interrupt: on a Linux host the kernel performs the actual DMA
// inside the blocking bus write. The buffer must not be modified and no
// synchronous write may be issued until Busy reports false. Transfer errors
// are not reported; the async path is fire-and-forget by design.
func (t *SPITransport) WriteDataDMA(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if !t.state.CompareAndSwap(dmaIdle, dmaArmed) {
		return false
	}
	if err := t.dc.Out(gpio.High); err != nil {
		t.state.Store(dmaIdle)
		return false
	}
	if t.cs != nil {
		if err := t.cs.Out(gpio.Low); err != nil {
			t.state.Store(dmaIdle)
			return false
		}
	}
	t.state.Store(dmaInFlight)
	go t.transfer(data)
	return true
}

func (t *SPITransport) transfer(data []byte) {
	for len(data) > 0 {
		n := len(data)
		if n > t.maxTxSize {
			n = t.maxTxSize
		}
		t.c.Tx(data[:n], nil)
		data = data[n:]
	}
	t.completeTransfer()
}

// completeTransfer releases chip-select and returns the state to idle. This
// is the only transition out of the in-flight state; it does nothing else so
// completion latency stays bounded.
func (t *SPITransport) completeTransfer() {
	if t.cs != nil {
		t.cs.Out(gpio.High)
	}
	t.state.Store(dmaIdle)
}

// Busy reports whether an asynchronous transfer is outstanding. The read is
// lock-free and safe to call while a transfer completes concurrently.
func (t *SPITransport) Busy() bool {
	return t.state.Load() != dmaIdle
}

// Wait spins until no asynchronous transfer is outstanding, yielding to
// other ready goroutines between polls. Use it before reusing the transfer
// buffer or issuing a synchronous write.
func (t *SPITransport) Wait() {
	for t.Busy() {
		runtime.Gosched()
	}
}
