package ili9488

// ILI9488 command set, per the ILI9488 datasheet.
const (
	cmdNOP         byte = 0x00
	cmdSWReset     byte = 0x01 // Software reset
	cmdSleepIn     byte = 0x10
	cmdSleepOut    byte = 0x11
	cmdPartialOn   byte = 0x12 // Partial display mode on
	cmdNormalOn    byte = 0x13 // Normal display mode on
	cmdInvertOff   byte = 0x20
	cmdInvertOn    byte = 0x21
	cmdDisplayOff  byte = 0x28
	cmdDisplayOn   byte = 0x29
	cmdColumnAddr  byte = 0x2A // Column address set
	cmdPageAddr    byte = 0x2B // Page (row) address set
	cmdMemoryWrite byte = 0x2C
	cmdMemoryRead  byte = 0x2E
	cmdPartialArea byte = 0x30
	cmdMADCtl      byte = 0x36 // Memory access control
	cmdPixelFormat byte = 0x3A
	cmdPowerCtrl3  byte = 0xC2
	cmdVCOMCtrl1   byte = 0xC5
	cmdGammaPos    byte = 0xE0
	cmdGammaNeg    byte = 0xE1
)

// MADCTL bits. These select the frame memory scan direction, row/column
// exchange and color component order; rotation is built from them.
const (
	madctlMY  byte = 0x80 // Row address order
	madctlMX  byte = 0x40 // Column address order
	madctlMV  byte = 0x20 // Row/column exchange
	madctlML  byte = 0x10 // Vertical refresh order
	madctlBGR byte = 0x08 // BGR color filter panel
	madctlMH  byte = 0x04 // Horizontal refresh order
)

// pixFmt18 selects the 18-bit/pixel (RGB666) interface format. The SPI
// interface streams exactly 3 bytes per pixel in this mode.
const pixFmt18 byte = 0x66
