package swd

import "github.com/jnnycn007/openocd/pindrv"

// exchange clocks bits SWCLK cycles starting at bit offset offset of buf,
// LSB-first (spec §4.E). When rnw is false, SWDIO is driven from buf (or
// held at 0 if buf is nil); when rnw is true, SWDIO is held at 0 and, if buf
// is non-nil, sampled into buf on the low half of each cycle.
//
// Driver errors are not surfaced here, matching the original primitive this
// is modeled on (spec §9 open question 1): a bitbang bus is assumed
// reliable enough that adding error plumbing to every single-bit clock
// would only obscure the hot path. A Blinker, if the driver has one,
// brackets the whole burst.
func exchange(driver pindrv.SWDDriver, rnw bool, buf []byte, offset, bits uint32) {
	if blinker, ok := driver.(pindrv.Blinker); ok {
		_ = blinker.Blink(true)
	}

	for i := offset; i < offset+bits; i++ {
		swdio := false
		if !rnw && buf != nil {
			swdio = getBit(buf, i)
		}

		_ = driver.Write(0, boolToInt(swdio))

		if rnw && buf != nil {
			lvl, _ := driver.ReadSWDIO()
			setBit(buf, i, lvl)
		}

		_ = driver.Write(1, boolToInt(swdio))
	}

	if blinker, ok := driver.(pindrv.Blinker); ok {
		_ = blinker.Blink(false)
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
