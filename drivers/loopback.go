package drivers

import "github.com/jnnycn007/openocd/pindrv"

// Loopback is an in-memory pindrv.JTAGDriver and pindrv.SWDDriver used for
// tests and development without hardware, grounded on the pack's simulated
// bus-adapter pattern (a device model that responds to clocked bits
// in-process instead of over a physical wire, as OpenTraceLab's
// ChainSimulator does for a full scan chain). Loopback models the
// simplest possible target: TDI is echoed straight back on TDO, and SWDIO
// holds whatever level this side last drove onto it — exactly the mock
// described by the engines' round-trip tests.
type Loopback struct {
	lastTDI   bool
	swdioLast bool
	swdioOut  bool
}

// Write implements pindrv.JTAGDriver: it just remembers the TDI level
// driven on the most recent edge so Read can echo it back.
func (l *Loopback) Write(tck, tms, tdi int) error {
	l.lastTDI = tdi != 0
	return nil
}

// Read implements pindrv.JTAGDriver: TDO equals the TDI level driven on the
// call to Write immediately preceding this one, i.e. direct echo.
func (l *Loopback) Read() (pindrv.Level, error) {
	return pindrv.Level(l.lastTDI), nil
}

// swdWrite drives SWCLK/SWDIO. When the engine has released SWDIO
// (swdioOut==false) the driven value is ignored and ReadSWDIO echoes the
// last value this side actually drove, modeling a target that holds the
// bus at its last state rather than a noiseless float.
func (l *Loopback) swdWrite(swclk, swdio int) error {
	if l.swdioOut {
		l.swdioLast = swdio != 0
	}
	return nil
}

func (l *Loopback) ReadSWDIO() (bool, error) { return l.swdioLast, nil }

func (l *Loopback) DriveSWDIO(output bool) error {
	l.swdioOut = output
	return nil
}

// JTAGDriver and SWDDriver return protocol-specific views over the same
// Loopback state, mirroring PinBank's split (a single type can't implement
// two Write methods of differing arity).
func (l *Loopback) JTAGDriver() pindrv.JTAGDriver { return l }
func (l *Loopback) SWDDriver() pindrv.SWDDriver   { return &loopbackSWD{l} }

type loopbackSWD struct{ l *Loopback }

func (s *loopbackSWD) Write(swclk, swdio int) error { return s.l.swdWrite(swclk, swdio) }
func (s *loopbackSWD) ReadSWDIO() (bool, error)     { return s.l.ReadSWDIO() }
func (s *loopbackSWD) DriveSWDIO(output bool) error { return s.l.DriveSWDIO(output) }
