package drivers

import (
	"github.com/jnnycn007/openocd/pindrv"
)

// JTAGPins names the GPIO lines a PinBank drives as a 4-wire JTAG bus.
// TRST is optional: with HasTRST false it is "not wired", and Reset becomes
// a no-op.
type JTAGPins struct {
	TCK, TMS, TDI, TDO Pin
	TRST               Pin
	HasTRST            bool
}

// SWDPins names the GPIO lines a PinBank drives as a 2-wire SWD bus.
type SWDPins struct {
	SWCLK, SWDIO Pin
}

// PinBank turns a RawPinDriver backend into the edge-level capability
// bundles pindrv defines, so a single GPIO backend (Rpio, Gpiod, Periph)
// serves both the JTAG and SWD engines. PinBank always satisfies
// pindrv.Blinker; LED is driven high/low by Blink only when HasLED is set.
type PinBank struct {
	Raw RawPinDriver

	JTAG JTAGPins
	SWD  SWDPins

	LED      Pin
	HasLED   bool
	swdioOut bool
}

// Open initializes the backend and configures line directions: JTAG's
// TCK/TMS/TDI (and TRST, if wired) as outputs and TDO as input; SWD's
// SWCLK as output and SWDIO starting as input until the engine drives it.
func (b *PinBank) Open() error {
	if err := b.Raw.Open(); err != nil {
		return err
	}
	b.Raw.SetOutput(b.JTAG.TCK)
	b.Raw.SetOutput(b.JTAG.TMS)
	b.Raw.SetOutput(b.JTAG.TDI)
	b.Raw.SetInput(b.JTAG.TDO)
	if b.JTAG.HasTRST {
		b.Raw.SetOutput(b.JTAG.TRST)
		b.Raw.Write(b.JTAG.TRST, true)
	}
	b.Raw.SetOutput(b.SWD.SWCLK)
	b.Raw.SetInput(b.SWD.SWDIO)
	if b.HasLED {
		b.Raw.SetOutput(b.LED)
	}
	return nil
}

// Close releases the backend.
func (b *PinBank) Close() error { return b.Raw.Close() }

// Write implements pindrv.JTAGDriver.
func (b *PinBank) Write(tck, tms, tdi int) error {
	b.Raw.Write(b.JTAG.TCK, tck != 0)
	b.Raw.Write(b.JTAG.TMS, tms != 0)
	b.Raw.Write(b.JTAG.TDI, tdi != 0)
	return nil
}

// Read implements pindrv.JTAGDriver.
func (b *PinBank) Read() (pindrv.Level, error) {
	return pindrv.Level(b.Raw.Read(b.JTAG.TDO)), nil
}

// jtagSide and swdSide are thin per-protocol views over one PinBank: both
// pindrv.JTAGDriver.Write and pindrv.SWDDriver.Write take (int, int, ...)
// with different meanings, so a single receiver can't implement both
// interfaces directly.
type jtagSide struct{ bank *PinBank }

func (s *jtagSide) Write(tck, tms, tdi int) error { return s.bank.Write(tck, tms, tdi) }
func (s *jtagSide) Read() (pindrv.Level, error)   { return s.bank.Read() }
func (s *jtagSide) Blink(on bool) error           { return s.bank.Blink(on) }

type swdSide struct{ bank *PinBank }

func (s *swdSide) Write(swclk, swdio int) error {
	s.bank.Raw.Write(s.bank.SWD.SWCLK, swclk != 0)
	if s.bank.swdioOut {
		s.bank.Raw.Write(s.bank.SWD.SWDIO, swdio != 0)
	}
	return nil
}

func (s *swdSide) ReadSWDIO() (bool, error) {
	return s.bank.Raw.Read(s.bank.SWD.SWDIO), nil
}

func (s *swdSide) DriveSWDIO(output bool) error {
	s.bank.swdioOut = output
	if output {
		s.bank.Raw.SetOutput(s.bank.SWD.SWDIO)
	} else {
		s.bank.Raw.SetInput(s.bank.SWD.SWDIO)
	}
	return nil
}

func (s *swdSide) Blink(on bool) error { return s.bank.Blink(on) }

// JTAGDriver returns the pindrv.JTAGDriver view of this bank.
func (b *PinBank) JTAGDriver() pindrv.JTAGDriver { return &jtagSide{bank: b} }

// SWDDriver returns the pindrv.SWDDriver view of this bank.
func (b *PinBank) SWDDriver() pindrv.SWDDriver { return &swdSide{bank: b} }

// Blink implements pindrv.Blinker when LED is wired; otherwise it is a
// no-op (satisfying the interface costs nothing and lets callers always
// type-assert for it).
func (b *PinBank) Blink(on bool) error {
	if b.HasLED {
		b.Raw.Write(b.LED, on)
	}
	return nil
}

// Reset drives the active-low TRST line low when asserted is true and high
// when it is false, if wired; a no-op otherwise. Not part
// of pindrv — JTAG reset-via-TRST is a backend convenience, not something
// the engines drive (they reach TAP_RESET via five TMS=1 clocks instead).
func (b *PinBank) Reset(asserted bool) {
	if !b.JTAG.HasTRST {
		return
	}
	b.Raw.Write(b.JTAG.TRST, !asserted)
}
