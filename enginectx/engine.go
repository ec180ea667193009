// Package enginectx ties the JTAG and SWD engines together into one debug
// transport, and is the single place the pin driver, the TAP model, and
// the SWD sticky error would have lived as process-wide singletons in the
// upstream design this was distilled from (spec §9). Carrying them as
// fields of an explicit Engine instead means two probes can be driven from
// one process; a thin package-level façade below is kept for callers that
// still expect the old singleton shape.
package enginectx

import (
	"github.com/jnnycn007/openocd/jtag"
	"github.com/jnnycn007/openocd/pindrv"
	"github.com/jnnycn007/openocd/swd"
	"github.com/jnnycn007/openocd/tap"
)

// Engine bundles one JTAG engine and one SWD engine driving the same probe.
// Both halves are independent state machines; a caller may use only one of
// them (e.g. an SWD-only probe need never touch JTAG).
type Engine struct {
	JTAG *jtag.Engine
	SWD  *swd.Engine
}

// New returns an Engine whose halves are backed by jtagDriver and
// swdDriver respectively. Either may be nil if that protocol is unused;
// calling the corresponding half's methods then panics, the same way a nil
// pointer dereference would in the teacher's code.
func New(jtagDriver pindrv.JTAGDriver, swdDriver pindrv.SWDDriver) *Engine {
	e := &Engine{}
	if jtagDriver != nil {
		e.JTAG = jtag.New(jtagDriver)
	}
	if swdDriver != nil {
		e.SWD = swd.New(swdDriver)
	}
	return e
}

// Dispatch runs cmds against this Engine's JTAG half (spec §4.D).
func (e *Engine) Dispatch(cmds []jtag.Command) error {
	return jtag.Dispatch(e.JTAG, cmds)
}

// defaultEngine is the package-level Engine the compatibility façade
// functions below operate on. It starts nil; Init must be called once
// before any façade function, mirroring the teacher's explicit
// setJtagDriver/init step.
var defaultEngine *Engine

// Init installs the process-wide default Engine used by the package-level
// façade functions. Not safe to call concurrently with itself or with any
// other function in this package, consistent with §5's single-threaded
// model.
func Init(jtagDriver pindrv.JTAGDriver, swdDriver pindrv.SWDDriver) {
	defaultEngine = New(jtagDriver, swdDriver)
}

// Default returns the process-wide Engine installed by Init, or nil if
// Init has not been called.
func Default() *Engine { return defaultEngine }

// CurrentState returns the default Engine's current TAP state.
func CurrentState() tap.State { return defaultEngine.JTAG.State() }

// EndState returns the default Engine's target TAP state.
func EndState() tap.State { return defaultEngine.JTAG.EndState() }

// Dispatch runs cmds against the default Engine's JTAG half.
func Dispatch(cmds []jtag.Command) error { return defaultEngine.Dispatch(cmds) }

// ReadReg performs an SWD register read against the default Engine's SWD
// half.
func ReadReg(reg swd.Reg, out *uint32, apDelay uint32) error {
	return defaultEngine.SWD.ReadReg(reg, out, apDelay)
}

// WriteReg performs an SWD register write against the default Engine's SWD
// half.
func WriteReg(reg swd.Reg, value uint32, apDelay uint32) error {
	return defaultEngine.SWD.WriteReg(reg, value, apDelay)
}

// SwitchSeq transmits an SWD special sequence against the default Engine's
// SWD half.
func SwitchSeq(seq swd.SpecialSeq) error { return defaultEngine.SWD.SwitchSeq(seq) }

// RunQueue flushes and clears the default Engine's SWD sticky error.
func RunQueue() error { return defaultEngine.SWD.RunQueue() }

// StickyError reports the default Engine's currently latched SWD error.
func StickyError() error { return defaultEngine.SWD.StickyError() }
