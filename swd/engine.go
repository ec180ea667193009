package swd

import (
	"log/slog"
	"time"

	"github.com/jnnycn007/openocd/pindrv"
)

// scratchBytes sizes the read/write response scratch buffer to
// ceil((4+3+32+1+4)/8) = 6 bytes (spec §9), comfortably covering the 38-bit
// turnaround+ack+data+parity+turnaround field used on the wire.
const scratchBytes = 6

// Reg addresses a single SWD register access: whether it targets the AP or
// DP, and its 2-bit register offset (spec §6 command byte bits 3-4).
type Reg struct {
	APnDP bool
	Addr  uint8
}

// Engine carries the SWD transaction state — the pin driver and the sticky
// queued error — as explicit fields instead of process-wide globals (spec
// §9's re-architecture note). One Engine must not be driven concurrently;
// see SPEC_FULL.md §5.
type Engine struct {
	Driver pindrv.SWDDriver

	sticky error
	now    func() time.Time
}

// New returns an Engine with no sticky error set.
func New(driver pindrv.SWDDriver) *Engine {
	return &Engine{Driver: driver, now: time.Now}
}

// StickyError reports the currently latched SWD target error, or nil.
func (e *Engine) StickyError() error { return e.sticky }

// ReadReg issues an SWD read of reg, retrying on ACK=WAIT until WaitTimeout
// elapses, and stores the 32-bit result in *out if non-nil (spec §4.F
// read_reg). A no-op if a sticky error is already latched.
func (e *Engine) ReadReg(reg Reg, out *uint32, apDelay uint32) error {
	if e.sticky != nil {
		slog.Debug("swd read skipped: sticky error set", "err", e.sticky)
		return nil
	}

	cmd := Cmd(reg.APnDP, true, reg.Addr)
	deadline := e.now().Add(WaitTimeout)

	for retry := 0; ; retry++ {
		scratch := make([]byte, scratchBytes)

		frame := cmd | cmdStart | cmdPark
		exchange(e.Driver, false, []byte{frame}, 0, 8)

		_ = e.Driver.DriveSWDIO(false)
		exchange(e.Driver, true, scratch, 0, 1+3+32+1+1)
		_ = e.Driver.DriveSWDIO(true)

		ack := Ack(getBits(scratch, 1, 3))
		data := getBits(scratch, 1+3, 32)
		parity := getBits(scratch, 1+3+32, 1)

		if ack == AckWait && e.now().Before(deadline) {
			e.clearStickyErrors()
			if retry > backoffThreshold {
				time.Sleep(backoffSleep)
			}
			continue
		}

		if ack != AckOK {
			e.sticky = ackToError(ack)
			return nil
		}

		if int(parity) != parityOf32(data) {
			e.sticky = ErrParity
			return nil
		}

		if out != nil {
			*out = data
		}
		if reg.APnDP {
			exchange(e.Driver, true, nil, 0, apDelay)
		}
		return nil
	}
}

// WriteReg issues an SWD write of value to reg, retrying on ACK=WAIT the
// same way as ReadReg (spec §4.F write_reg). DP_TARGETSEL writes are never
// acknowledged by the target and so never check their ACK.
func (e *Engine) WriteReg(reg Reg, value uint32, apDelay uint32) error {
	if e.sticky != nil {
		slog.Debug("swd write skipped: sticky error set", "err", e.sticky)
		return nil
	}

	cmd := Cmd(reg.APnDP, false, reg.Addr)
	checkAck := returnsAck(cmd)
	deadline := e.now().Add(WaitTimeout)

	for retry := 0; ; retry++ {
		scratch := make([]byte, scratchBytes)
		setBits(scratch, 1+3+1, 32, value)
		setBits(scratch, 1+3+1+32, 1, uint32(parityOf32(value)))

		frame := cmd | cmdStart | cmdPark
		exchange(e.Driver, false, []byte{frame}, 0, 8)

		_ = e.Driver.DriveSWDIO(false)
		exchange(e.Driver, true, scratch, 0, 1+3)

		// Glitch-avoidance: pre-write the first data bit as an output while
		// SWDIO is still configured as an input, so the direction flip that
		// follows does not change the level already latched into the GPIO
		// output register (spec §4.F write_reg step 4).
		exchange(e.Driver, false, scratch, 1+3+1, 1)
		_ = e.Driver.DriveSWDIO(true)
		exchange(e.Driver, false, scratch, 1+3+1, 32+1)

		ack := Ack(getBits(scratch, 1, 3))

		if checkAck && ack == AckWait && e.now().Before(deadline) {
			e.clearStickyErrors()
			if retry > backoffThreshold {
				time.Sleep(backoffSleep)
			}
			continue
		}

		if checkAck && ack != AckOK {
			e.sticky = ackToError(ack)
			return nil
		}

		if reg.APnDP {
			exchange(e.Driver, true, nil, 0, apDelay)
		}
		return nil
	}
}

// clearStickyErrors issues an embedded DP_ABORT write clearing the target's
// own sticky-error flags, used between WAIT retries (spec §4.F step 6).
// This writes directly through WriteReg's machinery at ap_delay=0: ABORT is
// a DP register, so it never retries on WAIT itself in practice, but
// reusing WriteReg keeps the framing (including the glitch-avoidance
// sub-protocol) identical to every other write.
func (e *Engine) clearStickyErrors() {
	abort := Reg{APnDP: false, Addr: dpAbortAddr}
	saved := e.sticky
	e.sticky = nil
	_ = e.WriteReg(abort, stkCmpClr|stkErrClr|wdErrClr|orunErrClr, 0)
	e.sticky = saved
}

// SwitchSeq transmits the canonical bit pattern for seq (spec §4.F
// switch_seq). Unknown variants return ErrUnsupportedSeq.
func (e *Engine) SwitchSeq(seq SpecialSeq) error {
	bits, n, err := sequenceFor(seq)
	if err != nil {
		return err
	}
	exchange(e.Driver, false, bits, 0, n)
	return nil
}

// RunQueue clocks 8 idle bits so the last AP transaction's data is pushed
// through the DAP, then returns and clears the sticky error (spec §4.F
// run_queue).
func (e *Engine) RunQueue() error {
	exchange(e.Driver, true, nil, 0, 8)
	err := e.sticky
	e.sticky = nil
	return err
}
