package jtag

import (
	"github.com/jnnycn007/openocd/pindrv"
	"github.com/jnnycn007/openocd/tap"
)

// clockIdle is the TCK level the engine always settles on between
// operations. The bitbang driver this engine was modeled on leaves TCK low
// at idle; a driver that does otherwise breaks reset-halt on real
// hardware, so this is not configurable.
const clockIdle = 0

// Engine drives a pindrv.JTAGDriver through the TAP state machine one edge
// at a time. It carries the TAP model (current/end state) as instance
// fields rather than as process-wide globals, per the re-architecture note
// in the original design: every operation takes an explicit *Engine
// receiver instead of touching a singleton.
type Engine struct {
	Driver pindrv.JTAGDriver

	current tap.State
	end     tap.State
}

// New returns an Engine with both current and end state at TAP_RESET, the
// TAP model's power-on state.
func New(driver pindrv.JTAGDriver) *Engine {
	return &Engine{Driver: driver, current: tap.Reset, end: tap.Reset}
}

// State returns the TAP's current state.
func (e *Engine) State() tap.State { return e.current }

// EndState returns the TAP state the engine is working towards.
func (e *Engine) EndState() tap.State { return e.end }

func (e *Engine) setEndState(s tap.State) {
	if !tap.IsStable(s) {
		protocolViolation("setEndState", "state %s is not stable", s)
	}
	e.end = s
}

// StateMove walks the TAP directly from the current state to endState
// using the precomputed shortest TMS path, then emits a terminating idle
// clock. Postcondition: State() == endState.
func (e *Engine) StateMove(endState tap.State) error {
	e.setEndState(endState)
	return e.stateMove(0)
}

// stateMove is the shared worker behind StateMove and the post-scan
// recovery move. skip=1 is used exclusively by Scan, which has already
// consumed the path's first TMS transition by setting TMS=1 on the final
// shift bit.
func (e *Engine) stateMove(skip int) error {
	bits, length := tap.TMSPath(e.current, e.end)
	tms := 0
	for i := int(skip); i < int(length); i++ {
		tms = int((bits >> uint(i)) & 1)
		if err := e.Driver.Write(0, tms, 0); err != nil {
			return err
		}
		if err := e.Driver.Write(1, tms, 0); err != nil {
			return err
		}
	}
	if err := e.Driver.Write(clockIdle, tms, 0); err != nil {
		return err
	}
	e.current = e.end
	return nil
}

// PathMove walks an explicit sequence of states, one TMS decision per
// step. Each step must be a legal single-TMS successor of the prior state;
// anything else is a ProtocolError (programming bug, not a runtime
// condition). The end state becomes the final path state.
func (e *Engine) PathMove(path []tap.State) error {
	cur := e.current
	tms := 0
	for _, next := range path {
		switch next {
		case tap.Next(cur, 0):
			tms = 0
		case tap.Next(cur, 1):
			tms = 1
		default:
			protocolViolation("PathMove", "%s -> %s is not a valid TAP transition", cur, next)
		}
		if err := e.Driver.Write(0, tms, 0); err != nil {
			return err
		}
		if err := e.Driver.Write(1, tms, 0); err != nil {
			return err
		}
		cur = next
	}
	if err := e.Driver.Write(clockIdle, tms, 0); err != nil {
		return err
	}
	e.current = cur
	e.end = cur
	return nil
}

// Runtest clocks cycles full TCK periods with TMS=0, TDI=0, moving to
// TAP_IDLE first if not already there, then to endState if it is not
// TAP_IDLE. When the caller already asked for TAP_IDLE, no second move
// runs after the cycles — the TAP is already there (preserved
// intentionally; see SPEC_FULL.md §9.3).
func (e *Engine) Runtest(cycles uint32, endState tap.State) error {
	if e.current != tap.Idle {
		e.setEndState(tap.Idle)
		if err := e.stateMove(0); err != nil {
			return err
		}
	}

	for i := uint32(0); i < cycles; i++ {
		if err := e.Driver.Write(0, 0, 0); err != nil {
			return err
		}
		if err := e.Driver.Write(1, 0, 0); err != nil {
			return err
		}
	}
	if err := e.Driver.Write(clockIdle, 0, 0); err != nil {
		return err
	}

	e.setEndState(endState)
	if e.current != e.end {
		if err := e.stateMove(0); err != nil {
			return err
		}
	}
	return nil
}

// StableClocks clocks cycles cycles while holding TMS at whatever value
// keeps the current state stable (1 iff current==TAP_RESET, else 0).
// Requires the current state to already be stable; does not change state.
//
// Unlike the other operations, this one begins with the rising edge
// (tck=1 first): the current state is already settled from the prior
// operation's terminating idle-low edge, so there is no need to clock low
// first.
func (e *Engine) StableClocks(cycles uint32) error {
	tms := tap.HoldValue(e.current)
	for i := uint32(0); i < cycles; i++ {
		if err := e.Driver.Write(1, tms, 0); err != nil {
			return err
		}
		if err := e.Driver.Write(0, tms, 0); err != nil {
			return err
		}
	}
	return nil
}

// Scan shifts bits bits of buffer through the currently selected
// instruction or data register (selected by ir), capturing TDO bits back
// into buffer LSB-first when typ requests it, then settles in endState.
//
// If the driver implements pindrv.Sampler, captured bits are deferred
// through Sample/ReadSample and flushed whenever the buffer fills or the
// scan ends, instead of being read immediately.
func (e *Engine) Scan(ir bool, typ ScanType, buffer []byte, bits uint32, endState tap.State) error {
	e.setEndState(endState)

	target := tap.DRShift
	if ir {
		target = tap.IRShift
	}
	if e.current != target {
		saved := e.end
		e.end = target
		if err := e.stateMove(0); err != nil {
			return err
		}
		e.end = saved
	}

	sampler, buffered := e.Driver.(pindrv.Sampler)
	bufSize := 0
	if buffered {
		bufSize = sampler.BufSize()
	}
	buffered = buffered && bufSize > 0

	sampled := uint32(0)
	for i := uint32(0); i < bits; i++ {
		tms := 0
		if i == bits-1 {
			tms = 1
		}
		tdi := 0
		if typ != ScanIn && getBit(buffer, i) {
			tdi = 1
		}

		if err := e.Driver.Write(0, tms, tdi); err != nil {
			return err
		}

		if typ != ScanOut {
			if buffered {
				if err := sampler.Sample(); err != nil {
					return err
				}
				sampled++
			} else {
				lvl, err := e.Driver.Read()
				if err != nil {
					return err
				}
				setBit(buffer, i, lvl == pindrv.High)
			}
		}

		if err := e.Driver.Write(1, tms, tdi); err != nil {
			return err
		}

		if typ != ScanOut && buffered && (sampled == uint32(bufSize) || i == bits-1) {
			for j := i + 1 - sampled; j <= i; j++ {
				lvl, err := sampler.ReadSample()
				if err != nil {
					return err
				}
				setBit(buffer, j, lvl == pindrv.High)
			}
			sampled = 0
		}
	}

	// The TAP model's current state is only updated by the explicit move
	// functions, never bit-by-bit inside this loop — so it is still
	// `target` here. We *know* the loop above physically clocked the TAP
	// out of the shift state on its last bit (TMS=1), so if the caller's
	// end state differs from target we finish the move, skipping the
	// first (already-clocked) transition of the target->end path.
	if target != e.end {
		if err := e.stateMove(1); err != nil {
			return err
		}
	} else {
		e.current = e.end
	}
	return nil
}
