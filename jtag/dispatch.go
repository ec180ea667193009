package jtag

import (
	"log/slog"
	"time"

	"github.com/jnnycn007/openocd/pindrv"
)

// Dispatch drains cmds left to right against e, routing each tagged
// command to the matching Engine operation (spec §4.D).
//
// If the driver implements pindrv.Blinker, Blink(true) runs before
// draining and Blink(false) after, even on early exit. A driver I/O error
// aborts immediately and is returned. A Scan whose Validate hook reports a
// problem latches ErrQueueFailed into the return value but does not stop
// later commands from running.
func Dispatch(e *Engine, cmds []Command) error {
	if blinker, ok := e.Driver.(pindrv.Blinker); ok {
		if err := blinker.Blink(true); err != nil {
			return err
		}
	}

	result := error(nil)
	for _, cmd := range cmds {
		if err := dispatchOne(e, cmd); err != nil {
			if err == ErrQueueFailed {
				result = ErrQueueFailed
				continue
			}
			if blinker, ok := e.Driver.(pindrv.Blinker); ok {
				_ = blinker.Blink(false)
			}
			return err
		}
	}

	if blinker, ok := e.Driver.(pindrv.Blinker); ok {
		if err := blinker.Blink(false); err != nil {
			return err
		}
	}
	return result
}

func dispatchOne(e *Engine, cmd Command) error {
	switch c := cmd.(type) {
	case Runtest:
		slog.Debug("jtag runtest", "cycles", c.Cycles, "end_state", c.EndState)
		return e.Runtest(c.Cycles, c.EndState)

	case StableClocks:
		return e.StableClocks(c.Cycles)

	case StateMove:
		slog.Debug("jtag statemove", "end_state", c.EndState)
		return e.StateMove(c.EndState)

	case PathMove:
		slog.Debug("jtag pathmove", "states", len(c.Path))
		return e.PathMove(c.Path)

	case *Scan:
		slog.Debug("jtag scan", "ir", c.IRScan, "bits", c.Bits, "end_state", c.EndState)
		if err := e.Scan(c.IRScan, c.Type, c.Buffer, c.Bits, c.EndState); err != nil {
			return err
		}
		if c.Validate != nil {
			if err := c.Validate(c.Buffer); err != nil {
				return ErrQueueFailed
			}
		}
		return nil

	case Sleep:
		if flusher, ok := e.Driver.(pindrv.Flusher); ok {
			if err := flusher.Flush(); err != nil {
				return err
			}
		}
		sleepMicroseconds(e.Driver, c.Microseconds)
		return nil

	case TMS:
		return dispatchTMS(e, c)

	default:
		protocolViolation("Dispatch", "unknown command type %T", cmd)
		return nil // unreachable: protocolViolation panics
	}
}

// dispatchTMS clocks an explicit packed TMS bit sequence without
// reference to named TAP states (spec §3's "tms" command variant).
func dispatchTMS(e *Engine, c TMS) error {
	tms := 0
	for i := uint32(0); i < c.Count; i++ {
		tms = int((c.Bits[i/8] >> (i % 8)) & 1)
		if err := e.Driver.Write(0, tms, 0); err != nil {
			return err
		}
		if err := e.Driver.Write(1, tms, 0); err != nil {
			return err
		}
	}
	return e.Driver.Write(clockIdle, tms, 0)
}

// sleepMicroseconds prefers the driver's own Sleep capability (some
// backends can coordinate it with bus quiescence) and falls back to
// time.Sleep otherwise.
func sleepMicroseconds(driver pindrv.JTAGDriver, us uint32) {
	if sleeper, ok := driver.(pindrv.Sleeper); ok {
		if err := sleeper.Sleep(us); err == nil {
			return
		}
	}
	time.Sleep(time.Duration(us) * time.Microsecond)
}
