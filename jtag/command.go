package jtag

import "github.com/jnnycn007/openocd/tap"

// Command is the closed set of tagged JTAG operations the engine accepts.
// It replaces the upstream intrusive linked list (spec §9 Design Notes)
// with an ordered slice of tagged records; the engine drains it left to
// right and does not retain references after execution.
type Command interface {
	isCommand()
}

// Runtest clocks num_cycles full TCK periods with TMS=0 from TAP_IDLE (first
// moving there if necessary), then moves to EndState.
type Runtest struct {
	Cycles   uint32
	EndState tap.State
}

func (Runtest) isCommand() {}

// StableClocks clocks Cycles cycles holding TMS at the state-holding value.
// Requires the current TAP state to already be stable.
type StableClocks struct {
	Cycles uint32
}

func (StableClocks) isCommand() {}

// StateMove (aka TLR_RESET in the original) walks directly to EndState.
type StateMove struct {
	EndState tap.State
}

func (StateMove) isCommand() {}

// PathMove walks an explicit, caller-chosen sequence of states. Each
// consecutive pair must be one of the two legal single-TMS transitions of
// the prior state; violating this is a programming error (ProtocolError).
type PathMove struct {
	Path []tap.State
}

func (PathMove) isCommand() {}

// ScanType selects the direction of a Scan command.
type ScanType int

const (
	ScanOut   ScanType = iota // write only, capture is not defined
	ScanIn                    // capture only, TDI held at 0
	ScanInOut                 // write and capture
)

// Scan shifts Bits bits through the instruction or data register.
//
// Buffer is mutated in place: bits captured from TDO overwrite the
// corresponding input bits, LSB-first within each byte. The caller fills
// Buffer before queuing the command; there is no buffer-construction hook.
// Validate is the optional post-capture hook.
type Scan struct {
	IRScan   bool
	Type     ScanType
	Buffer   []byte
	Bits     uint32
	EndState tap.State

	// Validate, if non-nil, is invoked by the dispatcher after the scan
	// completes with the captured Buffer. A non-nil error latches a
	// queue-level failure (ErrQueueFailed) without aborting dispatch of
	// later commands.
	Validate func(buf []byte) error
}

func (*Scan) isCommand() {}

// Sleep delays for the given duration before the next command runs. The
// dispatcher flushes the driver first so pins are quiescent during the
// delay.
type Sleep struct {
	Microseconds uint32
}

func (Sleep) isCommand() {}

// TMS blasts an explicit, packed TMS bit sequence (LSB-first) without
// reference to named TAP states — used for raw reset/recovery sequences.
type TMS struct {
	Bits  []byte
	Count uint32
}

func (TMS) isCommand() {}
