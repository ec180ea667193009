package jtag

import (
	"errors"
	"fmt"
)

// ErrQueueFailed is returned by Dispatch when every command executed
// without a driver error, but at least one Scan's Validate hook reported a
// problem with the captured data (spec §7, kind 3: JTAG queue-check
// failure). Dispatch continues past this; it is a latched, not
// short-circuiting, failure.
var ErrQueueFailed = errors.New("jtag: scan queue check failed")

// ProtocolError marks an unrecoverable programming error: an unknown
// command tag or an illegal PathMove step. The original treats these as
// process-fatal (exit(-1)); this implementation instead panics with a
// ProtocolError so a test harness (or a recover() at the dispatch
// boundary, should a caller choose to install one) can observe the
// failure with errors.As instead of losing the process.
type ProtocolError struct {
	Op  string
	Msg string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("jtag: protocol violation in %s: %s", e.Op, e.Msg)
}

func protocolViolation(op, format string, args ...any) {
	panic(&ProtocolError{Op: op, Msg: fmt.Sprintf(format, args...)})
}
