package swd

import "errors"

// Errors latched into the sticky queued-error field (spec §7 kind 4). The
// engine stores one of these; run_queue returns and clears it (spec §4.F's
// state machine: OK -> Error -> (run_queue) -> OK).
var (
	ErrWait     = errors.New("swd: ACK=WAIT deadline exceeded")
	ErrFault    = errors.New("swd: ACK=FAULT")
	ErrProtocol = errors.New("swd: unexpected ACK")
	ErrParity   = errors.New("swd: parity mismatch")
)

// ErrUnsupportedSeq is returned by SwitchSeq for an unknown SpecialSeq
// value (spec §4.F: "unknown variants return an error").
var ErrUnsupportedSeq = errors.New("swd: unsupported special sequence")
