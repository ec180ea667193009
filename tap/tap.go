// Package tap holds the pure JTAG TAP (Test Access Port) state table: the
// 16-state finite automaton, its TMS={0,1} transition function, and the
// shortest TMS-bit path between any two stable states. Nothing here touches
// pins; it is the ground truth the jtag package's engine walks.
package tap

import "fmt"

// State is one of the 16 states of the IEEE 1149.1 TAP state machine.
type State int

const (
	Reset State = iota
	Idle
	DRSelect
	DRCapture
	DRShift
	DRExit1
	DRPause
	DRExit2
	DRUpdate
	IRSelect
	IRCapture
	IRShift
	IRExit1
	IRPause
	IRExit2
	IRUpdate

	numStates = IRUpdate + 1
)

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("tap.State(%d)", int(s))
}

var stateNames = map[State]string{
	Reset:     "RESET",
	Idle:      "IDLE",
	DRSelect:  "DRSELECT",
	DRCapture: "DRCAPTURE",
	DRShift:   "DRSHIFT",
	DRExit1:   "DREXIT1",
	DRPause:   "DRPAUSE",
	DRExit2:   "DREXIT2",
	DRUpdate:  "DRUPDATE",
	IRSelect:  "IRSELECT",
	IRCapture: "IRCAPTURE",
	IRShift:   "IRSHIFT",
	IRExit1:   "IREXIT1",
	IRPause:   "IRPAUSE",
	IRExit2:   "IREXIT2",
	IRUpdate:  "IRUPDATE",
}

// transitions[state][tms] is the next state for a single TCK edge with the
// given TMS level. This is the IEEE 1149.1 TAP diagram, not a design choice.
var transitions = [numStates][2]State{
	Reset:     {Idle, Reset},
	Idle:      {Idle, DRSelect},
	DRSelect:  {DRCapture, IRSelect},
	DRCapture: {DRShift, DRExit1},
	DRShift:   {DRShift, DRExit1},
	DRExit1:   {DRPause, DRUpdate},
	DRPause:   {DRPause, DRExit2},
	DRExit2:   {DRShift, DRUpdate},
	DRUpdate:  {Idle, DRSelect},
	IRSelect:  {IRCapture, Reset},
	IRCapture: {IRShift, IRExit1},
	IRShift:   {IRShift, IRExit1},
	IRExit1:   {IRPause, IRUpdate},
	IRPause:   {IRPause, IRExit2},
	IRExit2:   {IRShift, IRUpdate},
	IRUpdate:  {Idle, DRSelect},
}

// stableStates is the 6-element subset of States for which clocking the
// state-holding TMS value does not move the TAP.
var stableStates = [...]State{Reset, Idle, DRShift, DRPause, IRShift, IRPause}

// IsStable reports whether s is one of the six stable TAP states.
func IsStable(s State) bool {
	for _, st := range stableStates {
		if st == s {
			return true
		}
	}
	return false
}

// Next returns the state reached from s on a single TCK edge with the given
// tms level (0 or 1; any nonzero value is treated as 1).
func Next(s State, tms int) State {
	if tms != 0 {
		tms = 1
	}
	return transitions[s][tms]
}

// HoldValue returns the TMS level that keeps a stable state unchanged:
// 1 for RESET (the only stable state whose self-loop is on TMS=1), 0
// otherwise.
func HoldValue(s State) int {
	if s == Reset {
		return 1
	}
	return 0
}

// path is the precomputed shortest TMS-bit sequence between two stable
// states: Bits holds the sequence LSB-first (bit i is the TMS value of the
// i-th clock), Len is the number of bits, never more than 7.
type path struct {
	Bits uint8
	Len  uint8
}

var paths [numStates][numStates]path

func init() {
	for _, from := range stableStates {
		computePathsFrom(from)
	}
}

// computePathsFrom runs a breadth-first search over the full 16-state graph
// starting at `from`, recording the shortest TMS path to every other stable
// state. The table is derived at startup rather than hand-written for all
// 36 stable-state pairs.
func computePathsFrom(from State) {
	type frontierEntry struct {
		state State
		bits  uint8
		len   uint8
	}
	visited := [numStates]bool{}
	visited[from] = true
	queue := []frontierEntry{{state: from, bits: 0, len: 0}}

	if from == from { // self path is always zero-length
		paths[from][from] = path{Bits: 0, Len: 0}
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for tms := 0; tms < 2; tms++ {
			next := Next(cur.state, tms)
			if visited[next] {
				continue
			}
			visited[next] = true
			nextBits := cur.bits | uint8(tms)<<cur.len
			nextLen := cur.len + 1
			if IsStable(next) {
				paths[from][next] = path{Bits: nextBits, Len: nextLen}
			}
			queue = append(queue, frontierEntry{state: next, bits: nextBits, len: nextLen})
		}
	}
}

// TMSPath returns the precomputed shortest TMS-bit sequence (LSB-first) and
// its length for moving from stable state `from` to stable state `to`. The
// result is undefined if either state is not stable.
func TMSPath(from, to State) (bits uint8, length uint8) {
	p := paths[from][to]
	return p.Bits, p.Len
}
