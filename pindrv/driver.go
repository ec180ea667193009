// Package pindrv defines the capability-bundle contract the JTAG and SWD
// engines are polymorphic over. It contains no implementation: concrete
// backends live in the drivers package and are never imported by tap, jtag,
// or swd.
package pindrv

// Level is a sampled or driven digital line level.
type Level bool

const (
	Low  Level = false
	High Level = true
)

// JTAGDriver is the required capability bundle for driving a 4-wire JTAG
// bus one TCK edge at a time (spec §4.A).
//
// Write must be called in strict (tck=0, ...) then (tck=1, ...) pairs for
// every logical clock, and every burst of edges must terminate with a
// final (tck=0, tms=last, tdi=0) call so TCK idles low — the engine relies
// on this; deviating breaks reset-halt on real targets.
type JTAGDriver interface {
	// Write emits one TCK transition at the given level while driving TMS
	// and TDI.
	Write(tck, tms, tdi int) error
	// Read synchronously samples TDO during the low half of a clock.
	Read() (Level, error)
}

// Sampler is an optional JTAGDriver capability: a bounded producer/consumer
// for deferred TDO sampling. When present, the engine enqueues a sample with
// Sample instead of calling Read immediately, and later drains the queue
// with ReadSample.
type Sampler interface {
	// BufSize is the number of samples the driver can hold before it must
	// be drained.
	BufSize() int
	// Sample enqueues one deferred TDO sample.
	Sample() error
	// ReadSample dequeues the oldest deferred sample.
	ReadSample() (Level, error)
}

// SWDDriver is the required capability bundle for driving the 2-wire SWD
// bus one SWCLK edge at a time (spec §4.A).
type SWDDriver interface {
	// Write emits one SWCLK transition while driving SWDIO to the given
	// level.
	Write(swclk, swdio int) error
	// ReadSWDIO samples SWDIO.
	ReadSWDIO() (bool, error)
	// DriveSWDIO sets SWDIO direction: true drives the line, false
	// releases it (high-Z) so the target can drive it. The engine
	// guarantees call ordering around turnaround bits.
	DriveSWDIO(output bool) error
}

// Blinker is an optional capability on either driver: an activity LED.
type Blinker interface {
	Blink(on bool) error
}

// Sleeper is an optional capability: a driver-provided delay, preferred
// over a generic time.Sleep because some backends can coalesce it with
// bus-quiescence requirements.
type Sleeper interface {
	Sleep(microseconds uint32) error
}

// Flusher is an optional capability: flush any buffered output before the
// caller blocks (e.g. before a SLEEP command, so pins are quiescent during
// the delay).
type Flusher interface {
	Flush() error
}
