// Package drivers adapts physical GPIO backends to the pindrv capability
// bundles the jtag and swd engines consume. It is supplemental: nothing in
// tap, jtag or swd imports it, and a caller wiring up real hardware is free
// to implement pindrv.JTAGDriver/SWDDriver directly instead.
package drivers

// Pin identifies a single GPIO line by its backend-specific number (BCM
// numbering for Rpio, a libgpiod line offset for Gpiod, a periph.io pin
// name resolved at Open for Periph).
type Pin uint32

// RawPinDriver is the backend contract every concrete GPIO driver in this
// package implements: directly-addressable lines with push-pull output,
// input, and weak pull-up control. It generalizes the teacher's
// JtagPinDriver interface (pinWrite/pinRead/pinOutput/pinInput/pinPullUp/
// pinPullOff) so PinBank can turn any backend into the edge-level
// pindrv.JTAGDriver and pindrv.SWDDriver bundles the engines require,
// instead of each backend hand-rolling its own edge sequencing.
type RawPinDriver interface {
	Open() error
	Close() error
	Write(pin Pin, high bool)
	Read(pin Pin) bool
	SetOutput(pin Pin)
	SetInput(pin Pin)
	PullUp(pin Pin)
	PullOff(pin Pin)
}
